/*
Package cli provides command-line helpers for the askgate command.

Output Formatting:

Commands build a *Table and hand it to a Formatter chosen by --output:

	t := &cli.Table{Headers: []string{"model", "status"}}
	t.Rows = append(t.Rows, []string{"gemini-1.5-flash", "200"})
	if err := cli.NewFormatter(cli.FormatText).FormatTo(os.Stdout, t); err != nil {
		return err
	}

Text output is rendered with go-pretty, rounded on terminals and plain ASCII
when piped.

Status Lines:

The diagnose command prints aligned, colorized checks:

	sw := cli.NewStatusWriter(os.Stdout)
	sw.Line("credential", cli.StatusOK, "AIzaSyAbc1...")

Signal Handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
