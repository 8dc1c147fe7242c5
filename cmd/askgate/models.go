package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"frontmentor/askgate/pkg/cli"
	"frontmentor/askgate/pkg/providers"
	"frontmentor/askgate/pkg/providers/gemini"
)

// listVersions are the API versions enumerated by the models command.
var listVersions = []string{"v1beta", "v1"}

const (
	generateContentMethod = "generateContent"
	probePrompt           = "Reply only with 'OK'"
	defaultProbeTimeout   = 20 * time.Second
)

var modelsFlags struct {
	output  string
	probe   int
	all     bool
	timeout time.Duration
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models visible to the configured API key",
	Long: `List the models the configured API key can see, for each API version.

Use it to pick values for upstream.models when asks fail with NotFound.
Only models supporting generateContent are shown unless --all is set.

Examples:
  # List usable models
  askgate models

  # Also send a tiny prompt to the first 3 usable models
  askgate models --probe 3

  # JSON output
  askgate models --output json`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().StringVarP(&modelsFlags.output, "output", "o", "text", "output format (text, json, csv)")
	modelsCmd.Flags().IntVar(&modelsFlags.probe, "probe", 0, "probe the first N generateContent models")
	modelsCmd.Flags().BoolVar(&modelsFlags.all, "all", false, "include models without generateContent")
	modelsCmd.Flags().DurationVar(&modelsFlags.timeout, "timeout", defaultProbeTimeout, "timeout per request")
}

func runModels(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(modelsFlags.output)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogger(cfg.Telemetry.Logging); err != nil {
		return err
	}

	client, err := newClient(&cfg.Upstream)
	if err != nil {
		return cli.NewCommandError("models", err)
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	listing := listModels(ctx, client, listVersions, modelsFlags.timeout)
	table := listing.Table(modelsFlags.all)
	if err := cli.NewFormatter(format).FormatTo(out, table); err != nil {
		return cli.NewCommandError("models", err)
	}

	status := cli.NewStatusWriter(cmd.ErrOrStderr())
	for _, e := range listing.Errors {
		status.Line(e.Version, cli.StatusError, e.Err.Error())
	}

	if modelsFlags.probe > 0 {
		probeModels(ctx, client, status, listing.Capable(modelsFlags.probe), modelsFlags.timeout)
	}

	if len(listing.Errors) == len(listVersions) {
		return cli.NewCommandError("models", fmt.Errorf("no API version could be listed"))
	}
	return nil
}

type versionedModel struct {
	Version string
	Model   providers.ModelInfo
}

type listError struct {
	Version string
	Err     error
}

// modelListing is the result of enumerating every API version.
type modelListing struct {
	Models []versionedModel
	Errors []listError
}

// listModels enumerates the models of each version. A failing version is
// recorded and the others are still listed.
func listModels(ctx context.Context, lister providers.ModelLister, versions []string, timeout time.Duration) *modelListing {
	listing := &modelListing{}
	for _, version := range versions {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		models, err := lister.ListModels(reqCtx, version)
		cancel()
		if err != nil {
			listing.Errors = append(listing.Errors, listError{Version: version, Err: err})
			continue
		}
		for _, m := range models {
			listing.Models = append(listing.Models, versionedModel{Version: version, Model: m})
		}
	}
	return listing
}

// Table renders the listing. Without all, models lacking generateContent
// are left out.
func (l *modelListing) Table(all bool) *cli.Table {
	t := &cli.Table{Headers: []string{"VERSION", "MODEL", "DISPLAY NAME", "GENERATE"}}
	for _, vm := range l.Models {
		capable := vm.Model.Supports(generateContentMethod)
		if !capable && !all {
			continue
		}
		t.Rows = append(t.Rows, []string{vm.Version, vm.Model.Name, vm.Model.DisplayName, yesNo(capable)})
	}
	return t
}

// Capable returns up to n distinct generateContent model names in listing
// order.
func (l *modelListing) Capable(n int) []string {
	seen := make(map[string]bool)
	var names []string
	for _, vm := range l.Models {
		if len(names) == n {
			break
		}
		if !vm.Model.Supports(generateContentMethod) || seen[vm.Model.Name] {
			continue
		}
		seen[vm.Model.Name] = true
		names = append(names, vm.Model.Name)
	}
	return names
}

// probeModels sends the probe prompt to each model and prints one status
// line per model.
func probeModels(ctx context.Context, client providers.Completer, status *cli.StatusWriter, models []string, timeout time.Duration) {
	status.Section("Probe")
	for _, model := range models {
		kind, msg := probe(ctx, client, model, timeout)
		status.Line(model, kind, msg)
	}
}

func probe(ctx context.Context, client providers.Completer, model string, timeout time.Duration) (cli.StatusKind, string) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	outcome := client.Complete(reqCtx, model, probePrompt)
	elapsed := time.Since(start).Round(time.Millisecond)

	if outcome.OK() {
		return cli.StatusOK, fmt.Sprintf("%q in %s", truncate(outcome.Text, 40), elapsed)
	}
	return failureStatus(outcome.Failure)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ providers.ModelLister = (*gemini.Client)(nil)
