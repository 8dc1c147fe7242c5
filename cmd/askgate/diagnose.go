package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"frontmentor/askgate/pkg/classifier"
	"frontmentor/askgate/pkg/cli"
	"frontmentor/askgate/pkg/config"
	"frontmentor/askgate/pkg/providers"
)

// credentialPreview is how many characters of the key diagnose prints.
const credentialPreview = 10

var diagnoseFlags struct {
	timeout time.Duration
	offline bool
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check the configuration and probe each configured model",
	Long: `Check that askgate can answer questions.

diagnose verifies the config file and the API key, then sends a tiny prompt
to every model in upstream.models and reports the status and error category
of each. It exits non-zero when any check fails.

Examples:
  askgate diagnose
  askgate diagnose --offline`,
	RunE: runDiagnose,
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)

	diagnoseCmd.Flags().DurationVar(&diagnoseFlags.timeout, "timeout", defaultProbeTimeout, "timeout per probe")
	diagnoseCmd.Flags().BoolVar(&diagnoseFlags.offline, "offline", false, "skip the model probes")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogger(cfg.Telemetry.Logging); err != nil {
		return err
	}

	client, err := newClient(&cfg.Upstream)
	if err != nil {
		return cli.NewCommandError("diagnose", err)
	}
	defer client.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var prober providers.Completer
	if !diagnoseFlags.offline {
		prober = client
	}
	if failed := diagnose(ctx, cmd.OutOrStdout(), cfgFile, cfg, prober, diagnoseFlags.timeout); failed > 0 {
		return cli.NewCommandError("diagnose", fmt.Errorf("%d check(s) failed", failed))
	}
	return nil
}

// diagnose prints the checks and returns the number that failed. A nil
// client skips the model probes.
func diagnose(ctx context.Context, w io.Writer, path string, cfg *config.Config, client providers.Completer, timeout time.Duration) int {
	status := cli.NewStatusWriter(w)

	status.Section("Configuration")
	if _, err := os.Stat(path); err != nil {
		status.Line("config file", cli.StatusWarn, fmt.Sprintf("%s not found, using defaults and environment", path))
	} else {
		status.Line("config file", cli.StatusOK, path)
	}
	status.Line("api version", cli.StatusInfo, cfg.Upstream.APIVersion)

	credentialOK := config.IsCredentialConfigured(cfg.Upstream.APIKey)
	switch {
	case credentialOK:
		status.Line("api key", cli.StatusOK, config.MaskCredential(cfg.Upstream.APIKey, credentialPreview))
	case cfg.Upstream.APIKey == "":
		status.Line("api key", cli.StatusError, "GOOGLE_API_KEY is not set; create one at "+classifier.APIKeyConsoleURL)
	default:
		status.Line("api key", cli.StatusError, "GOOGLE_API_KEY still holds a placeholder value")
	}

	if len(cfg.Upstream.Models) == 0 {
		status.Line("models", cli.StatusError, "upstream.models is empty")
	} else {
		status.Line("models", cli.StatusOK, fmt.Sprintf("%d candidate(s)", len(cfg.Upstream.Models)))
	}

	if client == nil || !credentialOK {
		return status.Errors()
	}

	status.Section("Models")
	for _, model := range cfg.Upstream.Models {
		kind, msg := probe(ctx, client, model, timeout)
		status.Line(model, kind, msg)
	}
	return status.Errors()
}

// failureStatus renders a failed probe as its classified category.
func failureStatus(f *providers.Failure) (cli.StatusKind, string) {
	ce := classifier.Classify(f)
	if f.StatusCode > 0 {
		return cli.StatusError, fmt.Sprintf("%s (%d): %s", ce.Category, f.StatusCode, f.Message)
	}
	return cli.StatusError, fmt.Sprintf("%s: %s", ce.Category, f.Message)
}
