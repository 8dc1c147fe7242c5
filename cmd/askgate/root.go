package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"frontmentor/askgate/pkg/cli"
	"frontmentor/askgate/pkg/config"
	"frontmentor/askgate/pkg/providers"
	"frontmentor/askgate/pkg/providers/gemini"
	"frontmentor/askgate/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "askgate",
	Short: "askgate - a Gemini proxy for front-end questions",
	Long: `askgate forwards a question to the Gemini generateContent API, trying an
ordered list of models until one answers, and returns either the answer or a
single classified error.

Configuration is read from a YAML or TOML file (optional) and the environment.
GOOGLE_API_KEY supplies the credential.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path (YAML or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration named by --config.
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	cfg := config.GetConfig()
	if err := resolveSecrets(context.Background(), cfg, slog.Default()); err != nil {
		return nil, cli.NewConfigError("upstream.api_key", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// setupLogger installs the configured logger as the slog default.
func setupLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	logger, err := logging.New(logging.FromConfig(cfg))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	return logger, nil
}

// newClient builds the Gemini client for cfg.
func newClient(cfg *config.UpstreamConfig) (*gemini.Client, error) {
	return gemini.NewClient(providers.ProviderConfig{
		Name:         "gemini",
		BaseURL:      cfg.BaseURL,
		APIVersion:   cfg.APIVersion,
		APIKey:       cfg.APIKey,
		MaxIdleConns: cfg.MaxIdleConns,
	})
}
