package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"frontmentor/askgate/pkg/cli"
	"frontmentor/askgate/pkg/config"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	noWatch       bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the askgate HTTP server",
	Long: `Start the askgate HTTP server.

The server answers POST /api/ask by trying each configured model in order,
serves GET /health and /ready, and optionally the static front-end and the
Prometheus metrics endpoint.

The configuration file is watched and re-applied on change; SIGHUP forces
a reload. The model list, API key, prompt template and diagnostics flag
take effect without a restart.

Examples:
  # Start with defaults (config.yaml if present, GOOGLE_API_KEY from env)
  askgate serve

  # Override listen address
  askgate serve --listen 0.0.0.0:3000

  # Validate config without starting the server
  askgate serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.noWatch, "no-watch", false, "do not watch the config file for changes")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}

	logger, err := setupLogger(cfg.Telemetry.Logging)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if serveFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	if err := serve(ctx, cfg, logger, out); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// serve runs the server until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.Close(shutdownCtx); err != nil {
			logger.Error("failed to release resources", "error", err)
		}
	}()

	printBanner(out, cfg)

	if !serveFlags.noWatch {
		startWatcher(ctx, a, logger)
	}
	go reloadOnSignal(ctx, a, logger)

	// Start blocks until ctx is cancelled and the server has drained.
	if err := a.server.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// startWatcher re-applies the configuration whenever the file changes. A
// missing file is not watched.
func startWatcher(ctx context.Context, a *app, logger *slog.Logger) {
	if _, err := os.Stat(cfgFile); err != nil {
		logger.Debug("config file not found, watcher disabled", "path", cfgFile)
		return
	}

	watcher, err := config.NewWatcher(cfgFile, 0, logger)
	if err != nil {
		logger.Warn("failed to create config watcher", "error", err)
		return
	}

	go func() {
		defer watcher.Stop()
		if err := watcher.Watch(ctx, a.applyConfig); err != nil {
			logger.Warn("config watcher stopped", "error", err)
		}
	}()
}

func reloadOnSignal(ctx context.Context, a *app, logger *slog.Logger) {
	sigs, stop := cli.ReloadSignal()
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigs:
			if err := config.ReloadConfig(cfgFile); err != nil {
				logger.Error("config reload failed, keeping previous configuration", "error", err)
				continue
			}
			a.applyConfig(config.GetConfig())
		}
	}
}

func printBanner(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "askgate %s\n", Version)
	fmt.Fprintf(out, "✓ Configuration loaded from %s\n", cfgFile)
	if config.IsCredentialConfigured(cfg.Upstream.APIKey) {
		fmt.Fprintf(out, "✓ API key %s\n", config.MaskCredential(cfg.Upstream.APIKey, 6))
	} else {
		fmt.Fprintln(out, "! GOOGLE_API_KEY is not set; asks will fail until it is")
	}
	fmt.Fprintf(out, "✓ Models: %v\n", cfg.Upstream.Models)
	if cfg.Audit.Enabled {
		fmt.Fprintf(out, "✓ Audit log: %s\n", cfg.Audit.Backend)
	}
	fmt.Fprintf(out, "✓ Listening on %s\n", cfg.Server.ListenAddress)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")
}
