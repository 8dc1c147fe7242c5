package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"frontmentor/askgate/pkg/audit"
	auditstorage "frontmentor/askgate/pkg/audit/storage"
	"frontmentor/askgate/pkg/audit/retention"
	"frontmentor/askgate/pkg/config"
	"frontmentor/askgate/pkg/fallback"
	"frontmentor/askgate/pkg/providers/gemini"
	"frontmentor/askgate/pkg/proxy/handlers"
	"frontmentor/askgate/pkg/server"
	"frontmentor/askgate/pkg/telemetry/health"
	"frontmentor/askgate/pkg/telemetry/metrics"
	"frontmentor/askgate/pkg/telemetry/tracing"
)

// app holds every long-lived component of a running server.
type app struct {
	logger       *slog.Logger
	client       *gemini.Client
	orchestrator *fallback.Orchestrator
	collector    *metrics.Collector
	tracer       *tracing.Tracer
	checker      *health.Checker
	ask          *handlers.AskHandler
	server       *server.Server

	auditStore audit.Storage
	recorder   *audit.Recorder
	scheduler  *retention.Scheduler
}

// newApp builds the component graph for cfg. The caller must Close it.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger}

	client, err := newClient(&cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}
	a.client = client

	a.collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	a.tracer, err = tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		a.Close(context.Background())
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	a.orchestrator = fallback.New(client, cfg.Upstream.Models,
		fallback.WithAttemptTimeout(cfg.Upstream.AttemptTimeout),
		fallback.WithTracer(a.tracer.Tracer()),
		fallback.WithObserver(a.collector),
		fallback.WithLogger(logger),
	)

	askOpts := []handlers.AskOption{handlers.WithRejectionRecorder(a.collector)}
	if cfg.Audit.Enabled {
		if err := a.startAudit(ctx, &cfg.Audit); err != nil {
			a.Close(context.Background())
			return nil, err
		}
		askOpts = append(askOpts, handlers.WithAuditSink(a.recorder))
	}

	a.ask = handlers.NewAskHandler(a.orchestrator, client, askOptions(cfg), askOpts...)

	a.checker = health.New(0)
	a.checker.RegisterCheck("credential", func(context.Context) error {
		if !config.IsCredentialConfigured(a.client.APIKey()) {
			return errors.New("API key is not configured")
		}
		return nil
	})
	a.checker.RegisterCheck("models", func(context.Context) error {
		if len(a.orchestrator.Candidates()) == 0 {
			return errors.New("model list is empty")
		}
		return nil
	})

	routes := server.Routes{
		Ask:    a.ask,
		Health: handlers.NewHealthHandler(),
		Ready:  a.checker.ReadinessHandler(),
	}
	var srvOpts []server.Option
	if a.collector.Enabled() {
		routes.Metrics = a.collector.Handler()
		routes.MetricsPath = cfg.Telemetry.Metrics.Path
		srvOpts = append(srvOpts, server.WithRequestRecorder(a.collector))
	}
	if a.tracer.Enabled() {
		srvOpts = append(srvOpts, server.WithTracing(a.tracer.Middleware))
	}
	a.server = server.NewServer(&cfg.Server, routes, srvOpts...)

	a.publishGauges()
	return a, nil
}

func (a *app) startAudit(ctx context.Context, cfg *config.AuditConfig) error {
	store, err := auditstorage.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open audit storage: %w", err)
	}
	a.auditStore = store
	a.recorder = audit.NewRecorder(store, audit.RecorderConfig{BufferSize: cfg.BufferSize})

	pruner := retention.NewPruner(store, retention.Config{
		RetentionDays: cfg.Retention.Days,
		PruneSchedule: cfg.Retention.Schedule,
	})
	a.scheduler = retention.NewScheduler(pruner)
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start audit retention: %w", err)
	}
	if next := a.scheduler.NextRun(); next != nil {
		a.logger.Debug("audit retention scheduled", "next_run", next)
	}
	return nil
}

// applyConfig pushes a reloaded configuration to the running components.
// Listen address, telemetry and audit settings need a restart.
func (a *app) applyConfig(cfg *config.Config) {
	if err := resolveSecrets(context.Background(), cfg, a.logger); err != nil {
		a.logger.Error("failed to resolve API key, keeping previous credential", "error", err)
		cfg.Upstream.APIKey = a.client.APIKey()
	}

	a.orchestrator.SetCandidates(cfg.Upstream.Models)
	a.client.SetAPIKey(cfg.Upstream.APIKey)
	a.ask.SetOptions(askOptions(cfg))
	a.publishGauges()

	a.logger.Info("configuration applied",
		"models", cfg.Upstream.Models,
		"credential", config.MaskCredential(cfg.Upstream.APIKey, 6),
		"expose_diagnostics", cfg.Server.ExposeDiagnostics,
	)
}

func (a *app) publishGauges() {
	a.collector.SetCandidateCount(len(a.orchestrator.Candidates()))
	a.collector.SetCredentialConfigured(config.IsCredentialConfigured(a.client.APIKey()))
}

// Close releases every component. It is safe on a partially built app.
func (a *app) Close(ctx context.Context) error {
	var errs []error

	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			errs = append(errs, err)
		}
		if dropped := a.recorder.Dropped(); dropped > 0 {
			a.logger.Warn("audit records dropped", "count", dropped)
		}
	}
	if a.auditStore != nil {
		if err := a.auditStore.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func askOptions(cfg *config.Config) handlers.AskOptions {
	return handlers.AskOptions{
		PromptTemplate:    cfg.Upstream.PromptTemplate,
		ExposeDiagnostics: cfg.Server.ExposeDiagnostics,
	}
}
