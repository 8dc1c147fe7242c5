// Package metrics provides Prometheus metrics for askgate.
//
// # Metrics Categories
//
//   - Upstream: attempts per model and status, attempt latency, answers
//   - Fallback: runs by outcome and category, attempts per run
//   - HTTP: requests by route and status, rejected asks
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	orch := fallback.New(client, models, fallback.WithObserver(collector))
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Model label values are capped; once the cap is reached new models are
// reported as "other".
package metrics
