package metrics

import (
	"strconv"
	"time"

	"frontmentor/askgate/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// StatusLabel converts an upstream status into a label value. Transport
// failures, which carry no HTTP status, are labeled "transport".
func StatusLabel(status int) string {
	if status == 0 {
		return "transport"
	}
	return strconv.Itoa(status)
}

// UpstreamMetrics tracks calls to the generative model API.
//
// Metrics:
//   - askgate_upstream_attempts_total: attempts by model and status
//   - askgate_upstream_attempt_duration_seconds: attempt latency by model
//   - askgate_upstream_answers_total: successful answers by model
//   - askgate_fallback_runs_total: runs by outcome and error category
//   - askgate_fallback_run_attempts: attempts per run
//   - askgate_fallback_run_duration_seconds: whole-run latency
//   - askgate_upstream_credential_configured: 1 when a credential is set
//   - askgate_upstream_candidates: size of the candidate list
type UpstreamMetrics struct {
	attempts        *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	answers         *prometheus.CounterVec

	runs        *prometheus.CounterVec
	runAttempts prometheus.Histogram
	runDuration prometheus.Histogram

	credentialConfigured prometheus.Gauge
	candidates           prometheus.Gauge
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "attempts_total",
				Help:      "Total number of upstream attempts by model and status",
			},
			[]string{"model", "status"},
		),

		attemptDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "attempt_duration_seconds",
				Help:      "Upstream attempt latency in seconds",
				Buckets:   cfg.AttemptDurationBuckets,
			},
			[]string{"model"},
		),

		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "answers_total",
				Help:      "Total number of answers served by model",
			},
			[]string{"model"},
		),

		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "fallback",
				Name:      "runs_total",
				Help:      "Total number of fallback runs by outcome and error category",
			},
			[]string{"outcome", "category"},
		),

		runAttempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "fallback",
				Name:      "run_attempts",
				Help:      "Number of upstream attempts per fallback run",
				Buckets:   []float64{0, 1, 2, 3, 4, 5, 8},
			},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "fallback",
				Name:      "run_duration_seconds",
				Help:      "Fallback run latency in seconds",
				Buckets:   cfg.AttemptDurationBuckets,
			},
		),

		credentialConfigured: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "credential_configured",
				Help:      "Whether an upstream API credential is configured (1=yes, 0=no)",
			},
		),

		candidates: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "candidates",
				Help:      "Number of model candidates in the fallback list",
			},
		),
	}

	registry.MustRegister(
		um.attempts,
		um.attemptDuration,
		um.answers,
		um.runs,
		um.runAttempts,
		um.runDuration,
		um.credentialConfigured,
		um.candidates,
	)

	return um
}

// RecordAttempt records one upstream attempt.
func (um *UpstreamMetrics) RecordAttempt(model, status string, latency time.Duration) {
	um.attempts.WithLabelValues(model, status).Inc()
	um.attemptDuration.WithLabelValues(model).Observe(latency.Seconds())
}

// RecordAnswer counts a successful answer from model.
func (um *UpstreamMetrics) RecordAnswer(model string) {
	um.answers.WithLabelValues(model).Inc()
}

// RecordRun records a finished fallback run.
func (um *UpstreamMetrics) RecordRun(outcome, category string, attempts int, duration time.Duration) {
	um.runs.WithLabelValues(outcome, category).Inc()
	um.runAttempts.Observe(float64(attempts))
	um.runDuration.Observe(duration.Seconds())
}

// SetCredentialConfigured sets the credential gauge.
func (um *UpstreamMetrics) SetCredentialConfigured(configured bool) {
	if configured {
		um.credentialConfigured.Set(1)
		return
	}
	um.credentialConfigured.Set(0)
}

// SetCandidateCount sets the candidate gauge.
func (um *UpstreamMetrics) SetCandidateCount(n int) {
	um.candidates.Set(float64(n))
}
