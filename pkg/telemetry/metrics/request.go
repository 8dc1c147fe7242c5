package metrics

import (
	"time"

	"frontmentor/askgate/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// httpDurationBuckets covers fast local routes and slow ask calls.
var httpDurationBuckets = []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60}

// RequestMetrics tracks inbound HTTP traffic.
//
// Metrics:
//   - askgate_http_requests_total: requests by route, method, status
//   - askgate_http_request_duration_seconds: request duration by route
//   - askgate_http_rejected_total: asks refused before reaching upstream
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rejected        *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"route", "method", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   httpDurationBuckets,
			},
			[]string{"route"},
		),

		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "rejected_total",
				Help:      "Total number of asks rejected before orchestration by category",
			},
			[]string{"category"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.rejected,
	)

	return rm
}

// RecordRequest records a served request.
func (rm *RequestMetrics) RecordRequest(route, method, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(route, method, status).Inc()
	rm.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordRejected records a refused ask.
func (rm *RequestMetrics) RecordRejected(category string) {
	rm.rejected.WithLabelValues(category).Inc()
}
