package metrics

import (
	"strconv"
	"sync"
	"time"

	"frontmentor/askgate/pkg/config"
	"frontmentor/askgate/pkg/fallback"
	"frontmentor/askgate/pkg/providers"

	"github.com/prometheus/client_golang/prometheus"
)

// maxModelLabels bounds the number of distinct model label values.
const maxModelLabels = 64

// otherModel replaces model labels once the cardinality limit is reached.
const otherModel = "other"

// Collector owns every askgate Prometheus metric.
//
// It implements fallback.Observer so the orchestrator can report attempts
// and runs directly, and exposes RecordHTTPRequest for the HTTP middleware.
// All methods are no-ops when metrics are disabled.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	upstreamMetrics *UpstreamMetrics
	requestMetrics  *RequestMetrics

	// Model names come from configuration and requests can't add new ones,
	// but a reload can; cap them anyway.
	cardinalityLimiter *CardinalityLimiter
}

var _ fallback.Observer = (*Collector)(nil)

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is used.
//
// Example:
//
//	cfg := config.Default().Telemetry.Metrics
//	collector := metrics.NewCollector(&cfg, nil)
//	orch := fallback.New(client, models, fallback.WithObserver(collector))
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNS
	}
	if len(cfg.AttemptDurationBuckets) == 0 {
		cfg.AttemptDurationBuckets = config.DefaultAttemptDurationBuckets()
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		upstreamMetrics:    NewUpstreamMetrics(cfg, registry),
		requestMetrics:     NewRequestMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(maxModelLabels),
	}
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Enabled reports whether metrics are recorded.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// ObserveAttempt records one upstream attempt.
func (c *Collector) ObserveAttempt(model string, outcome providers.Outcome, latency time.Duration) {
	if !c.config.Enabled {
		return
	}

	status := 200
	if !outcome.OK() {
		status = outcome.Failure.StatusCode
	}

	c.upstreamMetrics.RecordAttempt(c.modelLabel(model), StatusLabel(status), latency)
}

// ObserveRun records the outcome of one fallback run.
func (c *Collector) ObserveRun(result *fallback.Result) {
	if !c.config.Enabled || result == nil {
		return
	}

	if result.OK() {
		c.upstreamMetrics.RecordRun(OutcomeSuccess, "", len(result.Trace), result.Duration)
		c.upstreamMetrics.RecordAnswer(c.modelLabel(result.Model))
		return
	}
	c.upstreamMetrics.RecordRun(OutcomeFailure, string(result.Err.Category), len(result.Trace), result.Duration)
}

// RecordHTTPRequest records a served HTTP request.
//
// Parameters:
//   - route: registered route pattern (e.g., "/api/ask")
//   - method: HTTP method
//   - status: response status code
//   - duration: time spent serving the request
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordRequest(route, method, strconv.Itoa(status), duration)
}

// RecordRejected records a request refused before orchestration, labeled by
// error category.
func (c *Collector) RecordRejected(category string) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordRejected(category)
}

// SetCredentialConfigured publishes whether an upstream credential is set.
func (c *Collector) SetCredentialConfigured(configured bool) {
	if !c.config.Enabled {
		return
	}

	c.upstreamMetrics.SetCredentialConfigured(configured)
}

// SetCandidateCount publishes the size of the active candidate list.
func (c *Collector) SetCandidateCount(n int) {
	if !c.config.Enabled {
		return
	}

	c.upstreamMetrics.SetCandidateCount(n)
}

func (c *Collector) modelLabel(model string) string {
	if !c.cardinalityLimiter.Allow(model) {
		return otherModel
	}
	return model
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if the value
// already exists or if the limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
