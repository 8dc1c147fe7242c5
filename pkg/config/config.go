package config

import "time"

// Config is the root configuration structure for askgate.
// It contains the HTTP server settings, the upstream Gemini settings
// (credential and ordered model candidates), telemetry and the optional
// audit log.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, static file serving and CORS.
	Server ServerConfig `yaml:"server" toml:"server"`

	// Upstream contains the generative API endpoint, the credential and the
	// prioritized model candidate list.
	Upstream UpstreamConfig `yaml:"upstream" toml:"upstream"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`

	// Audit contains configuration for the optional per-request audit log.
	Audit AuditConfig `yaml:"audit" toml:"audit"`

	// Secrets configures resolution of ${secret:name} references in
	// upstream.api_key.
	Secrets SecretsConfig `yaml:"secrets" toml:"secrets"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:3000", ":3000").
	// Default: ":3000"
	ListenAddress string `yaml:"listen_address" toml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout" toml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must cover every fallback attempt of one request.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout" toml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`

	// StaticDir is a directory served at "/" (the front-end page).
	// Empty disables static file serving.
	StaticDir string `yaml:"static_dir" toml:"static_dir"`

	// ExposeDiagnostics controls whether error responses include the raw
	// provider payload, the last attempted model and the attempt list.
	// Default: true
	ExposeDiagnostics bool `yaml:"expose_diagnostics" toml:"expose_diagnostics"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors" toml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// AllowedOrigins is a list of allowed origins. ["*"] allows any origin.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods" toml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers" toml:"allowed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age" toml:"max_age"`
}

// UpstreamConfig contains configuration for the generative API.
type UpstreamConfig struct {
	// BaseURL is the provider host.
	// Default: "https://generativelanguage.googleapis.com"
	BaseURL string `yaml:"base_url" toml:"base_url"`

	// APIVersion is the path segment placed before "/models".
	// Default: "v1beta"
	APIVersion string `yaml:"api_version" toml:"api_version"`

	// APIKey is the provider credential. It is usually supplied through the
	// GOOGLE_API_KEY environment variable. Empty or placeholder values are
	// treated as "not configured" at request time.
	APIKey string `yaml:"api_key" toml:"api_key"`

	// Models is the ordered list of model identifiers tried for each
	// question. Earlier entries are always tried first.
	Models []string `yaml:"models" toml:"models"`

	// PromptTemplate wraps the user's question. It must contain exactly one
	// "%s" verb, replaced by the trimmed question.
	PromptTemplate string `yaml:"prompt_template" toml:"prompt_template"`

	// AttemptTimeout bounds a single model attempt. Expiry is reported as a
	// transport failure.
	// Default: 30s
	AttemptTimeout time.Duration `yaml:"attempt_timeout" toml:"attempt_timeout"`

	// MaxIdleConns is the size of the outbound connection pool.
	// Default: 20
	MaxIdleConns int `yaml:"max_idle_conns" toml:"max_idle_conns"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging" toml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing" toml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" toml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format" toml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source" toml:"add_source"`

	// RedactSecrets scrubs credentials from every log line.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets" toml:"redact_secrets"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path" toml:"path"`

	// Namespace is the metric name prefix.
	// Default: "askgate"
	Namespace string `yaml:"namespace" toml:"namespace"`

	// AttemptDurationBuckets defines histogram buckets for upstream attempt
	// latency in seconds.
	AttemptDurationBuckets []float64 `yaml:"attempt_duration_buckets" toml:"attempt_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint" toml:"endpoint"`

	// Insecure disables TLS on the collector connection.
	// Default: true
	Insecure bool `yaml:"insecure" toml:"insecure"`

	// SampleRatio is the fraction of asks sampled (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio" toml:"sample_ratio"`

	// ServiceName is the service name in traces.
	// Default: "askgate"
	ServiceName string `yaml:"service_name" toml:"service_name"`
}

// AuditConfig contains configuration for the per-request audit log.
type AuditConfig struct {
	// Enabled controls whether outcome records are persisted.
	// Default: false
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// Backend selects the storage backend.
	// Options: "memory", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend" toml:"backend"`

	// SQLitePath is the database file used by the sqlite backend.
	// Default: "data/audit.db"
	SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`

	// BufferSize is the size of the async write queue.
	// Default: 256
	BufferSize int `yaml:"buffer_size" toml:"buffer_size"`

	// Retention contains record pruning configuration.
	Retention RetentionConfig `yaml:"retention" toml:"retention"`
}

// RetentionConfig contains audit retention configuration.
type RetentionConfig struct {
	// Days is the number of days records are kept.
	// Default: 30
	Days int `yaml:"days" toml:"days"`

	// Schedule is a standard cron expression for pruning runs.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule" toml:"schedule"`
}

// SecretsConfig configures where ${secret:name} references are looked up.
// Environment variables are tried first, then files in Dir.
type SecretsConfig struct {
	// EnvPrefix is prepended to the upper-cased secret name to form the
	// environment variable name ("google-api-key" -> ASKGATE_SECRET_GOOGLE_API_KEY).
	// Default: "ASKGATE_SECRET_"
	EnvPrefix string `yaml:"env_prefix" toml:"env_prefix"`

	// Dir holds one file per secret, as mounted by Docker or Kubernetes.
	// Empty disables file lookup.
	// Example: "/run/secrets"
	Dir string `yaml:"dir" toml:"dir"`
}
