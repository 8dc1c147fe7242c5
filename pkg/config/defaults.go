package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress     = ":3000"
	DefaultReadTimeout       = 30 * time.Second
	DefaultWriteTimeout      = 120 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
	DefaultExposeDiagnostics = true

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600

	// Upstream defaults
	DefaultUpstreamBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultUpstreamAPIVersion = "v1beta"
	DefaultAttemptTimeout     = 30 * time.Second
	DefaultMaxIdleConns       = 20
	DefaultPromptTemplate     = "You are an experienced and didactic front-end mentor. " +
		"Briefly explain and give a code example for: %s"

	// Telemetry defaults
	DefaultLoggingLevel    = "info"
	DefaultLoggingFormat   = "json"
	DefaultRedactSecrets   = true
	DefaultMetricsEnabled  = true
	DefaultMetricsPath     = "/metrics"
	DefaultMetricsNS       = "askgate"
	DefaultTracingEndpoint = "localhost:4317"
	DefaultTracingRatio    = 1.0
	DefaultServiceName     = "askgate"

	// Audit defaults
	DefaultAuditBackend      = "sqlite"
	DefaultAuditSQLitePath   = "data/audit.db"
	DefaultAuditBufferSize   = 256
	DefaultAuditRetention    = 30
	DefaultAuditPruneCronExp = "0 3 * * *"

	// Secrets defaults
	DefaultSecretsEnvPrefix = "ASKGATE_SECRET_"
)

// DefaultModels returns the default candidate list, most preferred first.
func DefaultModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-flash-latest",
		"gemini-2.5-flash-lite",
		"gemini-2.0-flash-001",
		"gemini-pro-latest",
	}
}

// DefaultAttemptDurationBuckets is tuned for generateContent latencies.
func DefaultAttemptDurationBuckets() []float64 {
	return []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30}
}

// Default returns a configuration with every default applied. The
// credential is left empty.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.ExposeDiagnostics = DefaultExposeDiagnostics
	cfg.Server.CORS.Enabled = DefaultCORSEnabled
	cfg.Telemetry.Logging.RedactSecrets = DefaultRedactSecrets
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Insecure = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Booleans are
// only defaulted through Default and the loaders, because false is a
// legitimate explicit value.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyUpstreamDefaults(&cfg.Upstream)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyAuditDefaults(&cfg.Audit)
	if cfg.Secrets.EnvPrefix == "" {
		cfg.Secrets.EnvPrefix = DefaultSecretsEnvPrefix
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.CORS.MaxAge == 0 {
		cfg.CORS.MaxAge = DefaultCORSMaxAge
	}
}

func applyUpstreamDefaults(cfg *UpstreamConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultUpstreamBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultUpstreamAPIVersion
	}
	if cfg.Models == nil {
		cfg.Models = DefaultModels()
	}
	if cfg.PromptTemplate == "" {
		cfg.PromptTemplate = DefaultPromptTemplate
	}
	if cfg.AttemptTimeout == 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = DefaultMaxIdleConns
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNS
	}
	if len(cfg.Metrics.AttemptDurationBuckets) == 0 {
		cfg.Metrics.AttemptDurationBuckets = DefaultAttemptDurationBuckets()
	}
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultServiceName
	}
}

func applyAuditDefaults(cfg *AuditConfig) {
	if cfg.Backend == "" {
		cfg.Backend = DefaultAuditBackend
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = DefaultAuditSQLitePath
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultAuditBufferSize
	}
	if cfg.Retention.Days == 0 {
		cfg.Retention.Days = DefaultAuditRetention
	}
	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultAuditPruneCronExp
	}
}
