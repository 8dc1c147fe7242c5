package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any rule fails. All errors are collected and returned together.
//
// A missing or placeholder credential and an empty model list are not
// validation errors: the server still starts and reports them per request.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateUpstream(&cfg.Upstream)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "server.cors.max_age",
			Message: "max age must be non-negative",
		})
	}

	return errs
}

func validateUpstream(cfg *UpstreamConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.base_url",
			Message: "base URL is required",
		})
	} else if u, err := url.Parse(cfg.BaseURL); err != nil {
		errs = append(errs, FieldError{
			Field:   "upstream.base_url",
			Message: fmt.Sprintf("invalid URL format: %v", err),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, FieldError{
			Field:   "upstream.base_url",
			Message: "URL scheme must be http or https",
		})
	}

	if strings.TrimSpace(cfg.APIVersion) == "" || strings.Contains(cfg.APIVersion, "/") {
		errs = append(errs, FieldError{
			Field:   "upstream.api_version",
			Message: "api version must be a single path segment (e.g. v1beta)",
		})
	}

	for i, m := range cfg.Models {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("upstream.models[%d]", i),
				Message: "model identifier must not be blank",
			})
		}
	}

	if n := strings.Count(cfg.PromptTemplate, "%s"); n != 1 {
		errs = append(errs, FieldError{
			Field:   "upstream.prompt_template",
			Message: fmt.Sprintf("prompt template must contain exactly one %%s, found %d", n),
		})
	}

	if cfg.AttemptTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.attempt_timeout",
			Message: "attempt timeout must be positive",
		})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.max_idle_conns",
			Message: "max idle connections must be non-negative",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be one of: debug, info, warn, error)", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be one of: json, text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	return errs
}

func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	validBackends := map[string]bool{"memory": true, "sqlite": true}
	if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("invalid backend %q (must be one of: memory, sqlite)", cfg.Backend),
		})
	}
	if cfg.Enabled && cfg.Backend == "sqlite" && cfg.SQLitePath == "" {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite_path",
			Message: "sqlite path is required for the sqlite backend",
		})
	}
	if cfg.BufferSize < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.buffer_size",
			Message: "buffer size must be non-negative",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.days",
			Message: "retention days must be non-negative",
		})
	}

	return errs
}
