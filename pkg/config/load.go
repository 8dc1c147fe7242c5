package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML or TOML file at the specified
// path. The format is chosen by extension: ".toml" is decoded as TOML,
// anything else as YAML. Defaults are applied and the result is validated.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := parse(path, data)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a file and applies
// environment variable overrides. Variables follow the convention
// ASKGATE_SECTION_FIELD; GOOGLE_API_KEY and PORT are also honoured.
//
// A missing file is not an error: defaults plus environment are used. An
// empty path behaves the same way.
//
// The loading sequence is:
// 1. Load YAML or TOML from file (when present)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config

	if path == "" {
		cfg = Default()
	} else {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			cfg = Default()
		case err != nil:
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		default:
			cfg, err = parse(path, data)
			if err != nil {
				return nil, err
			}
		}
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// parse decodes data on top of Default so that booleans absent from the
// file keep their default value.
func parse(path string, data []byte) (*Config, error) {
	cfg := Default()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		// TOML has no duration type. Decode into a generic tree and route it
		// through the YAML decoder, which understands "30s" style durations.
		var tree map[string]any
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
		converted, err := yaml.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("failed to convert configuration file %q: %w", path, err)
		}
		data = converted
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Malformed numeric, boolean or duration values are ignored.
func applyEnvOverrides(cfg *Config) {
	// Server overrides. PORT is applied first so that an explicit listen
	// address wins over it.
	if val := os.Getenv("PORT"); val != "" {
		if _, err := strconv.Atoi(val); err == nil {
			cfg.Server.ListenAddress = ":" + val
		}
	}
	if val := os.Getenv("ASKGATE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("ASKGATE_SERVER_STATIC_DIR"); val != "" {
		cfg.Server.StaticDir = val
	}
	if val := os.Getenv("ASKGATE_SERVER_EXPOSE_DIAGNOSTICS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.ExposeDiagnostics = b
		}
	}
	if val := os.Getenv("ASKGATE_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Upstream overrides
	if val := os.Getenv("GOOGLE_API_KEY"); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := os.Getenv("ASKGATE_UPSTREAM_API_KEY"); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := os.Getenv("ASKGATE_UPSTREAM_BASE_URL"); val != "" {
		cfg.Upstream.BaseURL = val
	}
	if val := os.Getenv("ASKGATE_UPSTREAM_API_VERSION"); val != "" {
		cfg.Upstream.APIVersion = val
	}
	if val := os.Getenv("ASKGATE_UPSTREAM_MODELS"); val != "" {
		cfg.Upstream.Models = SplitList(val)
	}
	if val := os.Getenv("ASKGATE_UPSTREAM_ATTEMPT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Upstream.AttemptTimeout = d
		}
	}

	// Telemetry overrides
	if val := os.Getenv("ASKGATE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ASKGATE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("ASKGATE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("ASKGATE_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("ASKGATE_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("ASKGATE_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}

	// Audit overrides
	if val := os.Getenv("ASKGATE_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("ASKGATE_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("ASKGATE_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLitePath = val
	}
	if val := os.Getenv("ASKGATE_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Audit.Retention.Days = i
		}
	}

	// Secrets overrides
	if val := os.Getenv("ASKGATE_SECRETS_DIR"); val != "" {
		cfg.Secrets.Dir = val
	}
}

// SplitList splits a comma separated list, trimming blanks and dropping
// empty entries. Order and duplicates are preserved.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
