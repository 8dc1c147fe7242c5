// Package config provides configuration management for askgate.
//
// Configuration is read from a YAML file, or a TOML file when the path ends
// in ".toml", then defaults are applied, environment overrides are layered
// on top and the result is validated.
//
//	cfg, err := config.LoadConfigWithEnvOverrides("askgate.yaml")
//
// A missing file is not an error. The server can run from environment
// variables alone, which is how most deployments supply the credential.
//
// # Environment Variable Overrides
//
// Variables follow the naming convention ASKGATE_SECTION_FIELD:
//
//   - ASKGATE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - ASKGATE_UPSTREAM_MODELS overrides upstream.models (comma separated)
//   - ASKGATE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Two unprefixed variables are honoured as well. GOOGLE_API_KEY sets
// upstream.api_key and PORT sets the listen address to ":PORT". The
// prefixed forms win when both are present.
//
// # Credential
//
// Validation never rejects a missing credential. IsCredentialConfigured
// treats empty values and well-known placeholders as not configured, and
// the ask handler answers those requests with a configuration error instead
// of calling the provider.
//
// # Hot Reload
//
// Watcher observes the configuration file with fsnotify and, after a short
// debounce, reloads it and hands the new Config to a callback. The server
// uses this to swap the model candidate list and the credential without a
// restart.
//
// # Example Configuration
//
//	server:
//	  listen_address: ":3000"
//	  static_dir: "./public"
//
//	upstream:
//	  models:
//	    - gemini-2.5-flash
//	    - gemini-flash-latest
//	  attempt_timeout: 30s
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
package config
