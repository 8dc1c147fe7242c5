// Package logging builds the service's structured logger.
//
// The logger is a plain *slog.Logger whose handler attaches the request ID
// stored in the context and scrubs credentials before records reach the
// JSON or text output:
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "upstream call", "url", "https://host/v1beta/models?key=AIza...")
//	// {"msg":"upstream call","request_id":"req-123","url":"https://host/v1beta/models?key=REDACTED"}
//
// Redaction covers "key=" query parameters, Google API keys, bearer tokens
// and attributes whose name marks a secret (api_key, token, password).
package logging
