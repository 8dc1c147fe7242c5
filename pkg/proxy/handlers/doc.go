// Package handlers provides the HTTP handlers of askgate.
//
// # Endpoints
//
//   - POST /api/ask: AskHandler validates the question, checks that an API
//     key is configured, runs the model fallback and renders either
//     {"response", "modelUsed"} or the error envelope.
//   - GET /health: HealthHandler always answers {"status":"OK"}.
//
// Readiness (/ready) is served by the telemetry/health package.
//
// # Reload
//
// AskHandler options (prompt template, diagnostics exposure) can be swapped
// at runtime with SetOptions; each request reads them once.
package handlers
