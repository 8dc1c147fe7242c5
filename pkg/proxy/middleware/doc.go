// Package middleware provides the HTTP middleware chain used by the server.
//
// The chain, outermost first:
//
//  1. RecoveryMiddleware: turns panics into a 500 error envelope
//  2. RequestIDMiddleware: assigns X-Request-ID (UUID) and stores it for logging
//  3. tracing middleware: server span per request (pkg/telemetry/tracing)
//  4. LoggingMiddleware: one structured log line per request
//  5. CORSMiddleware: browser cross-origin access for the front-end
//
// MetricsMiddleware and TimeoutMiddleware are applied per route.
package middleware
