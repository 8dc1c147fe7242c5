// Package telemetry groups askgate's observability packages.
//
//   - logging: slog setup with request IDs and credential redaction
//   - metrics: Prometheus counters and histograms for asks and upstream attempts
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//   - health: readiness checks behind GET /ready
package telemetry
