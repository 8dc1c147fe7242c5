// Package tracing configures OpenTelemetry for askgate.
//
// Every inbound request gets a server span from Tracer.Middleware. The
// fallback orchestrator adds a run span and one client span per upstream
// attempt underneath it, so a trace shows the model candidates in the
// order they were tried.
//
// Spans are exported over OTLP gRPC:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: otel-collector:4317
//	    sample_ratio: 0.1
//
// With tracing disabled the tracer is a noop and costs nothing beyond the
// interface calls.
package tracing
