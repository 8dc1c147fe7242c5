package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newSampler maps a sample ratio onto a sampler.
//
// 1 samples every ask and 0 none; anything in between uses
// TraceIDRatioBased so the decision is stable for a trace ID. The result
// is wrapped in ParentBased, so an upstream caller's sampled flag wins.
func newSampler(ratio float64) (sdktrace.Sampler, error) {
	var base sdktrace.Sampler

	switch {
	case ratio < 0 || ratio > 1:
		return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
	case ratio == 1:
		base = sdktrace.AlwaysSample()
	case ratio == 0:
		base = sdktrace.NeverSample()
	default:
		base = sdktrace.TraceIDRatioBased(ratio)
	}

	return sdktrace.ParentBased(base), nil
}
