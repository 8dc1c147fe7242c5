package logging

import (
	"context"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID() on empty context = %q", got)
	}

	ctx = WithRequestID(ctx, "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}

	//nolint:staticcheck // nil context is handled explicitly
	if got := GetRequestID(nil); got != "" {
		t.Errorf("GetRequestID(nil) = %q", got)
	}
}
