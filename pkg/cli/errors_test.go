package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("upstream.api_key", "not configured")

	want := "config error in upstream.api_key: not configured"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCommandError(t *testing.T) {
	underlying := errors.New("dial tcp: connection refused")
	err := NewCommandError("models", underlying)

	want := "askgate models failed: dial tcp: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should see the wrapped error")
	}

	var ce *CommandError
	if !errors.As(error(err), &ce) || ce.Command != "models" {
		t.Error("errors.As() should find the CommandError")
	}
}
