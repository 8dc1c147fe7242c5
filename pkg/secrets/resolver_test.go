package secrets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

type brokenProvider struct{}

func (brokenProvider) GetSecret(context.Context, string) (string, error) {
	return "", fmt.Errorf("backend down")
}

func (brokenProvider) Name() string { return "broken" }

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	dir := t.TempDir()
	writeSecret(t, dir, "google-api-key", "AIzaFromFile", 0o600)
	writeSecret(t, dir, "shared", "from-file", 0o600)
	t.Setenv("ASKGATE_SECRET_SHARED", "from-env")

	files, err := NewFileProvider(dir)
	if err != nil {
		t.Fatal(err)
	}
	return NewResolver(nil, NewEnvProvider("ASKGATE_SECRET_"), files)
}

func TestResolver_Resolve(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		input string
		want  string
	}{
		{"AIzaPlainValue", "AIzaPlainValue"},
		{"${secret:google-api-key}", "AIzaFromFile"},
		{"${secret: google-api-key }", "AIzaFromFile"},
		{"${secret:shared}", "from-env"},
		{"prefix-${secret:shared}-suffix", "prefix-from-env-suffix"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolver_ResolveMissing(t *testing.T) {
	r := newTestResolver(t)

	input := "${secret:nope}"
	got, err := r.Resolve(context.Background(), input)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if got != input {
		t.Errorf("Resolve() = %q, want input unchanged", got)
	}
	if !strings.Contains(err.Error(), "env, file") {
		t.Errorf("error %q does not list the providers tried", err)
	}
}

func TestResolver_ProviderFailureStopsSearch(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "k", "v", 0o600)
	files, err := NewFileProvider(filepath.Clean(dir))
	if err != nil {
		t.Fatal(err)
	}

	r := NewResolver(nil, brokenProvider{}, files)
	if _, err := r.GetSecret(context.Background(), "k"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want provider failure", err)
	}
}

func TestHasReference(t *testing.T) {
	if !HasReference("${secret:a}") || HasReference("AIza") || HasReference("${env:a}") {
		t.Error("HasReference misclassified a value")
	}
}
