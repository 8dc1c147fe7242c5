package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSecret(t *testing.T, dir, name, value string, perm os.FileMode) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(value), perm); err != nil {
		t.Fatal(err)
	}
	// WriteFile is subject to umask; force the mode under test.
	if err := os.Chmod(path, perm); err != nil {
		t.Fatal(err)
	}
}

func TestFileProvider_GetSecret(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "google-api-key", "AIzaFromFile\n", 0o600)
	writeSecret(t, dir, "read-only", "ro", 0o400)
	writeSecret(t, dir, "world-readable", "leaky", 0o644)
	writeSecret(t, dir, "empty", "\n", 0o600)
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o700); err != nil {
		t.Fatal(err)
	}

	p, err := NewFileProvider(dir)
	if err != nil {
		t.Fatalf("NewFileProvider() error = %v", err)
	}

	tests := []struct {
		name     string
		want     string
		notFound bool
		wantErr  bool
	}{
		{name: "google-api-key", want: "AIzaFromFile"},
		{name: "read-only", want: "ro"},
		{name: "world-readable", wantErr: true},
		{name: "empty", notFound: true},
		{name: "absent", notFound: true},
		{name: "subdir", wantErr: true},
		{name: "../escape", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.GetSecret(context.Background(), tt.name)
			switch {
			case tt.notFound:
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("error = %v, want ErrNotFound", err)
				}
			case tt.wantErr:
				if err == nil || errors.Is(err, ErrNotFound) {
					t.Errorf("error = %v, want a non-ErrNotFound error", err)
				}
			default:
				if err != nil {
					t.Fatalf("GetSecret() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("value = %q, want %q", got, tt.want)
				}
			}
		})
	}
}

func TestFileProvider_RereadsRotatedFile(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "key", "first", 0o600)

	p, err := NewFileProvider(dir)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := p.GetSecret(context.Background(), "key"); v != "first" {
		t.Fatalf("value = %q", v)
	}

	writeSecret(t, dir, "key", "second", 0o600)
	if v, _ := p.GetSecret(context.Background(), "key"); v != "second" {
		t.Errorf("value after rotation = %q, want second", v)
	}
}

func TestNewFileProvider_InvalidPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	writeSecret(t, dir, "file", "x", 0o600)

	for _, path := range []string{filepath.Join(dir, "missing"), file} {
		if _, err := NewFileProvider(path); err == nil {
			t.Errorf("NewFileProvider(%q) succeeded, want error", path)
		}
	}
}
