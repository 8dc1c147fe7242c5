package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	testhelpers "frontmentor/askgate/internal/providers"
)

func TestDiagnose(t *testing.T) {
	cfg, mock := testConfig(t, "good", "missing")
	mock.SetModelResponse("v1beta", "good", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.GeminiSuccess("OK"),
	})

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("upstream:\n  models: [good]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	client, err := newClient(&cfg.Upstream)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	var out bytes.Buffer
	failed := diagnose(context.Background(), &out, path, cfg, client, time.Second)

	if failed != 1 {
		t.Errorf("failed = %d, want 1\n%s", failed, out.String())
	}
	for _, want := range []string{
		"[OK] " + path,
		"[OK] AIzaSyTest...",
		"[ERROR] NotFound (404)",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), testKey) {
		t.Error("output leaks the full API key")
	}
}

func TestDiagnose_Credential(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"missing", "", "GOOGLE_API_KEY is not set"},
		{"placeholder", "sua_chave_api_aqui", "placeholder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, mock := testConfig(t, "good")
			cfg.Upstream.APIKey = tt.key

			client, err := newClient(&cfg.Upstream)
			if err != nil {
				t.Fatal(err)
			}
			defer client.Close()

			var out bytes.Buffer
			failed := diagnose(context.Background(), &out, filepath.Join(t.TempDir(), "absent.yaml"), cfg, client, time.Second)

			if failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
			if !strings.Contains(out.String(), "[WARN]") {
				t.Errorf("missing config file warning:\n%s", out.String())
			}
			if mock.GetRequestCount() != 0 {
				t.Error("models were probed without a credential")
			}
		})
	}
}
