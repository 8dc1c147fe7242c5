package main

import (
	"io"
	"log/slog"
	"testing"

	testhelpers "frontmentor/askgate/internal/providers"
	"frontmentor/askgate/pkg/config"
)

const testKey = "AIzaSyTestKey0123456789abcdef"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig returns a configuration pointing at a fresh mock upstream.
func testConfig(t *testing.T, models ...string) (*config.Config, *testhelpers.MockServer) {
	t.Helper()

	mock := testhelpers.NewMockServer()
	t.Cleanup(mock.Close)

	cfg := config.Default()
	cfg.Upstream.BaseURL = mock.URL()
	cfg.Upstream.APIKey = testKey
	cfg.Upstream.Models = models
	cfg.Server.ListenAddress = "127.0.0.1:0"
	return cfg, mock
}
