package main

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	testhelpers "frontmentor/askgate/internal/providers"
	"frontmentor/askgate/pkg/cli"
)

func TestListModels(t *testing.T) {
	cfg, mock := testConfig(t)
	mock.SetResponse("/v1beta/models", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body: testhelpers.GeminiModelList(
			testhelpers.MockModel{Name: "gemini-2.5-flash", DisplayName: "Gemini 2.5 Flash", GenerateContent: true},
			testhelpers.MockModel{Name: "text-embedding-004", DisplayName: "Text Embedding 004"},
		),
	})
	mock.SetResponse("/v1/models", testhelpers.MockResponse{
		StatusCode: http.StatusForbidden,
		Body:       testhelpers.GeminiError(http.StatusForbidden, "API not enabled", "PERMISSION_DENIED"),
	})

	client, err := newClient(&cfg.Upstream)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	listing := listModels(context.Background(), client, listVersions, time.Second)

	if len(listing.Errors) != 1 || listing.Errors[0].Version != "v1" {
		t.Fatalf("errors = %+v, want one v1 failure", listing.Errors)
	}
	if len(listing.Models) != 2 {
		t.Fatalf("models = %d, want 2", len(listing.Models))
	}

	if rows := listing.Table(false).Rows; len(rows) != 1 || rows[0][1] != "gemini-2.5-flash" {
		t.Errorf("capable rows = %v", rows)
	}
	if rows := listing.Table(true).Rows; len(rows) != 2 || rows[1][3] != "no" {
		t.Errorf("all rows = %v", rows)
	}
}

func TestModelListing_Capable(t *testing.T) {
	cfg, mock := testConfig(t)
	list := testhelpers.GeminiModelList(
		testhelpers.MockModel{Name: "a", GenerateContent: true},
		testhelpers.MockModel{Name: "embed"},
		testhelpers.MockModel{Name: "b", GenerateContent: true},
		testhelpers.MockModel{Name: "c", GenerateContent: true},
	)
	mock.SetResponse("/v1beta/models", testhelpers.MockResponse{StatusCode: http.StatusOK, Body: list})
	mock.SetResponse("/v1/models", testhelpers.MockResponse{StatusCode: http.StatusOK, Body: list})

	client, err := newClient(&cfg.Upstream)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	listing := listModels(context.Background(), client, listVersions, time.Second)

	tests := []struct {
		n    int
		want []string
	}{
		{1, []string{"a"}},
		{2, []string{"a", "b"}},
		{10, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := listing.Capable(tt.n)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("Capable(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestProbeModels(t *testing.T) {
	cfg, mock := testConfig(t)
	mock.SetModelResponse("v1beta", "works", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.GeminiSuccess("OK"),
	})
	mock.SetModelResponse("v1beta", "throttled", testhelpers.MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       testhelpers.GeminiError(http.StatusTooManyRequests, "quota exceeded", "RESOURCE_EXHAUSTED"),
	})

	client, err := newClient(&cfg.Upstream)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	var out bytes.Buffer
	status := cli.NewStatusWriter(&out)
	probeModels(context.Background(), client, status, []string{"works", "throttled"}, time.Second)

	got := out.String()
	if !strings.Contains(got, `[OK] "OK"`) {
		t.Errorf("missing OK probe line:\n%s", got)
	}
	if !strings.Contains(got, "[ERROR] RateLimited (429)") {
		t.Errorf("missing RateLimited probe line:\n%s", got)
	}
	if status.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1", status.Errors())
	}
}
