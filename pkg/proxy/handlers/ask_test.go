package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	testhelpers "frontmentor/askgate/internal/providers"
	"frontmentor/askgate/pkg/audit"
	"frontmentor/askgate/pkg/fallback"
	"frontmentor/askgate/pkg/providers"
	"frontmentor/askgate/pkg/providers/gemini"
	"frontmentor/askgate/pkg/proxy/types"
)

const testKey = "AIzaSyTestKey0123456789abcdef"

type rejectionCounter struct {
	mu         sync.Mutex
	categories []string
}

func (r *rejectionCounter) RecordRejected(category string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = append(r.categories, category)
}

type auditCapture struct {
	mu      sync.Mutex
	records []*audit.Record
}

func (a *auditCapture) Record(_ context.Context, rec *audit.Record) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
	return true
}

type fixture struct {
	mock       *testhelpers.MockServer
	client     *gemini.Client
	handler    *AskHandler
	rejections *rejectionCounter
	audit      *auditCapture
}

func newFixture(t *testing.T, key string, models []string, opts AskOptions) *fixture {
	t.Helper()

	mock := testhelpers.NewMockServer()
	t.Cleanup(mock.Close)

	client, err := gemini.NewClient(providers.ProviderConfig{BaseURL: mock.URL(), APIKey: key})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		mock:       mock,
		client:     client,
		rejections: &rejectionCounter{},
		audit:      &auditCapture{},
	}
	f.handler = NewAskHandler(
		fallback.New(client, models),
		client,
		opts,
		WithRejectionRecorder(f.rejections),
		WithAuditSink(f.audit),
	)
	return f
}

func (f *fixture) ask(method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var resp types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not an error envelope: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestAskHandler_Success(t *testing.T) {
	f := newFixture(t, testKey, []string{"gemini-2.5-flash", "gemini-1.5-flash"}, AskOptions{})
	f.mock.SetModelResponse("v1beta", "gemini-2.5-flash", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.GeminiSuccess("Use ", "flexbox."),
	})

	rec := f.ask(http.MethodPost, `{"question":"  How do I center a div?  "}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp types.AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Response != "Use flexbox." || resp.ModelUsed != "gemini-2.5-flash" {
		t.Errorf("unexpected response %+v", resp)
	}

	if n := f.mock.GetRequestCount(); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
	if len(f.audit.records) != 1 || f.audit.records[0].ModelUsed != "gemini-2.5-flash" {
		t.Errorf("unexpected audit records: %+v", f.audit.records)
	}
}

func TestAskHandler_FallsBackOnNotFound(t *testing.T) {
	f := newFixture(t, testKey, []string{"gemini-old", "gemini-1.5-flash"}, AskOptions{})
	f.mock.SetModelResponse("v1beta", "gemini-1.5-flash", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.GeminiSuccess("ok"),
	})

	rec := f.ask(http.MethodPost, `{"question":"q"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp types.AskResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ModelUsed != "gemini-1.5-flash" {
		t.Errorf("modelUsed = %q, want gemini-1.5-flash", resp.ModelUsed)
	}

	got := f.audit.records[0]
	if got.Attempts != 2 || strings.Join(got.AttemptedModels, ",") != "gemini-old,gemini-1.5-flash" {
		t.Errorf("unexpected audit record %+v", got)
	}
}

func TestAskHandler_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantStatus   int
		wantCategory string
	}{
		{"bad request", http.StatusBadRequest, http.StatusBadRequest, "BadRequest"},
		{"unauthorized", http.StatusUnauthorized, http.StatusUnauthorized, "AuthInvalid"},
		{"forbidden", http.StatusForbidden, http.StatusForbidden, "AuthInvalid"},
		{"rate limited", http.StatusTooManyRequests, http.StatusTooManyRequests, "RateLimited"},
		{"unavailable", http.StatusServiceUnavailable, http.StatusServiceUnavailable, "UpstreamUnavailable"},
		{"internal", http.StatusInternalServerError, http.StatusInternalServerError, "UpstreamUnavailable"},
		{"teapot", http.StatusTeapot, http.StatusInternalServerError, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testKey, []string{"m1", "m2"}, AskOptions{ExposeDiagnostics: true})
			f.mock.SetModelResponse("v1beta", "m1", testhelpers.MockResponse{
				StatusCode: tt.status,
				Body:       testhelpers.GeminiError(tt.status, "upstream said no", "FAILED"),
			})

			rec := f.ask(http.MethodPost, `{"question":"q"}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeError(t, rec)
			if resp.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", resp.Category, tt.wantCategory)
			}
			if !strings.Contains(resp.Error, "upstream said no") {
				t.Errorf("error message should carry the provider message: %q", resp.Error)
			}
			if resp.LastModel != "m1" {
				t.Errorf("modeloTentado = %q, want m1", resp.LastModel)
			}
			if resp.Details == nil {
				t.Error("details should carry the provider payload")
			}
			if len(resp.Attempts) != 1 || resp.Attempts[0].Status != tt.status {
				t.Errorf("attempts = %+v", resp.Attempts)
			}

			// Only 404 falls through to the next candidate.
			if n := f.mock.GetRequestCount(); n != 1 {
				t.Errorf("upstream calls = %d, want 1", n)
			}
			if len(f.rejections.categories) != 0 {
				t.Errorf("upstream failures must not count as rejections")
			}
		})
	}
}

func TestAskHandler_AllNotFound(t *testing.T) {
	f := newFixture(t, testKey, []string{"a", "b", "c"}, AskOptions{ExposeDiagnostics: true})

	rec := f.ask(http.MethodPost, `{"question":"q"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Category != "NotFound" {
		t.Errorf("category = %q, want NotFound", resp.Category)
	}
	if resp.LastModel != "c" || len(resp.Attempts) != 3 {
		t.Errorf("unexpected diagnostics %+v", resp)
	}
	if n := f.mock.GetRequestCount(); n != 3 {
		t.Errorf("upstream calls = %d, want 3", n)
	}
}

func TestAskHandler_DiagnosticsHidden(t *testing.T) {
	f := newFixture(t, testKey, []string{"m1"}, AskOptions{ExposeDiagnostics: false})
	f.mock.SetModelResponse("v1beta", "m1", testhelpers.MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       testhelpers.GeminiError(429, "quota", "RESOURCE_EXHAUSTED"),
	})

	rec := f.ask(http.MethodPost, `{"question":"q"}`)

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"details", "modeloTentado", "attempts", "requestId"} {
		if _, ok := raw[key]; ok {
			t.Errorf("field %q should be hidden", key)
		}
	}
	if raw["category"] != "RateLimited" {
		t.Errorf("category = %v", raw["category"])
	}
}

func TestAskHandler_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"invalid json", `{"question":`},
		{"missing question", `{}`},
		{"blank question", `{"question":"   \n\t"}`},
		{"wrong type", `{"question":42}`},
		{"too large", `{"question":"` + strings.Repeat("a", 1<<20) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testKey, []string{"m1"}, AskOptions{})

			rec := f.ask(http.MethodPost, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp := decodeError(t, rec); resp.Category != "InputInvalid" {
				t.Errorf("category = %q, want InputInvalid", resp.Category)
			}
			if n := f.mock.GetRequestCount(); n != 0 {
				t.Errorf("upstream calls = %d, want 0", n)
			}
			if len(f.rejections.categories) != 1 || f.rejections.categories[0] != "InputInvalid" {
				t.Errorf("rejections = %v", f.rejections.categories)
			}
		})
	}
}

func TestAskHandler_MissingCredential(t *testing.T) {
	for _, key := range []string{"", "   ", "sua_chave_api_aqui", "YOUR_API_KEY_GOES_HERE"} {
		t.Run(key, func(t *testing.T) {
			f := newFixture(t, key, []string{"m1"}, AskOptions{})

			rec := f.ask(http.MethodPost, `{"question":"q"}`)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			resp := decodeError(t, rec)
			if resp.Category != "ConfigMissing" {
				t.Errorf("category = %q, want ConfigMissing", resp.Category)
			}
			if !strings.Contains(resp.Error, "GOOGLE_API_KEY") {
				t.Errorf("message should name the variable: %q", resp.Error)
			}
			if n := f.mock.GetRequestCount(); n != 0 {
				t.Errorf("upstream calls = %d, want 0", n)
			}
		})
	}
}

func TestAskHandler_InputCheckedBeforeCredential(t *testing.T) {
	f := newFixture(t, "", []string{"m1"}, AskOptions{})

	rec := f.ask(http.MethodPost, `{"question":""}`)

	if resp := decodeError(t, rec); resp.Category != "InputInvalid" {
		t.Errorf("category = %q, want InputInvalid", resp.Category)
	}
}

func TestAskHandler_CredentialRotation(t *testing.T) {
	f := newFixture(t, "", []string{"m1"}, AskOptions{})
	f.mock.SetModelResponse("v1beta", "m1", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.GeminiSuccess("ok"),
	})

	if rec := f.ask(http.MethodPost, `{"question":"q"}`); rec.Code != http.StatusInternalServerError {
		t.Fatalf("status before rotation = %d, want 500", rec.Code)
	}

	f.client.SetAPIKey(testKey)

	if rec := f.ask(http.MethodPost, `{"question":"q"}`); rec.Code != http.StatusOK {
		t.Fatalf("status after rotation = %d, want 200", rec.Code)
	}
}

func TestAskHandler_EmptyCandidates(t *testing.T) {
	f := newFixture(t, testKey, nil, AskOptions{})

	rec := f.ask(http.MethodPost, `{"question":"q"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Category != "ConfigMissing" {
		t.Errorf("category = %q, want ConfigMissing", resp.Category)
	}
	if n := f.mock.GetRequestCount(); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
}

func TestAskHandler_MethodNotAllowed(t *testing.T) {
	f := newFixture(t, testKey, []string{"m1"}, AskOptions{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := f.ask(method, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want 405", method, rec.Code)
		}
		if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
			t.Errorf("%s: Allow = %q, want POST", method, allow)
		}
		if resp := decodeError(t, rec); resp.Category != "MethodNotAllowed" {
			t.Errorf("%s: category = %q, want MethodNotAllowed", method, resp.Category)
		}
	}
	if n := f.mock.GetRequestCount(); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
}

func TestAskHandler_PromptTemplate(t *testing.T) {
	f := newFixture(t, testKey, []string{"m1"}, AskOptions{PromptTemplate: "Mentor (100% honest): %s"})
	f.mock.SetModelResponse("v1beta", "m1", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.GeminiSuccess("ok"),
	})

	f.ask(http.MethodPost, `{"question":" what is 5% of 20? "}`)

	reqs := f.mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("upstream calls = %d, want 1", len(reqs))
	}
	var body gemini.GenerateContentRequest
	if err := json.Unmarshal(reqs[0].Body, &body); err != nil {
		t.Fatalf("invalid upstream body: %v", err)
	}
	got := *body.Contents[0].Parts[0].Text
	want := "Mentor (100% honest): what is 5% of 20?"
	if got != want {
		t.Errorf("prompt = %q, want %q", got, want)
	}

	f.handler.SetOptions(AskOptions{PromptTemplate: "Q: %s"})
	f.ask(http.MethodPost, `{"question":"again"}`)

	reqs = f.mock.Requests()
	json.Unmarshal(reqs[1].Body, &body)
	if got := *body.Contents[0].Parts[0].Text; got != "Q: again" {
		t.Errorf("prompt after SetOptions = %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		tmpl, question, want string
	}{
		{"", "q", "q"},
		{"Answer: %s", "q", "Answer: q"},
		{"no verb", "q", "no verb\n\nq"},
		{"%s and %s", "q", "q and %s"},
	}

	for _, tt := range tests {
		if got := buildPrompt(tt.tmpl, tt.question); got != tt.want {
			t.Errorf("buildPrompt(%q, %q) = %q, want %q", tt.tmpl, tt.question, got, tt.want)
		}
	}
}
