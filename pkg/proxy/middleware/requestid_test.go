package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	wrapped := RequestIDMiddleware(handler)

	t.Run("generates UUID when not provided", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		requestID := w.Header().Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			t.Errorf("Request ID %q is not a UUID: %v", requestID, err)
		}
		if seen != requestID {
			t.Errorf("context ID %q != header ID %q", seen, requestID)
		}
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		customID := "custom-request-id-12345"
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, customID)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got != customID {
			t.Errorf("Request ID = %v, want %v", got, customID)
		}
	})

	t.Run("replaces malformed request ID", func(t *testing.T) {
		tests := []string{
			"has spaces in it",
			"line\nbreak",
			strings.Repeat("a", 200),
		}
		for _, bad := range tests {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(RequestIDHeader, bad)
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			if got := w.Header().Get(RequestIDHeader); got == bad {
				t.Errorf("malformed ID %q was echoed", bad)
			}
		}
	})

	t.Run("unique IDs per request", func(t *testing.T) {
		ids := make(map[string]bool)
		for i := 0; i < 100; i++ {
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			id := w.Header().Get(RequestIDHeader)
			if ids[id] {
				t.Fatalf("duplicate request ID %s", id)
			}
			ids[id] = true
		}
	})
}
