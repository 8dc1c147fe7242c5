package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"frontmentor/askgate/pkg/telemetry/logging"
)

const (
	// RequestIDHeader is the HTTP header for request ID.
	RequestIDHeader = "X-Request-ID"
)

// validRequestID accepts caller-supplied IDs that are safe to echo and log.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._\-]{1,128}$`)

// RequestIDMiddleware assigns a request ID to every request and adds it to
// the context and response headers. A well-formed X-Request-ID sent by the
// client is reused; otherwise a random UUID is generated.
//
// The ID is stored with logging.WithRequestID, so every log line written
// with the request context carries it.
//
// Example usage:
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !validRequestID.MatchString(requestID) {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	return logging.GetRequestID(ctx)
}
