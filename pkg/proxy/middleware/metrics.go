package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder receives one observation per served request.
type RequestRecorder interface {
	RecordHTTPRequest(route, method string, status int, duration time.Duration)
}

// MetricsMiddleware reports every request under the fixed route label, so
// paths below a prefix (static files) share one series.
//
// Example usage:
//
//	mux.Handle("/api/ask", MetricsMiddleware(collector, "/api/ask")(askHandler))
func MetricsMiddleware(rec RequestRecorder, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rec == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			rec.RecordHTTPRequest(route, r.Method, rw.statusCode, time.Since(start))
		})
	}
}
