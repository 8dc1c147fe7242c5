package middleware

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware bounds the request context with timeout. Handlers and
// the upstream calls they make observe the deadline through the context
// and write their own response when it expires. A non-positive timeout
// disables the bound.
//
// Example usage:
//
//	handler = TimeoutMiddleware(110 * time.Second)(handler)
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
