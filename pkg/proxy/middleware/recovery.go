package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"frontmentor/askgate/pkg/proxy"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// response in the standard error envelope. It logs the panic with a stack
// trace but does not expose internal details to clients.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				_ = proxy.WriteErrorResponse(w, proxy.InternalError(), &proxy.Diagnostics{
					RequestID: GetRequestID(r.Context()),
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
