package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"frontmentor/askgate/pkg/config"
)

// ExposedHeaders are readable by browser clients on cross-origin responses.
var ExposedHeaders = []string{RequestIDHeader, "X-Trace-ID"}

// CORSMiddleware adds Cross-Origin Resource Sharing (CORS) headers to responses.
// It answers preflight OPTIONS requests with 204 and adds the allow-origin
// header to every other request from an allowed origin.
//
// Example usage:
//
//	handler = CORSMiddleware(cfg.Server.CORS)(handler)
func CORSMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}

		methods := strings.Join(cfg.AllowedMethods, ", ")
		headers := strings.Join(cfg.AllowedHeaders, ", ")
		exposed := strings.Join(ExposedHeaders, ", ")
		wildcard := slices.Contains(cfg.AllowedOrigins, "*")

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			case origin != "" && slices.Contains(cfg.AllowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if methods != "" {
					w.Header().Set("Access-Control-Allow-Methods", methods)
				}
				if headers != "" {
					w.Header().Set("Access-Control-Allow-Headers", headers)
				}
				if cfg.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
