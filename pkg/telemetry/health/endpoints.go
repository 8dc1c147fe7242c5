package health

import (
	"encoding/json"
	"net/http"
)

// ReadinessHandler serves the aggregated readiness report.
//
// Returns:
//   - 200 OK: every check passed
//   - 503 Service Unavailable: at least one check failed
//
// Example response (not ready):
//
//	{
//	    "status": "not_ready",
//	    "checks": {
//	        "credential": {"status": "unhealthy", "message": "upstream API key is not configured"},
//	        "models": {"status": "ok"}
//	    },
//	    "timestamp": "2026-01-20T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		report := c.CheckReadiness(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if report.Ready() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if r.Method != http.MethodHead {
			_ = json.NewEncoder(w).Encode(report)
		}
	}
}
