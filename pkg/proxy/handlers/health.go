package handlers

import (
	"log/slog"
	"net/http"

	"frontmentor/askgate/pkg/proxy"
	"frontmentor/askgate/pkg/proxy/types"
)

// HealthHandler answers liveness probes. It reports OK as long as the
// process is serving, whatever the state of the credential or upstream.
type HealthHandler struct{}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler for liveness checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := proxy.WriteJSONResponse(w, http.StatusOK, types.Health); err != nil {
		slog.ErrorContext(r.Context(), "failed to write health response", "error", err)
	}
}
