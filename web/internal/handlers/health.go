package handlers

import (
	"net/http"

	"github.com/gearguard-systems/gearguard-stack/common/eventlog"
	"github.com/gearguard-systems/gearguard-stack/common/httputil"
)

// HealthHandler reports service and store health.
type HealthHandler struct {
	store *eventlog.Client
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(store *eventlog.Client) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check handles GET /healthz
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "web",
	})
}
