package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gearguard-systems/gearguard-stack/common/eventlog"
	"github.com/gearguard-systems/gearguard-stack/common/httputil"
	"github.com/gearguard-systems/gearguard-stack/common/logging"
)

// ImagesHandler serves recent violation snapshots from the result log.
type ImagesHandler struct {
	store         *eventlog.Client
	defaultStatus string
	defaultCount  int
	logger        *slog.Logger
}

// NewImagesHandler creates an images handler with endpoint defaults.
func NewImagesHandler(store *eventlog.Client, defaultStatus string, defaultCount int, logger *slog.Logger) *ImagesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImagesHandler{
		store:         store,
		defaultStatus: defaultStatus,
		defaultCount:  defaultCount,
		logger:        logger,
	}
}

// Latest handles GET /api/v1/images/latest?status=&count=
func (h *ImagesHandler) Latest(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = h.defaultStatus
	}
	count := httputil.ParseIntParam(r.URL.Query().Get("count"), h.defaultCount)
	if count < 1 {
		count = h.defaultCount
	}

	images, err := h.store.LatestImages(r.Context(), status, count)
	if err != nil {
		h.logger.Error("Failed to read latest images", logging.Error(err), logging.Status(status))
		httputil.WriteError(w, http.StatusServiceUnavailable, "result log unavailable")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": status,
		"images": images,
	})
}
