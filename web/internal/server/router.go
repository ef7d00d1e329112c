package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gearguard-systems/gearguard-stack/common/middleware"
	"github.com/gearguard-systems/gearguard-stack/web/internal/handlers"
)

// RouterConfig holds dependencies needed to configure routes
type RouterConfig struct {
	StatsHandler   *handlers.StatsHandler
	ImagesHandler  *handlers.ImagesHandler
	HealthHandler  *handlers.HealthHandler
	AllowedOrigins []string
}

// NewRouter constructs a ServeMux with all dashboard routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Live stats feed
	mux.HandleFunc("GET /ws/stats", cfg.StatsHandler.Socket)
	mux.HandleFunc("GET /api/v1/stats/stream", cfg.StatsHandler.Stream)
	mux.HandleFunc("GET /api/v1/stats", cfg.StatsHandler.GetStats)

	// Violation snapshots
	mux.HandleFunc("GET /api/v1/images/latest", cfg.ImagesHandler.Latest)

	// Health and metrics
	mux.HandleFunc("GET /healthz", cfg.HealthHandler.Check)
	mux.Handle("GET /metrics", promhttp.Handler())

	cors := middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	})

	return middleware.RequestID(cors(mux))
}
