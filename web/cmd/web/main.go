package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gearguard-systems/gearguard-stack/common/eventlog"
	"github.com/gearguard-systems/gearguard-stack/common/logging"
	"github.com/gearguard-systems/gearguard-stack/web/internal/config"
	"github.com/gearguard-systems/gearguard-stack/web/internal/handlers"
	"github.com/gearguard-systems/gearguard-stack/web/internal/relay"
	"github.com/gearguard-systems/gearguard-stack/web/internal/server"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("web"))
	logging.SetDefault(logger)

	slog.Info("Starting web service",
		slog.Int("port", cfg.Server.Port),
		slog.String("redis_url", cfg.Redis.URL),
		slog.Duration("relay_block", cfg.Relay.Block),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	// Connect to the event log store
	store, err := eventlog.New(cfg.Redis.URL, eventlog.Keys{
		Queue:     cfg.Redis.QueueKey,
		LegacyLog: cfg.Redis.LegacyKey,
		ResultLog: cfg.Redis.ResultKey,
		Stream:    cfg.Redis.StreamKey,
	})
	if err != nil {
		log.Fatalf("Failed to connect to event log store: %v", err)
	}
	defer store.Close()

	// Build the stats relay and handlers
	statsRelay := relay.New(store, cfg.Relay.Tasks, cfg.Relay.Block, logger.Logger)

	router := server.NewRouter(server.RouterConfig{
		StatsHandler:   handlers.NewStatsHandler(statsRelay, logger.Logger),
		ImagesHandler:  handlers.NewImagesHandler(store, cfg.Images.DefaultStatus, cfg.Images.DefaultCount, logger.Logger),
		HealthHandler:  handlers.NewHealthHandler(store),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
		// WriteTimeout stays unset: the stats stream endpoints hold
		// their response open for the life of the subscriber.
	}

	// Start server in goroutine
	go func() {
		slog.Info("Web service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("Received shutdown signal", slog.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Web service stopped")
}
