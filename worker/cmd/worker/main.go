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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gearguard-systems/gearguard-stack/common/eventlog"
	"github.com/gearguard-systems/gearguard-stack/common/httputil"
	"github.com/gearguard-systems/gearguard-stack/common/logging"
	"github.com/gearguard-systems/gearguard-stack/common/stats"
	"github.com/gearguard-systems/gearguard-stack/worker/internal/config"
	"github.com/gearguard-systems/gearguard-stack/worker/internal/detect"
	"github.com/gearguard-systems/gearguard-stack/worker/internal/worker"
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
	).With(logging.Service("worker"))
	logging.SetDefault(logger)

	slog.Info("Starting detection worker",
		slog.Int("port", cfg.Server.Port),
		slog.Any("tasks", cfg.Worker.Tasks),
		slog.Float64("confidence_threshold", cfg.Worker.ConfidenceThreshold),
		slog.String("redis_url", cfg.Redis.URL),
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

	// Initialize the detection capability
	capability, err := detect.NewDNNCapability(
		cfg.Detector.ModelPath,
		cfg.Detector.ConfigPath,
		cfg.Detector.Labels,
		cfg.Detector.Device,
		logger.Logger,
	)
	if err != nil {
		log.Fatalf("Failed to load detection model: %v", err)
	}
	defer capability.Close()

	// Stats publisher pushes a fresh snapshot to the stream after each
	// processed task.
	publisher := stats.NewPublisher(store, cfg.Worker.Tasks, logger.Logger)
	defer publisher.Stop()

	// Build the worker and start it in the background
	w := worker.New(store, capability, worker.Options{
		Tasks:        cfg.Worker.Tasks,
		Threshold:    cfg.Worker.ConfidenceThreshold,
		PollInterval: cfg.Worker.PollInterval,
		SnapshotDir:  cfg.Worker.SnapshotDir,
	}, publisher, logger.Logger)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	workerDone := make(chan error, 1)
	go func() { workerDone <- w.Run(workerCtx) }()

	// Metrics and health endpoints
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(rw http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			httputil.WriteError(rw, http.StatusServiceUnavailable, "store unreachable")
			return
		}
		httputil.WriteJSON(rw, http.StatusOK, map[string]string{"status": "healthy"})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Worker service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown on signal or worker failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-workerDone:
		if err != nil {
			slog.Error("Worker stopped", logging.Error(err))
		}
	}

	slog.Info("Shutting down...")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Worker stopped")
}
