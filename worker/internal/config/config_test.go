package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.Server.Port != 8091 {
		t.Errorf("Server.Port = %d, want 8091", cfg.Server.Port)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("Redis.URL = %q, want %q", cfg.Redis.URL, "redis://localhost:6379/0")
	}
	if len(cfg.Worker.Tasks) != 2 || cfg.Worker.Tasks[0] != "helmet" {
		t.Errorf("Worker.Tasks = %v, want [helmet vest]", cfg.Worker.Tasks)
	}
	if cfg.Worker.ConfidenceThreshold != 0.5 {
		t.Errorf("Worker.ConfidenceThreshold = %f, want 0.5", cfg.Worker.ConfidenceThreshold)
	}
	if cfg.Worker.PollInterval != time.Second {
		t.Errorf("Worker.PollInterval = %v, want 1s", cfg.Worker.PollInterval)
	}
	if cfg.Detector.Device != "auto" {
		t.Errorf("Detector.Device = %q, want %q", cfg.Detector.Device, "auto")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
worker:
  tasks: ["goggles"]
  confidence_threshold: 0.7
  poll_interval: 250ms
detector:
  device: cuda
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Worker.Tasks) != 1 || cfg.Worker.Tasks[0] != "goggles" {
		t.Errorf("Worker.Tasks = %v, want [goggles]", cfg.Worker.Tasks)
	}
	if cfg.Worker.ConfidenceThreshold != 0.7 {
		t.Errorf("Worker.ConfidenceThreshold = %f, want 0.7", cfg.Worker.ConfidenceThreshold)
	}
	if cfg.Worker.PollInterval != 250*time.Millisecond {
		t.Errorf("Worker.PollInterval = %v, want 250ms", cfg.Worker.PollInterval)
	}
	if cfg.Detector.Device != "cuda" {
		t.Errorf("Detector.Device = %q, want cuda", cfg.Detector.Device)
	}
	// Unset values keep defaults
	if cfg.Server.Port != 8091 {
		t.Errorf("Server.Port = %d, want default 8091", cfg.Server.Port)
	}
}

func TestLoad_InvalidThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("worker:\n  confidence_threshold: 1.5\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for out-of-range threshold")
	}
}
