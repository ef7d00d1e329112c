package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the detection worker service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Detector DetectorConfig `mapstructure:"detector"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the metrics/health HTTP endpoint configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RedisConfig holds event log store connection settings
type RedisConfig struct {
	URL       string `mapstructure:"url"`
	QueueKey  string `mapstructure:"queue_key"`
	LegacyKey string `mapstructure:"legacy_key"`
	ResultKey string `mapstructure:"result_key"`
	StreamKey string `mapstructure:"stream_key"`
}

// WorkerConfig holds intake and threshold policy settings
type WorkerConfig struct {
	Tasks               []string      `mapstructure:"tasks"`
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	SnapshotDir         string        `mapstructure:"snapshot_dir"`
}

// DetectorConfig holds inference capability settings
type DetectorConfig struct {
	ModelPath  string   `mapstructure:"model_path"`
	ConfigPath string   `mapstructure:"config_path"`
	Labels     []string `mapstructure:"labels"`
	Device     string   `mapstructure:"device"`
}

// LoggingConfig holds structured logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8091)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")

	v.SetDefault("redis.url", "redis://localhost:6379/0")

	v.SetDefault("worker.tasks", []string{"helmet", "vest"})
	v.SetDefault("worker.confidence_threshold", 0.5)
	v.SetDefault("worker.poll_interval", "1s")
	v.SetDefault("worker.snapshot_dir", "./snapshots")

	v.SetDefault("detector.model_path", "models/ppe.onnx")
	v.SetDefault("detector.config_path", "")
	v.SetDefault("detector.device", "auto")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/gearguard/worker")
	}

	// Environment variables override
	v.SetEnvPrefix("WORKER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Worker.ConfidenceThreshold < 0 || cfg.Worker.ConfidenceThreshold > 1 {
		return nil, fmt.Errorf("worker.confidence_threshold must be between 0 and 1, got %f", cfg.Worker.ConfidenceThreshold)
	}

	return &cfg, nil
}
