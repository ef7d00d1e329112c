package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the dashboard web service
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Relay   RelayConfig   `mapstructure:"relay"`
	Images  ImagesConfig  `mapstructure:"images"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// RedisConfig holds event log store connection settings
type RedisConfig struct {
	URL       string `mapstructure:"url"`
	QueueKey  string `mapstructure:"queue_key"`
	LegacyKey string `mapstructure:"legacy_key"`
	ResultKey string `mapstructure:"result_key"`
	StreamKey string `mapstructure:"stream_key"`
}

// RelayConfig holds stats relay settings
type RelayConfig struct {
	Tasks []string      `mapstructure:"tasks"`
	Block time.Duration `mapstructure:"block"`
}

// ImagesConfig holds defaults for the latest-images endpoint
type ImagesConfig struct {
	DefaultStatus string `mapstructure:"default_status"`
	DefaultCount  int    `mapstructure:"default_count"`
}

// CORSConfig holds cross-origin settings for the dashboard frontend
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
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
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("redis.url", "redis://localhost:6379/0")

	v.SetDefault("relay.tasks", []string{"helmet", "vest"})
	v.SetDefault("relay.block", "10s")

	v.SetDefault("images.default_status", "no_helmet")
	v.SetDefault("images.default_count", 5)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/gearguard/web")
	}

	// Environment variables override
	v.SetEnvPrefix("WEB")
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

	if cfg.Relay.Block <= 0 {
		return nil, fmt.Errorf("relay.block must be positive, got %s", cfg.Relay.Block)
	}

	return &cfg, nil
}
