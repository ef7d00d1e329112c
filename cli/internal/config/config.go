package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds CLI settings shared by all subcommands
type Config struct {
	Redis RedisConfig `mapstructure:"redis"`
	Tasks []string    `mapstructure:"tasks"`
}

// RedisConfig holds event log store connection settings
type RedisConfig struct {
	URL       string `mapstructure:"url"`
	QueueKey  string `mapstructure:"queue_key"`
	LegacyKey string `mapstructure:"legacy_key"`
	ResultKey string `mapstructure:"result_key"`
	StreamKey string `mapstructure:"stream_key"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("tasks", []string{"helmet", "vest"})

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("ggctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gearguard")
	}

	v.SetEnvPrefix("GGCTL")
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

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Redis: RedisConfig{URL: "redis://localhost:6379/0"},
		Tasks: []string{"helmet", "vest"},
	}
}
