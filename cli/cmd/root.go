package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gearguard-systems/gearguard-stack/cli/internal/config"
	"github.com/gearguard-systems/gearguard-stack/common/eventlog"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ggctl",
	Short: "GearGuard Stack CLI",
	Long: `ggctl is the command-line interface for the GearGuard compliance stack.

Seed detection events for development, inspect violation counters, and
query recent violation snapshots from your terminal.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ggctl.yaml or $HOME/.gearguard/ggctl.yaml)")
	rootCmd.PersistentFlags().String("redis-url", "", "event log store URL (overrides config)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}

	if url, _ := rootCmd.PersistentFlags().GetString("redis-url"); url != "" {
		cfg.Redis.URL = url
	}
}

// connectStore opens the event log store for a subcommand.
func connectStore() (*eventlog.Client, error) {
	store, err := eventlog.New(cfg.Redis.URL, eventlog.Keys{
		Queue:     cfg.Redis.QueueKey,
		LegacyLog: cfg.Redis.LegacyKey,
		ResultLog: cfg.Redis.ResultKey,
		Stream:    cfg.Redis.StreamKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to event log store: %w", err)
	}
	return store, nil
}
