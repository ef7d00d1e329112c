package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gearguard-systems/gearguard-stack/cli/internal/seeder"
)

var (
	seedCount  int
	seedSpread time.Duration
	seedTasks  string
	seedTarget string
	seedSeed   uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed fake detection events",
	Long: `Generate fake detection events and inject them into the pipeline.

Events can go to the work queue (picked up immediately), the legacy person
log (picked up by the worker's polling fallback), or both.

Examples:
  # 100 events onto the work queue
  ggctl seed --count 100

  # Backdated legacy log entries spread over an hour
  ggctl seed --count 50 --target legacy --spread 1h

  # Deterministic output for test fixtures
  ggctl seed --count 10 --seed 42`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 10, "number of events to generate")
	seedCmd.Flags().DurationVar(&seedSpread, "spread", 10*time.Minute, "backdate events uniformly across this window")
	seedCmd.Flags().StringVar(&seedTasks, "tasks", "", "comma-separated task list (default: configured tasks)")
	seedCmd.Flags().StringVar(&seedTarget, "target", "queue", "intake path: queue, legacy, or both")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0, "random seed (0 = non-deterministic)")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	target := seeder.Target(seedTarget)
	switch target {
	case seeder.TargetQueue, seeder.TargetLegacy, seeder.TargetBoth:
	default:
		return fmt.Errorf("invalid target %q (expected queue, legacy, or both)", seedTarget)
	}

	tasks := cfg.Tasks
	if seedTasks != "" {
		tasks = strings.Split(seedTasks, ",")
	}

	store, err := connectStore()
	if err != nil {
		return err
	}
	defer store.Close()

	gen := seeder.NewGenerator(seedSeed, tasks)
	written, err := seeder.Run(cmd.Context(), store, gen, seeder.Options{
		Count:  seedCount,
		Spread: seedSpread,
		Target: target,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d events (target: %s, tasks: %s)\n", written, target, strings.Join(tasks, ","))
	return nil
}
