// Package seeder generates realistic detection events for development and
// load testing.
package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/gearguard-systems/gearguard-stack/common/eventlog"
	"github.com/gearguard-systems/gearguard-stack/common/models"
)

// Target selects which intake path seeded events take.
type Target string

const (
	TargetQueue  Target = "queue"
	TargetLegacy Target = "legacy"
	TargetBoth   Target = "both"
)

// Options controls one seeding run.
type Options struct {
	Count  int
	Spread time.Duration // events are backdated uniformly across this window
	Target Target
}

// Generator produces fake detection events.
type Generator struct {
	faker *gofakeit.Faker
	tasks []string
}

// NewGenerator creates a generator. A zero seed gives non-deterministic
// output; tests pass a fixed seed.
func NewGenerator(seed uint64, tasks []string) *Generator {
	return &Generator{
		faker: gofakeit.New(int64(seed)),
		tasks: tasks,
	}
}

// Event builds one fake detection event timestamped at ts.
func (g *Generator) Event(ts int64) *models.DetectionEvent {
	camera := fmt.Sprintf("cam-%02d", g.faker.Number(1, 24))
	return &models.DetectionEvent{
		Timestamp:      ts,
		CameraID:       camera,
		TrackID:        int64(g.faker.Number(1, 10000)),
		ImageReference: fmt.Sprintf("%s_%d_%s.jpg", camera, ts, g.faker.UUID()[:8]),
		Tasks:          g.tasks,
	}
}

// Run generates opts.Count events spread over opts.Spread and writes them to
// the selected intake path(s). Returns the number of events written.
func Run(ctx context.Context, store *eventlog.Client, gen *Generator, opts Options) (int, error) {
	if opts.Count <= 0 {
		return 0, fmt.Errorf("count must be positive, got %d", opts.Count)
	}

	now := time.Now().Unix()
	spread := int64(opts.Spread.Seconds())

	written := 0
	for i := 0; i < opts.Count; i++ {
		ts := now
		if spread > 0 {
			ts = now - int64(gen.faker.Number(0, int(spread)))
		}
		ev := gen.Event(ts)

		if opts.Target == TargetQueue || opts.Target == TargetBoth {
			if err := store.Enqueue(ctx, ev); err != nil {
				return written, fmt.Errorf("failed to enqueue event %d: %w", i, err)
			}
		}
		if opts.Target == TargetLegacy || opts.Target == TargetBoth {
			if err := store.AppendLegacy(ctx, ev); err != nil {
				return written, fmt.Errorf("failed to append event %d: %w", i, err)
			}
		}
		written++
	}
	return written, nil
}
