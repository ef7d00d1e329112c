// Package stats builds full-state snapshots from the live violation counters
// and republishes them to the stats stream when the worker reports updates.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gearguard-systems/gearguard-stack/common/eventlog"
	"github.com/gearguard-systems/gearguard-stack/common/models"
)

// Gather computes a StatsSnapshot from the live counters for the given
// tasks. It never reads the stream, so a fresh subscriber sees current
// state without waiting for the next event.
func Gather(ctx context.Context, store *eventlog.Client, tasks []string) (*models.StatsSnapshot, error) {
	snap := &models.StatsSnapshot{
		Timestamp:  time.Now().Unix(),
		Violations: make(map[string]int64, len(tasks)),
	}
	for _, task := range tasks {
		count, err := store.ViolationCount(ctx, task)
		if err != nil {
			return nil, fmt.Errorf("failed to gather stats for %s: %w", task, err)
		}
		snap.Violations[models.ViolationStatus(task)] = count
		snap.Total += count
	}
	return snap, nil
}

// Publisher implements the worker's update-notification observer. Notify
// never blocks: it sets a pending signal that the background loop coalesces
// into snapshot publishes. Safe for concurrent use.
type Publisher struct {
	store  *eventlog.Client
	tasks  []string
	logger *slog.Logger

	pending chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPublisher creates a publisher and starts its background publish loop.
func NewPublisher(store *eventlog.Client, tasks []string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Publisher{
		store:   store,
		tasks:   tasks,
		logger:  logger,
		pending: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}

	p.wg.Add(1)
	go p.publishLoop()

	return p
}

// Notify signals that new result data exists. It never blocks and never
// panics; bursts collapse into one pending publish.
func (p *Publisher) Notify() {
	select {
	case p.pending <- struct{}{}:
	default:
	}
}

// publishLoop drains pending signals and publishes one snapshot per signal
// batch until the publisher is stopped.
func (p *Publisher) publishLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.pending:
			p.publish()
		}
	}
}

// publish gathers the current snapshot and appends it to the stats stream.
// Errors are logged, never propagated to the sink.
func (p *Publisher) publish() {
	ctx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
	defer cancel()

	snap, err := Gather(ctx, p.store, p.tasks)
	if err != nil {
		p.logger.Warn("failed to gather stats snapshot", slog.String("error", err.Error()))
		return
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		p.logger.Warn("failed to marshal stats snapshot", slog.String("error", err.Error()))
		return
	}

	if err := p.store.PublishStats(ctx, string(payload)); err != nil {
		p.logger.Warn("failed to publish stats snapshot", slog.String("error", err.Error()))
	}
}

// Stop shuts down the publish loop and waits for it to exit.
func (p *Publisher) Stop() {
	p.cancel()
	p.wg.Wait()
}
