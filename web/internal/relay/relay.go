// Package relay tails the stats stream and fans snapshots out to dashboard
// subscribers. Each subscriber gets its own read loop with its own cursor,
// so a slow client never stalls another.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gearguard-systems/gearguard-stack/common/eventlog"
	"github.com/gearguard-systems/gearguard-stack/common/logging"
	"github.com/gearguard-systems/gearguard-stack/common/models"
	"github.com/gearguard-systems/gearguard-stack/common/stats"
	"github.com/gearguard-systems/gearguard-stack/web/internal/metrics"
)

// TailStart is the stream cursor meaning "only messages published after the
// subscriber connected". Earlier history is never replayed.
const TailStart = "$"

// SendFunc delivers one stats payload to a subscriber. A returned error
// means the subscriber is gone and its loop should stop.
type SendFunc func(payload string) error

// Relay reads live stats for dashboard subscribers.
type Relay struct {
	store  *eventlog.Client
	tasks  []string
	block  time.Duration
	logger *slog.Logger
}

// New builds a Relay. block bounds each stream read; 0 falls back to 10s.
func New(store *eventlog.Client, tasks []string, block time.Duration, logger *slog.Logger) *Relay {
	if block <= 0 {
		block = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{store: store, tasks: tasks, block: block, logger: logger}
}

// Snapshot gathers the current full state from the live counters. Sent to
// every subscriber on connect so the dashboard renders without waiting for
// the next violation.
func (r *Relay) Snapshot(ctx context.Context) (*models.StatsSnapshot, error) {
	return stats.Gather(ctx, r.store, r.tasks)
}

// Tail relays stream messages to send until ctx is cancelled or send fails.
// It starts at cursor and only ever moves forward; a blocked read that times
// out simply loops again. Returns nil on subscriber disconnect, the store
// error otherwise.
func (r *Relay) Tail(ctx context.Context, subscriber, cursor string, send SendFunc) error {
	if cursor == "" {
		cursor = TailStart
	}

	metrics.Subscribers.Inc()
	defer metrics.Subscribers.Dec()

	log := r.logger.With(logging.Subscriber(subscriber))
	log.Debug("Subscriber tailing stats stream", logging.Cursor(cursor))

	for {
		if ctx.Err() != nil {
			return nil
		}

		msgs, next, err := r.store.ReadStats(ctx, cursor, r.block)
		if err != nil {
			// Cancellation surfaces through the store call as a
			// context error; that is a normal disconnect.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			log.Warn("Stats stream read failed", logging.Error(err))
			return err
		}
		cursor = next

		for _, msg := range msgs {
			if err := send(msg.Payload); err != nil {
				log.Debug("Subscriber disconnected", logging.Error(err))
				return nil
			}
			metrics.MessagesRelayed.Inc()
		}
	}
}
