// Package worker runs the detection pipeline: it multiplexes the work queue
// with the legacy person log, invokes the detection capability once per
// image, applies the threshold policy, and writes results and counters to
// the event log store.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gearguard-systems/gearguard-stack/common/eventlog"
	"github.com/gearguard-systems/gearguard-stack/common/logging"
	"github.com/gearguard-systems/gearguard-stack/common/models"
	"github.com/gearguard-systems/gearguard-stack/worker/internal/detect"
	"github.com/gearguard-systems/gearguard-stack/worker/internal/metrics"
)

// Observer is notified, without arguments, each time a result record has
// been processed. Implementations must never block or panic.
type Observer interface {
	Notify()
}

type noopObserver struct{}

func (noopObserver) Notify() {}

// Options configures one Worker instance.
type Options struct {
	// Tasks is the process-wide default task list for events that carry none.
	Tasks []string
	// Threshold is the inclusive compliance threshold applied to every task.
	Threshold float64
	// PollInterval is the sleep between intake cycles.
	PollInterval time.Duration
	// SnapshotDir resolves non-absolute image references.
	SnapshotDir string
}

// Worker owns the intake watermark and capability handle. It is strictly
// sequential: no two events are ever processed concurrently by one instance.
// Counters are shared with other instances and incremented atomically in
// the store.
type Worker struct {
	store      *eventlog.Client
	capability detect.Capability
	opts       Options
	observer   Observer
	logger     *slog.Logger

	// lastTS is the legacy-log watermark: the highest timestamp already
	// processed. In-memory only; resets to 0 on restart.
	lastTS int64
}

// New creates a Worker. observer may be nil; a no-op observer is used then.
func New(store *eventlog.Client, capability detect.Capability, opts Options, observer Observer, logger *slog.Logger) *Worker {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	return &Worker{
		store:      store,
		capability: capability,
		opts:       opts,
		observer:   observer,
		logger:     logger,
	}
}

// Watermark returns the current legacy-log watermark.
func (w *Worker) Watermark() int64 {
	return w.lastTS
}

// Run executes intake cycles until ctx is cancelled. An in-flight event
// always finishes before Run returns. Store connectivity failures
// terminate the loop and are returned to the caller.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("detection worker started",
		slog.Float64("threshold", w.opts.Threshold),
		slog.String("poll_interval", w.opts.PollInterval.String()),
	)

	for {
		if err := w.Cycle(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			w.logger.Info("detection worker stopped")
			return nil
		case <-time.After(w.opts.PollInterval):
		}
	}
}

// Cycle performs one intake pass: drain the work queue, then scan the
// legacy log above the watermark. Exposed for tests and manual drains.
func (w *Worker) Cycle(ctx context.Context) error {
	if err := w.drainQueue(ctx); err != nil {
		return err
	}
	return w.scanLegacy(ctx)
}

// drainQueue pops and processes queued items until the queue is empty.
// A malformed item is logged and discarded; it does not halt the drain.
func (w *Worker) drainQueue(ctx context.Context) error {
	for ctx.Err() == nil {
		raw, err := w.store.PopQueued(ctx)
		if errors.Is(err, eventlog.ErrEmpty) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("work queue unavailable: %w", err)
		}

		var ev models.DetectionEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			metrics.ParseErrors.Inc()
			w.logger.Warn("discarding malformed queue item", logging.Error(err))
			continue
		}
		w.processEvent(ctx, &ev, "queue")
	}
	return nil
}

// scanLegacy processes all legacy-log entries newer than the watermark in
// ascending order, advancing the watermark after each entry. The watermark
// is monotonic non-decreasing even when a scan fails partway. A malformed
// entry is discarded and the watermark still advances past its score, so
// it is never rescanned.
func (w *Worker) scanLegacy(ctx context.Context) error {
	entries, err := w.store.ScanSince(ctx, w.lastTS)
	if err != nil {
		return fmt.Errorf("legacy log unavailable: %w", err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}

		var ev models.DetectionEvent
		if err := json.Unmarshal([]byte(entry.Raw), &ev); err != nil {
			metrics.ParseErrors.Inc()
			w.logger.Warn("discarding malformed legacy entry", logging.Error(err))
		} else {
			w.processEvent(ctx, &ev, "legacy")
		}

		if entry.Timestamp > w.lastTS {
			w.lastTS = entry.Timestamp
		}
	}
	return nil
}

// processEvent evaluates one detection event end to end. Failures local to
// the event or to a single task are contained here and never abort intake.
func (w *Worker) processEvent(ctx context.Context, ev *models.DetectionEvent, source string) {
	tasks := ev.ResolveTasks(w.opts.Tasks)
	if len(tasks) == 0 {
		metrics.EventsSkipped.WithLabelValues("no_tasks").Inc()
		return
	}

	if ev.ImageReference == "" {
		metrics.EventsSkipped.WithLabelValues("no_image").Inc()
		return
	}

	img, err := os.ReadFile(w.resolveImage(ev.ImageReference))
	if err != nil {
		metrics.EventsSkipped.WithLabelValues("image_unreadable").Inc()
		w.logger.Debug("skipping event with unreadable image",
			logging.Image(ev.ImageReference), logging.Error(err))
		return
	}

	start := time.Now()
	dets, err := w.capability.Detect(ctx, img)
	metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EventsSkipped.WithLabelValues("inference_error").Inc()
		w.logger.Warn("inference failed, skipping event",
			logging.CameraID(ev.CameraID), logging.Error(err))
		return
	}

	scores := detect.Scores(dets)
	for _, task := range tasks {
		w.sinkResult(ctx, ev, task, scores.Get(task))
	}
	metrics.EventsProcessed.WithLabelValues(source).Inc()
}

// sinkResult applies the threshold policy for one task and persists the
// outcome. The threshold is inclusive: confidence equal to it is compliant.
// A write failure is surfaced in logs but does not stop the other tasks.
func (w *Worker) sinkResult(ctx context.Context, ev *models.DetectionEvent, task string, confidence float64) {
	status := task
	if confidence < w.opts.Threshold {
		status = models.ViolationStatus(task)
	}

	rec := &models.ResultRecord{
		Timestamp:      time.Now().Unix(),
		CameraID:       ev.CameraID,
		TrackID:        ev.TrackID,
		Status:         status,
		Confidence:     confidence,
		ImageReference: models.ImageBasename(ev.ImageReference),
	}

	if err := w.store.AppendResult(ctx, rec); err != nil {
		w.logger.Error("failed to write result record",
			logging.Task(task), logging.Status(status), logging.Error(err))
	} else {
		metrics.ResultsWritten.WithLabelValues(task).Inc()
	}

	if strings.HasPrefix(status, "no_") {
		if err := w.store.IncrViolation(ctx, status); err != nil {
			w.logger.Error("failed to increment violation counter",
				logging.Status(status), logging.Error(err))
		} else {
			metrics.Violations.WithLabelValues(task).Inc()
		}
	}

	w.observer.Notify()
}

// resolveImage maps an image reference to a local path. Non-absolute
// references resolve against the snapshot directory by basename only;
// directory traversal in the reference is ignored.
func (w *Worker) resolveImage(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(w.opts.SnapshotDir, models.ImageBasename(ref))
}
