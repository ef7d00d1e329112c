// Package models defines the wire types shared between the detection worker,
// the dashboard service, and the CLI.
package models

import "path/filepath"

// DetectionEvent is one person observation to evaluate for compliance.
// Produced by the tracking collaborator (work queue) or read from the
// legacy person log. Immutable once created.
type DetectionEvent struct {
	Timestamp      int64    `json:"timestamp,omitempty"`
	CameraID       string   `json:"camera_id,omitempty"`
	TrackID        int64    `json:"track_id,omitempty"`
	ImageReference string   `json:"image_reference"`
	Tasks          []string `json:"tasks,omitempty"`
}

// ResolveTasks returns the event's task list, falling back to the
// process-wide default list when the event carries none.
func (e *DetectionEvent) ResolveTasks(defaults []string) []string {
	if len(e.Tasks) > 0 {
		return e.Tasks
	}
	return defaults
}

// ResultRecord is one compliance outcome per (event, task) pair.
// Written once, never mutated; stored keyed by Timestamp in the result log.
// ImageReference holds the basename only.
type ResultRecord struct {
	Timestamp      int64   `json:"timestamp"`
	CameraID       string  `json:"camera_id,omitempty"`
	TrackID        int64   `json:"track_id,omitempty"`
	Status         string  `json:"status"`
	Confidence     float64 `json:"confidence"`
	ImageReference string  `json:"image_reference"`
}

// ViolationStatus returns the non-compliant status string for a task.
func ViolationStatus(task string) string {
	return "no_" + task
}

// CounterKey returns the store counter key for a non-compliant status.
func CounterKey(status string) string {
	return status + "_count"
}

// ImageBasename strips any directory component from an image reference.
// Directory traversal in a reference is ignored, not honored.
func ImageBasename(ref string) string {
	return filepath.Base(ref)
}

// StatsSnapshot is the full-state payload delivered to a relay subscriber
// on connect, and published to the stats stream on updates. It is computed
// from live counters, never from the stream itself.
type StatsSnapshot struct {
	Timestamp  int64            `json:"timestamp"`
	Violations map[string]int64 `json:"violations"`
	Total      int64            `json:"total_violations"`
}
