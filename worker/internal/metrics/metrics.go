package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Intake metrics
	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gearguard_worker_events_processed_total",
			Help: "Total number of detection events processed",
		},
		[]string{"source"},
	)

	EventsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gearguard_worker_events_skipped_total",
			Help: "Total number of detection events skipped",
		},
		[]string{"reason"},
	)

	ParseErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gearguard_worker_parse_errors_total",
			Help: "Total number of malformed intake items discarded",
		},
	)

	// Result sink metrics
	ResultsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gearguard_worker_results_written_total",
			Help: "Total number of result records written",
		},
		[]string{"task"},
	)

	Violations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gearguard_worker_violations_total",
			Help: "Total number of non-compliant results",
		},
		[]string{"task"},
	)

	// Inference metrics
	InferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gearguard_worker_inference_duration_seconds",
			Help:    "Duration of one inference call in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
