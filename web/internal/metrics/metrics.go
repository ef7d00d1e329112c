// Package metrics defines Prometheus collectors for the web service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Subscribers tracks currently connected stats subscribers.
	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gearguard_web_stats_subscribers",
		Help: "Number of connected stats stream subscribers",
	})

	// MessagesRelayed counts stats messages delivered to subscribers.
	MessagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gearguard_web_stats_messages_relayed_total",
		Help: "Total stats stream messages relayed to subscribers",
	})
)
