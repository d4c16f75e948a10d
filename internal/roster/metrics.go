// Package roster provides Prometheus metrics for athlete resolution.
package roster

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RosterResolutionsTotal tracks athlete resolution attempts
	RosterResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_resolutions_total",
			Help: "Total number of athlete resolution attempts",
		},
		[]string{"outcome", "cache_hit"}, // outcome: resolved, not_found, ambiguous, error
	)

	// RosterResolutionLatency tracks resolution latency
	RosterResolutionLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roster_resolution_latency_seconds",
			Help:    "Athlete resolution latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RosterCacheHitRatio tracks cache hit ratio
	RosterCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roster_cache_hit_ratio",
			Help: "Athlete resolution cache hit ratio",
		},
	)

	// RosterHistoryRecordsLoaded tracks stat lines handed to the aggregator
	RosterHistoryRecordsLoaded = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roster_history_records_loaded",
			Help:    "Number of stat lines loaded per history request",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250},
		},
	)
)
