// Package metrics defines ingestion-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion counter vectors
var (
	IngestRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prop_insight",
		Name:      "ingest_requests_total",
		Help:      "Total number of provider requests by source and status",
	}, []string{"source", "status"})
)

// Ingestion histogram vectors
var (
	IngestBatchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "prop_insight",
		Name:      "ingest_batch_duration_seconds",
		Help:      "Duration of ingestion batches by source in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// Ingestion gauge vectors
var (
	ProviderFailureStreak = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "prop_insight",
		Name:      "provider_failure_streak",
		Help:      "Consecutive failure count for each data provider",
	}, []string{"source"})
)

// RecordIngestRequest records a provider request event.
// status should be one of: "success", "failure", "rate_limited"
func RecordIngestRequest(source, status string) {
	IngestRequestsTotal.WithLabelValues(source, status).Inc()
}

// RecordIngestBatchDuration records the duration of an ingestion batch.
func RecordIngestBatchDuration(source string, durationSeconds float64) {
	IngestBatchDuration.WithLabelValues(source).Observe(durationSeconds)
}

// UpdateProviderFailureStreak updates the consecutive failure count for a provider.
func UpdateProviderFailureStreak(source string, count float64) {
	ProviderFailureStreak.WithLabelValues(source).Set(count)
}
