// Package metrics provides centralized Prometheus metrics registry for the prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_insight",
		Name:      "predictions_issued_total",
		Help:      "Total number of predictions issued",
	})
	OutcomesGradedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_insight",
		Name:      "outcomes_graded_total",
		Help:      "Total number of prop outcomes graded",
	})
	StatRecordsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_insight",
		Name:      "stat_records_ingested_total",
		Help:      "Total number of game stat records ingested",
	})
	PickEvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_insight",
		Name:      "pick_evaluations_total",
		Help:      "Total number of pick evaluations",
	})
	PickSignalsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_insight",
		Name:      "pick_signals_total",
		Help:      "Total number of pick signals generated",
	})
	DataSourcePausesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_insight",
		Name:      "data_source_pauses_total",
		Help:      "Total number of data source ingestion pauses",
	})
)

// Gauge metrics
var (
	ActiveMarkets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_insight",
		Name:      "active_markets",
		Help:      "Number of currently active prop markets",
	})
	TrackedAthletes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_insight",
		Name:      "tracked_athletes",
		Help:      "Number of athletes with active stat tracking",
	})
	PendingOutcomes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_insight",
		Name:      "pending_outcomes",
		Help:      "Number of prop outcomes awaiting grading",
	})
	DailyHitRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_insight",
		Name:      "daily_hit_rate",
		Help:      "Hit rate across all markets for the current day",
	})
	MarketHitRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "prop_insight",
		Name:      "market_hit_rate",
		Help:      "Rolling hit rate for each prop market",
	}, []string{"market"})
)

// Histogram metrics
var (
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prop_insight",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of prediction operations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PickEvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prop_insight",
		Name:      "pick_evaluation_duration_seconds",
		Help:      "Duration of pick evaluation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prop_insight",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of evaluation runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PredictionsIssuedTotal)
		registry.MustRegister(OutcomesGradedTotal)
		registry.MustRegister(StatRecordsIngestedTotal)
		registry.MustRegister(PickEvaluationsTotal)
		registry.MustRegister(PickSignalsTotal)
		registry.MustRegister(DataSourcePausesTotal)

		// Register gauge metrics
		registry.MustRegister(ActiveMarkets)
		registry.MustRegister(TrackedAthletes)
		registry.MustRegister(PendingOutcomes)
		registry.MustRegister(DailyHitRate)
		registry.MustRegister(MarketHitRate)

		// Register histogram metrics
		registry.MustRegister(PredictionLatency)
		registry.MustRegister(PickEvaluationDuration)
		registry.MustRegister(EvaluationDuration)

		// Register prediction metrics
		registry.MustRegister(PickDecisionsTotal)
		registry.MustRegister(PredictionConfidenceScore)
		registry.MustRegister(TrendsEmittedTotal)
		registry.MustRegister(MarketOpenLines)
		registry.MustRegister(PredictionCacheHitRatio)

		// Register evaluation metrics
		registry.MustRegister(EvaluationRunsTotal)
		registry.MustRegister(EvaluationBrierScore)
		registry.MustRegister(EvaluationCompositeScore)

		// Register ingestion metrics
		registry.MustRegister(IngestRequestsTotal)
		registry.MustRegister(IngestBatchDuration)
		registry.MustRegister(ProviderFailureStreak)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPredictionIssued records a prediction issuance event.
func RecordPredictionIssued() {
	PredictionsIssuedTotal.Inc()
}

// RecordOutcomeGraded records an outcome grading event.
func RecordOutcomeGraded() {
	OutcomesGradedTotal.Inc()
}

// RecordStatRecordIngested records a stat record ingestion event.
func RecordStatRecordIngested() {
	StatRecordsIngestedTotal.Inc()
}

// RecordPickEvaluation records a pick evaluation event.
func RecordPickEvaluation(durationSeconds float64) {
	PickEvaluationsTotal.Inc()
	PickEvaluationDuration.Observe(durationSeconds)
}

// RecordPickSignal records a pick signal event.
func RecordPickSignal() {
	PickSignalsTotal.Inc()
}

// RecordDataSourcePause records a data source ingestion pause event.
func RecordDataSourcePause() {
	DataSourcePausesTotal.Inc()
}

// UpdateActiveMarkets updates the active markets gauge.
func UpdateActiveMarkets(count float64) {
	ActiveMarkets.Set(count)
}

// UpdateTrackedAthletes updates the tracked athletes gauge.
func UpdateTrackedAthletes(count float64) {
	TrackedAthletes.Set(count)
}

// UpdatePendingOutcomes updates the pending outcomes gauge.
func UpdatePendingOutcomes(count float64) {
	PendingOutcomes.Set(count)
}

// UpdateDailyHitRate updates the daily hit rate gauge.
func UpdateDailyHitRate(rate float64) {
	DailyHitRate.Set(rate)
}

// UpdateMarketHitRate updates the rolling hit rate for a market.
func UpdateMarketHitRate(market string, rate float64) {
	MarketHitRate.WithLabelValues(market).Set(rate)
}

// RecordPredictionLatency records prediction latency.
func RecordPredictionLatency(durationSeconds float64) {
	PredictionLatency.Observe(durationSeconds)
}

// RecordEvaluationDuration records evaluation run duration.
func RecordEvaluationDuration(durationSeconds float64) {
	EvaluationDuration.Observe(durationSeconds)
}
