// Package metrics defines evaluation-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Evaluation counter vectors
var (
	EvaluationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prop_insight",
		Name:      "evaluation_runs_total",
		Help:      "Total number of evaluation runs by method and status",
	}, []string{"method", "status"})
)

// Evaluation histogram vectors
var (
	EvaluationBrierScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "prop_insight",
		Name:      "evaluation_brier_score",
		Help:      "Brier scores from evaluation runs by market and method",
		Buckets:   []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.35, 0.4, 0.45, 0.5},
	}, []string{"market", "method"})
)

// Evaluation gauge vectors
var (
	EvaluationCompositeScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "prop_insight",
		Name:      "evaluation_composite_score",
		Help:      "Aggregated composite score for each market across all evaluation methods",
	}, []string{"market"})
)

// RecordEvaluationRun records an evaluation run event.
// method should be one of: "historical_replay", "bootstrap", "walk_forward"
// status should be one of: "success", "failure", "timeout"
func RecordEvaluationRun(method, status string) {
	EvaluationRunsTotal.WithLabelValues(method, status).Inc()
}

// RecordBrierScore records a Brier score from an evaluation run.
func RecordBrierScore(market, method string, score float64) {
	EvaluationBrierScore.WithLabelValues(market, method).Observe(score)
}

// UpdateCompositeScore updates the aggregated composite score for a market.
func UpdateCompositeScore(market string, score float64) {
	EvaluationCompositeScore.WithLabelValues(market).Set(score)
}
