// Package metrics defines prediction-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prediction-specific counter vectors
var (
	PickDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prop_insight",
		Name:      "pick_decisions_total",
		Help:      "Total number of pick decisions by market, side and outcome",
	}, []string{"market", "side", "outcome"})

	TrendsEmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prop_insight",
		Name:      "trends_emitted_total",
		Help:      "Total number of trend entries emitted by direction",
	}, []string{"direction", "confidence_bucket"})
)

// Prediction-specific histogram vectors
var (
	PredictionConfidenceScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "prop_insight",
		Name:      "prediction_confidence_score",
		Help:      "Confidence scores for issued predictions",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"market"})
)

// Prediction-specific gauge vectors
var (
	MarketOpenLines = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "prop_insight",
		Name:      "market_open_lines",
		Help:      "Number of open prop lines for each market and book",
	}, []string{"market", "book"})

	PredictionCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_insight",
		Name:      "prediction_cache_hit_ratio",
		Help:      "Prediction cache hit ratio",
	})
)

// RecordPickDecision records a pick decision.
func RecordPickDecision(market, side, outcome string) {
	PickDecisionsTotal.WithLabelValues(market, side, outcome).Inc()
}

// RecordPredictionConfidence records a prediction confidence score.
func RecordPredictionConfidence(market string, score float64) {
	PredictionConfidenceScore.WithLabelValues(market).Observe(score)
}

// UpdateMarketOpenLines updates the open lines count for a market and book.
func UpdateMarketOpenLines(market, book string, count float64) {
	MarketOpenLines.WithLabelValues(market, book).Set(count)
}

// UpdatePredictionCacheHitRatio updates the prediction cache hit ratio gauge.
func UpdatePredictionCacheHitRatio(ratio float64) {
	PredictionCacheHitRatio.Set(ratio)
}

// RecordTrendEmitted records an emitted trend entry.
func RecordTrendEmitted(direction, confidenceBucket string) {
	TrendsEmittedTotal.WithLabelValues(direction, confidenceBucket).Inc()
}
