// Package logger provides prediction-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for prediction operations.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPredictionRequest logs a prediction request.
func (pl *PredictionLogger) LogPredictionRequest(athleteName string, market string, line float64, cacheHit bool, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"athlete_name": athleteName,
		"market":       market,
		"line":         line,
		"cache_hit":    cacheHit,
		"latency_ms":   latencyMs,
	}).Info("Prediction request completed")
}

// LogAggregation logs a historical stat aggregation run.
func (pl *PredictionLogger) LogAggregation(athleteName string, market string, recordsIn int, sampleSize int, recentSampleSize int, opponentSampleSize int) {
	pl.WithFields(logrus.Fields{
		"athlete_name":         athleteName,
		"market":               market,
		"records_in":           recordsIn,
		"sample_size":          sampleSize,
		"recent_sample_size":   recentSampleSize,
		"opponent_sample_size": opponentSampleSize,
	}).Info("Historical aggregation completed")
}

// LogTrendReport logs a trend detection run.
func (pl *PredictionLogger) LogTrendReport(outcomesIn int, groupsConsidered int, trendsEmitted int, topStreakLength int) {
	pl.WithFields(logrus.Fields{
		"outcomes_in":       outcomesIn,
		"groups_considered": groupsConsidered,
		"trends_emitted":    trendsEmitted,
		"top_streak_length": topStreakLength,
	}).Info("Trend report completed")
}

// LogGradingRun logs an outcome grading pass.
func (pl *PredictionLogger) LogGradingRun(outcomesGraded int, pushes int, voided int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"outcomes_graded": outcomesGraded,
		"pushes":          pushes,
		"voided":          voided,
		"duration_ms":     durationMs,
	}).Info("Grading run completed")
}

// LogPredictionError logs prediction errors.
func (pl *PredictionLogger) LogPredictionError(athleteName string, market string, errorReason string) {
	pl.WithFields(logrus.Fields{
		"athlete_name": athleteName,
		"market":       market,
		"error_reason": errorReason,
	}).Error("Prediction failed")
}
