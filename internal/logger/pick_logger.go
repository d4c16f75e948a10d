// Package logger provides pick-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PickLogger provides dedicated logging for pick selection operations.
type PickLogger struct {
	*logrus.Entry
}

// NewPickLogger creates a new pick logger.
func NewPickLogger(baseLogger *logrus.Logger) *PickLogger {
	return &PickLogger{
		Entry: baseLogger.WithField("component", "picks"),
	}
}

// LogPickEvaluation logs a pick evaluation pass over posted lines.
func (pl *PickLogger) LogPickEvaluation(market string, linesEvaluated, picksGenerated int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"market":                 market,
		"lines_evaluated":        linesEvaluated,
		"picks_generated":        picksGenerated,
		"evaluation_duration_ms": durationMs,
	}).Info("Pick evaluation completed")
}

// LogPickDecision logs a pick decision.
func (pl *PickLogger) LogPickDecision(athleteName, market, side string, line, predicted, confidence, edgeValue float64) {
	pl.WithFields(logrus.Fields{
		"athlete_name": athleteName,
		"market":       market,
		"side":         side,
		"line":         line,
		"predicted":    predicted,
		"confidence":   confidence,
		"edge_value":   edgeValue,
	}).Info("Pick decision made")
}

// LogPickFiltering logs confidence filtering results.
func (pl *PickLogger) LogPickFiltering(market string, minConfidence float64, picksBefore, picksAfter int) {
	pl.WithFields(logrus.Fields{
		"market":         market,
		"min_confidence": minConfidence,
		"picks_before":   picksBefore,
		"picks_after":    picksAfter,
	}).Info("Confidence filtering applied to picks")
}

// LogMarketActivation logs a market being enabled for picks.
func (pl *PickLogger) LogMarketActivation(market, reason string) {
	pl.WithFields(logrus.Fields{
		"market":     market,
		"event_type": "activation",
		"reason":     reason,
	}).Info("Market activated")
}

// LogMarketDeactivation logs a market being disabled for picks.
func (pl *PickLogger) LogMarketDeactivation(market, reason string) {
	pl.WithFields(logrus.Fields{
		"market":     market,
		"event_type": "deactivation",
		"reason":     reason,
	}).Info("Market deactivated")
}

// LogMarketPerformanceUpdate logs rolling market performance updates.
func (pl *PickLogger) LogMarketPerformanceUpdate(market string, hitRate, brierScore float64, correctCalls, incorrectCalls int) {
	pl.WithFields(logrus.Fields{
		"market":          market,
		"hit_rate":        hitRate,
		"brier_score":     brierScore,
		"correct_calls":   correctCalls,
		"incorrect_calls": incorrectCalls,
	}).Info("Market performance updated")
}

// LogColdMarket logs markets whose recent hit rate fell below threshold.
func (pl *PickLogger) LogColdMarket(market string, hitRate, threshold float64, windowSize int) {
	pl.WithFields(logrus.Fields{
		"market":      market,
		"hit_rate":    hitRate,
		"threshold":   threshold,
		"window_size": windowSize,
	}).Warn("Market hit rate below threshold")
}
