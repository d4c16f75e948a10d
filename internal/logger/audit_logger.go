// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPredictionIssued logs a prediction being issued for a posted line.
func (al *AuditLogger) LogPredictionIssued(predictionID, athleteID, market string, line, predicted, confidence, overProbability float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"prediction_id":    predictionID,
		"athlete_id":       athleteID,
		"market":           market,
		"line":             line,
		"predicted":        predicted,
		"confidence":       confidence,
		"over_probability": overProbability,
		"timestamp":        timestamp.Unix(),
	}).Info("Prediction issued")
}

// LogOutcomeGraded logs the grading of a settled prop line.
func (al *AuditLogger) LogOutcomeGraded(outcomeID, athleteID, market string, line, actual float64, result string) {
	al.WithFields(logrus.Fields{
		"outcome_id": outcomeID,
		"athlete_id": athleteID,
		"market":     market,
		"line":       line,
		"actual":     actual,
		"result":     result,
	}).Info("Outcome graded")
}

// LogParameterChange logs prediction parameter changes.
func (al *AuditLogger) LogParameterChange(section, parameterName string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"section":        section,
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"changed_by":     changedBy,
	}).Info("Prediction parameter changed")
}

// LogDataSourceFailure logs repeated provider failures.
func (al *AuditLogger) LogDataSourceFailure(source, reason string, consecutiveFailures int, actionTaken string) {
	al.WithFields(logrus.Fields{
		"source":               source,
		"reason":               reason,
		"consecutive_failures": consecutiveFailures,
		"action_taken":         actionTaken,
	}).Warn("Data source failure recorded")
}

// LogJobExecution logs scheduled job completion.
func (al *AuditLogger) LogJobExecution(jobName, status string, recordsProcessed int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"job_name":          jobName,
		"status":            status,
		"records_processed": recordsProcessed,
		"duration_ms":       durationMs,
	}).Info("Scheduled job executed")
}
