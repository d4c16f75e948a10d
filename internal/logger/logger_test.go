package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestPickLoggerEvaluation(t *testing.T) {
	log, buf := setupTestLogger()
	pickLogger := NewPickLogger(log)

	pickLogger.LogPickEvaluation("hits", 120, 4, 500.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "hits", logEntry["market"])
	assert.Equal(t, "picks", logEntry["component"])
}

func TestPickLoggerDecision(t *testing.T) {
	log, buf := setupTestLogger()
	pickLogger := NewPickLogger(log)

	pickLogger.LogPickDecision(
		"Aaron Judge",
		"home_runs",
		"over",
		0.5,
		0.71,
		0.68,
		0.045,
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "over", logEntry["side"])
}

func TestPickLoggerMarketActivation(t *testing.T) {
	log, buf := setupTestLogger()
	pickLogger := NewPickLogger(log)

	pickLogger.LogMarketActivation("strikeouts", "evaluation_approval")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "strikeouts", logEntry["market"])
	assert.Equal(t, "activation", logEntry["event_type"])
}

func TestPickLoggerMarketDeactivation(t *testing.T) {
	log, buf := setupTestLogger()
	pickLogger := NewPickLogger(log)

	pickLogger.LogMarketDeactivation("stolen_bases", "hit_rate_below_threshold")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "deactivation", logEntry["event_type"])
	assert.Equal(t, "hit_rate_below_threshold", logEntry["reason"])
}

func TestPredictionLoggerRequest(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogPredictionRequest("Juan Soto", "total_bases", 1.5, true, 45)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Juan Soto", logEntry["athlete_name"])
	assert.Equal(t, "prediction", logEntry["component"])
}

func TestPredictionLoggerAggregation(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogAggregation("Juan Soto", "hits", 140, 138, 10, 6)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(138), logEntry["sample_size"])
	assert.Equal(t, float64(6), logEntry["opponent_sample_size"])
}

func TestPredictionLoggerTrendReport(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogTrendReport(500, 42, 11, 7)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(11), logEntry["trends_emitted"])
	assert.Equal(t, float64(7), logEntry["top_streak_length"])
}

func TestAuditLoggerPredictionIssued(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogPredictionIssued(
		"pred_123",
		"athlete_456",
		"hits",
		1.5,
		1.62,
		0.71,
		0.55,
		time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC),
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "pred_123", logEntry["prediction_id"])
	assert.Equal(t, "audit", logEntry["component"])
}

func TestAuditLoggerParameterChange(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogParameterChange(
		"prediction",
		"recent_form_weight",
		0.4,
		0.45,
		"user@example.com",
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "recent_form_weight", logEntry["parameter_name"])
}

func TestAuditLoggerDataSourceFailure(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogDataSourceFailure(
		"stats_feed",
		"timeout_exceeded",
		3,
		"PAUSE_INGESTION",
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "stats_feed", logEntry["source"])
	assert.Equal(t, float64(3), logEntry["consecutive_failures"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	pickLogger := NewPickLogger(log)

	pickLogger.LogPickDecision(
		"Aaron Judge",
		"home_runs",
		"over",
		0.5,
		0.71,
		0.68,
		0.045,
	)

	// Verify output is valid JSON
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkPickLoggerDecision(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	pickLogger := NewPickLogger(log)

	for i := 0; i < b.N; i++ {
		pickLogger.LogPickDecision(
			"Aaron Judge",
			"home_runs",
			"over",
			0.5,
			0.71,
			0.68,
			0.045,
		)
	}
}

func BenchmarkAuditLoggerPredictionIssued(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	auditLogger := NewAuditLogger(log)

	for i := 0; i < b.N; i++ {
		auditLogger.LogPredictionIssued(
			"pred_123",
			"athlete_456",
			"hits",
			1.5,
			1.62,
			0.71,
			0.55,
			time.Now(),
		)
	}
}
