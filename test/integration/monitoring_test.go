//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/prop-insight/internal/logger"
	"github.com/yourusername/prop-insight/internal/metrics"
	"github.com/yourusername/prop-insight/internal/tracing"
)

func TestObservabilityIntegration(t *testing.T) {
	// Initialize all observability components
	metrics.InitRegistry()

	// Set up logger with buffer to capture output
	appLog := logrus.New()
	logBuf := &bytes.Buffer{}
	appLog.SetOutput(logBuf)
	appLog.SetFormatter(&logrus.JSONFormatter{})
	appLog.SetLevel(logrus.DebugLevel)

	// Create specialized loggers
	pickLogger := logger.NewPickLogger(appLog)
	predictionLogger := logger.NewPredictionLogger(appLog)
	auditLogger := logger.NewAuditLogger(appLog)

	// Initialize X-Ray tracing (disabled for test)
	err := tracing.Initialize(tracing.Config{
		ServiceName: "test-engine",
		Enabled:     false, // Disable for unit tests
	}, appLog)
	require.NoError(t, err)

	// Test complete observability flow
	t.Run("metrics collection", func(t *testing.T) {
		// Record prediction issuance
		metrics.RecordPredictionIssued()

		// Record pick evaluation
		metrics.RecordPickEvaluation(0.5)

		// Update daily hit rate
		metrics.UpdateDailyHitRate(0.58)

		// Update pending outcome count
		metrics.UpdatePendingOutcomes(12)

		// All operations should complete without panic
		assert.True(t, true)
	})

	t.Run("pick logging", func(t *testing.T) {
		logBuf.Reset()

		// Log pick decision
		pickLogger.LogPickDecision(
			"Mookie Betts",
			"hits",
			"over",
			1.5,
			1.9,
			0.87,
			0.045,
		)

		// Verify log output
		var logEntry map[string]interface{}
		err := json.Unmarshal(logBuf.Bytes(), &logEntry)
		require.NoError(t, err)
		assert.Equal(t, "over", logEntry["side"])
	})

	t.Run("prediction logging", func(t *testing.T) {
		logBuf.Reset()

		// Log prediction request
		predictionLogger.LogPredictionRequest("Mookie Betts", "hits", 1.5, true, 45)

		// Verify log output
		var logEntry map[string]interface{}
		err := json.Unmarshal(logBuf.Bytes(), &logEntry)
		require.NoError(t, err)
		assert.Equal(t, "hits", logEntry["market"])
	})

	t.Run("audit logging", func(t *testing.T) {
		logBuf.Reset()

		// Log prediction issuance
		auditLogger.LogPredictionIssued(
			"pred_123",
			"ath_456",
			"hits",
			1.5,
			1.9,
			0.72,
			0.61,
			time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC),
		)

		// Verify log output
		var logEntry map[string]interface{}
		err := json.Unmarshal(logBuf.Bytes(), &logEntry)
		require.NoError(t, err)
		assert.Equal(t, "pred_123", logEntry["prediction_id"])
	})

	t.Run("prometheus metrics endpoint", func(t *testing.T) {
		registry := metrics.GetRegistry()
		assert.NotNil(t, registry)

		// Create test server with metrics handler
		handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		server := httptest.NewServer(handler)
		defer server.Close()

		// Make request to metrics endpoint
		resp, err := http.Get(server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

		// Verify metrics are present in response
		body := &bytes.Buffer{}
		_, err = body.ReadFrom(resp.Body)
		require.NoError(t, err)

		metricsText := body.String()
		assert.Contains(t, metricsText, "prop_insight_")
	})

	t.Run("end-to-end prediction workflow", func(t *testing.T) {
		logBuf.Reset()

		// Simulate complete prediction workflow with observability

		// 1. Prediction request
		predictionLogger.LogPredictionRequest("Mookie Betts", "hits", 1.5, false, 150)
		metrics.RecordPredictionLatency(0.15)

		// 2. History aggregation
		predictionLogger.LogAggregation("Mookie Betts", "hits", 50, 48, 10, 6)
		metrics.RecordPredictionIssued()

		// 3. Pick decision
		pickLogger.LogPickDecision(
			"Mookie Betts",
			"hits",
			"over",
			1.5,
			1.9,
			0.87,
			0.045,
		)
		metrics.RecordPickDecision("hits", "over", "issued")

		// 4. Prediction issuance
		auditLogger.LogPredictionIssued(
			"pred_123",
			"ath_456",
			"hits",
			1.5,
			1.9,
			0.72,
			0.61,
			time.Now(),
		)

		// 5. Grading run
		predictionLogger.LogGradingRun(24, 2, 1, 310)
		metrics.RecordOutcomeGraded()
		metrics.UpdateDailyHitRate(0.61)

		// Verify workflow completed successfully
		assert.True(t, true)
	})

	t.Run("concurrent metrics recording", func(t *testing.T) {
		// Test concurrent metric recording (race condition detection)
		done := make(chan bool)

		for i := 0; i < 10; i++ {
			go func(idx int) {
				metrics.RecordPredictionIssued()
				metrics.RecordPickEvaluation(0.5)
				metrics.UpdateDailyHitRate(0.50 + float64(idx)/100)
				done <- true
			}(i)
		}

		// Wait for all goroutines
		for i := 0; i < 10; i++ {
			<-done
		}

		assert.True(t, true)
	})

	t.Run("error handling", func(t *testing.T) {
		logBuf.Reset()

		// Log prediction error
		predictionLogger.LogPredictionError("Mookie Betts", "hits", "insufficient history")

		// Verify error is logged
		var logEntry map[string]interface{}
		err := json.Unmarshal(logBuf.Bytes(), &logEntry)
		require.NoError(t, err)
		assert.Equal(t, "hits", logEntry["market"])
	})

	t.Run("data source pause events", func(t *testing.T) {
		logBuf.Reset()

		// Log provider pause
		metrics.RecordDataSourcePause()
		auditLogger.LogDataSourceFailure(
			"statsfeed",
			"consecutive timeouts",
			5,
			"PAUSE_INGESTION",
		)

		// Verify event is logged
		var logEntry map[string]interface{}
		err := json.Unmarshal(logBuf.Bytes(), &logEntry)
		require.NoError(t, err)
		assert.Equal(t, "statsfeed", logEntry["source"])
	})
}

func BenchmarkObservabilitySystem(b *testing.B) {
	metrics.InitRegistry()

	appLog := logrus.New()
	appLog.SetOutput(&bytes.Buffer{})
	pickLogger := logger.NewPickLogger(appLog)
	auditLogger := logger.NewAuditLogger(appLog)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		metrics.RecordPredictionIssued()
		metrics.UpdateDailyHitRate(0.55)

		pickLogger.LogPickDecision(
			"Mookie Betts", "hits", "over",
			1.5, 1.9, 0.87, 0.045,
		)

		auditLogger.LogPredictionIssued(
			"pred_123", "ath_456", "hits", 1.5,
			1.9, 0.72, 0.61, time.Now(),
		)
	}
}

func TestMetricsRegistryRace(t *testing.T) {
	// Test for race conditions in metrics registry
	metrics.InitRegistry()

	done := make(chan bool)

	// Concurrent reads and writes
	for i := 0; i < 100; i++ {
		go func(idx int) {
			market := fmt.Sprintf("market_%d", idx%4)
			metrics.RecordPredictionIssued()
			metrics.UpdateMarketHitRate(market, 0.55)
			metrics.RecordDataSourcePause()
			done <- true
		}(i)
	}

	for i := 0; i < 100; i++ {
		<-done
	}

	assert.True(t, true)
}

func TestTraceSegmentIntegration(t *testing.T) {
	appLog := logrus.New()
	appLog.SetOutput(&bytes.Buffer{})

	// Initialize X-Ray (disabled)
	err := tracing.Initialize(tracing.Config{
		ServiceName: "test-engine",
		Enabled:     false,
	}, appLog)
	require.NoError(t, err)

	// Create segment (should not panic even with X-Ray disabled)
	ctx, seg := tracing.StartSegment(context.Background(), "test-segment")
	assert.NotNil(t, ctx)
	assert.NotNil(t, seg)

	// Add metadata (should not panic)
	tracing.AddAnnotation(ctx, "test_key", "test_value")
	tracing.AddMetadata(ctx, "test_meta", map[string]string{"key": "value"})

	// Close segment
	seg.Close(nil)

	assert.True(t, true)
}
