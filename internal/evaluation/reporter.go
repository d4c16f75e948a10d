package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/repository"
)

// MethodChronologicalReplay labels results produced by the replay engine
const MethodChronologicalReplay = "chronological_replay"

// Result represents a full evaluation run's combined outputs
type Result struct {
	Metrics        Metrics         `json:"metrics"`
	Bootstrap      BootstrapResult `json:"bootstrap"`
	Windows        WindowResult    `json:"windows"`
	CompositeScore float64         `json:"composite_score"`
	Recommendation string          `json:"recommendation"`
}

// BuildResult combines replay metrics, bootstrap intervals and window scores
// into a scored, recommended result
func BuildResult(metrics Metrics, bootstrap BootstrapResult, windows WindowResult) Result {
	composite := CalculateCompositeScore(metrics, windows)
	return Result{
		Metrics:        metrics,
		Bootstrap:      bootstrap,
		Windows:        windows,
		CompositeScore: composite,
		Recommendation: GenerateRecommendation(composite, windows.ConsistencyScore, metrics.HitRate, windows.DriftScore),
	}
}

// CalculateCompositeScore folds calibration quality into a single score.
// A constant 0.5 forecast scores a Brier of 0.25, so the Brier band is
// anchored just either side of that baseline.
func CalculateCompositeScore(metrics Metrics, windows WindowResult) float64 {
	hitScore := normalize(metrics.HitRate, 0.40, 0.70)
	brierScore := 1.0 - normalize(metrics.BrierScore, 0.18, 0.30)
	calibrationScore := 1.0 - normalize(metrics.CalibrationError, 0, 0.15)
	consistencyScore := windows.ConsistencyScore
	coverageScore := normalize(float64(metrics.ScoredCount), 0, 200)

	weighted := 0.0
	weighted += hitScore * 0.30
	weighted += brierScore * 0.25
	weighted += calibrationScore * 0.20
	weighted += consistencyScore * 0.15
	weighted += coverageScore * 0.10
	return weighted
}

// GenerateRecommendation determines whether the model's calibration holds up
func GenerateRecommendation(score, consistency, hitRate, drift float64) string {
	if score > 0.7 && hitRate > 0.5 && consistency > 0.6 && drift < 0.2 {
		return "ACCEPT"
	}
	if score < 0.4 || hitRate < 0.45 || consistency < 0.4 {
		return "REJECT"
	}
	return "NEEDS_REVIEW"
}

// GenerateConsoleReport formats an evaluation result for terminal output
func GenerateConsoleReport(result Result) string {
	m := result.Metrics

	var builder strings.Builder
	builder.WriteString("Evaluation Report\n")
	builder.WriteString("=================\n")
	builder.WriteString(fmt.Sprintf("Window: %s to %s\n", m.StartDate.Format("2006-01-02"), m.EndDate.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Composite Score: %.2f\n", result.CompositeScore))
	builder.WriteString(fmt.Sprintf("Recommendation: %s\n", result.Recommendation))
	builder.WriteString(fmt.Sprintf("Scored Picks: %d of %d outcomes (%d pushes, %d thin history, %d unsupported)\n",
		m.ScoredCount, m.TotalOutcomes, m.PushCount, m.SkippedThinHistory, m.SkippedUnsupported))
	builder.WriteString(fmt.Sprintf("Hit Rate: %.2f%%\n", m.HitRate*100))
	builder.WriteString(fmt.Sprintf("Brier Score: %.4f\n", m.BrierScore))
	builder.WriteString(fmt.Sprintf("Log Loss: %.4f\n", m.LogLoss))
	builder.WriteString(fmt.Sprintf("Calibration Error: %.4f\n", m.CalibrationError))
	builder.WriteString(fmt.Sprintf("Consistency: %.2f\n", result.Windows.ConsistencyScore))
	builder.WriteString(fmt.Sprintf("Drift: %+.2f\n", result.Windows.DriftScore))
	if interval, ok := result.Bootstrap.HitRateIntervals["95%"]; ok {
		builder.WriteString(fmt.Sprintf("Hit Rate 95%% CI: [%.3f, %.3f]\n", interval.Low, interval.High))
	}

	if len(m.PerMarket) > 0 {
		builder.WriteString("Per Market:\n")
		for _, market := range sortedMarkets(m.PerMarket) {
			mm := m.PerMarket[market]
			builder.WriteString(fmt.Sprintf("  %s: %.2f%% over %d picks (brier %.4f)\n",
				market, mm.HitRate*100, mm.Scored, mm.BrierScore))
		}
	}
	return builder.String()
}

// GenerateHTMLReport creates a simple HTML report
func GenerateHTMLReport(result Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	m := result.Metrics
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Evaluation Report</title></head>
<body>
<h1>Evaluation Report</h1>
<p><strong>Window:</strong> %s to %s</p>
<p><strong>Composite Score:</strong> %.2f</p>
<p><strong>Recommendation:</strong> %s</p>
<p><strong>Scored Picks:</strong> %d of %d outcomes</p>
<p><strong>Hit Rate:</strong> %.2f%%</p>
<p><strong>Brier Score:</strong> %.4f</p>
<p><strong>Log Loss:</strong> %.4f</p>
<p><strong>Calibration Error:</strong> %.4f</p>
<p><strong>Consistency:</strong> %.2f</p>
<p><strong>Drift:</strong> %+.2f</p>
</body>
</html>`,
		m.StartDate.Format("2006-01-02"),
		m.EndDate.Format("2006-01-02"),
		result.CompositeScore,
		result.Recommendation,
		m.ScoredCount,
		m.TotalOutcomes,
		m.HitRate*100,
		m.BrierScore,
		m.LogLoss,
		m.CalibrationError,
		result.Windows.ConsistencyScore,
		result.Windows.DriftScore,
	)

	return os.WriteFile(outputPath, []byte(html), 0o644)
}

// GenerateCSVExport exports key metrics for spreadsheets
func GenerateCSVExport(result Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	m := result.Metrics
	csv := "metric,value\n" +
		fmt.Sprintf("composite_score,%.4f\n", result.CompositeScore) +
		fmt.Sprintf("hit_rate,%.4f\n", m.HitRate) +
		fmt.Sprintf("brier_score,%.4f\n", m.BrierScore) +
		fmt.Sprintf("log_loss,%.4f\n", m.LogLoss) +
		fmt.Sprintf("calibration_error,%.4f\n", m.CalibrationError) +
		fmt.Sprintf("scored_count,%d\n", m.ScoredCount) +
		fmt.Sprintf("consistency_score,%.4f\n", result.Windows.ConsistencyScore) +
		fmt.Sprintf("drift_score,%.4f\n", result.Windows.DriftScore) +
		fmt.Sprintf("recommendation,%s\n", result.Recommendation)
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}

// ExportToJSON writes the full result to a JSON file
func ExportToJSON(result Result, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// ExportToDatabase persists the evaluation result
func ExportToDatabase(ctx context.Context, result Result, repo repository.EvaluationResultRepository, markets []string) error {
	if repo == nil {
		return fmt.Errorf("evaluation result repository is required")
	}

	now := time.Now().UTC()
	model := models.EvaluationResult{
		ID:               uuid.New(),
		RunDate:          now,
		StartDate:        result.Metrics.StartDate,
		EndDate:          result.Metrics.EndDate,
		Markets:          strings.Join(markets, ","),
		TotalPredictions: result.Metrics.TotalOutcomes,
		GradedCount:      result.Metrics.ScoredCount,
		HitRate:          result.Metrics.HitRate,
		BrierScore:       result.Metrics.BrierScore,
		LogLoss:          result.Metrics.LogLoss,
		CalibrationError: result.Metrics.CalibrationError,
		Method:           MethodChronologicalReplay,
		CompositeScore:   result.CompositeScore,
		Recommendation:   result.Recommendation,
		FullResults:      mustMarshalJSON(result),
		CreatedAt:        now,
	}
	return repo.SaveResult(ctx, &model)
}

func sortedMarkets(perMarket map[string]MarketMetrics) []string {
	markets := make([]string, 0, len(perMarket))
	for market := range perMarket {
		markets = append(markets, market)
	}
	sort.Strings(markets)
	return markets
}

func mustMarshalJSON(value any) json.RawMessage {
	data, _ := json.Marshal(value)
	return data
}

func normalize(value, min, max float64) float64 {
	if max-min == 0 {
		return 0
	}
	v := (value - min) / (max - min)
	return math.Max(0, math.Min(1, v))
}
