package evaluation

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/prop-insight/internal/models"
)

func TestRunBootstrapDeterministic(t *testing.T) {
	day := time.Date(2025, 6, 10, 19, 0, 0, 0, time.UTC)
	picks := []*ScoredPick{
		scoredPick(day, 0.8, models.OutcomeOver),
		scoredPick(day.Add(24*time.Hour), 0.7, models.OutcomeOver),
		scoredPick(day.Add(48*time.Hour), 0.3, models.OutcomeUnder),
		scoredPick(day.Add(72*time.Hour), 0.6, models.OutcomeUnder),
	}

	cfg := BootstrapConfig{Iterations: 500, Seed: 42}
	result, err := RunBootstrap(context.Background(), picks, cfg)
	if err != nil {
		t.Fatalf("RunBootstrap failed: %v", err)
	}
	if result.Iterations != 500 {
		t.Fatalf("expected 500 iterations, got %d", result.Iterations)
	}
	if result.MeanHitRate <= 0 || result.MeanHitRate > 1 {
		t.Fatalf("expected mean hit rate in (0,1], got %f", result.MeanHitRate)
	}

	interval, ok := result.HitRateIntervals["95%"]
	if !ok {
		t.Fatalf("expected a 95%% interval")
	}
	if interval.Low > interval.High {
		t.Fatalf("expected ordered interval, got [%f, %f]", interval.Low, interval.High)
	}

	again, err := RunBootstrap(context.Background(), picks, cfg)
	if err != nil {
		t.Fatalf("RunBootstrap rerun failed: %v", err)
	}
	if again.MeanHitRate != result.MeanHitRate {
		t.Fatalf("expected seeded runs to agree, got %f and %f", result.MeanHitRate, again.MeanHitRate)
	}
}

func TestRunBootstrapEmptyPicks(t *testing.T) {
	result, err := RunBootstrap(context.Background(), nil, BootstrapConfig{Iterations: 100, Seed: 1})
	if err != nil {
		t.Fatalf("RunBootstrap failed: %v", err)
	}
	if result.Iterations != 0 {
		t.Fatalf("expected zero result on empty picks, got %d iterations", result.Iterations)
	}
}
