//go:build standalone

// Standalone test for value pick strategy math
// Run with: go test -tags standalone -v ./test/unit/value_pick_strategy_test.go
package unit

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/picks"
)

var testAthleteID = uuid.New()

// Fixture builders for strategy inputs
func modelPrediction(market string, lineValue, overProb, confidence float64) *models.PropPrediction {
	return &models.PropPrediction{
		ID:               uuid.New(),
		AthleteID:        testAthleteID,
		Market:           market,
		Line:             lineValue,
		Predicted:        lineValue + 0.5,
		Confidence:       confidence,
		OverProbability:  overProb,
		UnderProbability: 1 - overProb,
		SampleSize:       40,
		PredictedAt:      time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC),
	}
}

func postedLine(market string, lineValue, overPrice, underPrice float64, book string, at time.Time) *models.PropLine {
	return &models.PropLine{
		Time:       at,
		AthleteID:  testAthleteID,
		Market:     market,
		Line:       lineValue,
		OverPrice:  decimal.NewFromFloat(overPrice),
		UnderPrice: decimal.NewFromFloat(underPrice),
		Book:       book,
	}
}

func evaluateOne(t *testing.T, s *picks.ValueStrategy, prediction *models.PropPrediction, line *models.PropLine) []picks.Signal {
	t.Helper()
	signals, err := s.Evaluate(context.Background(), picks.Context{
		Prediction:  prediction,
		Lines:       []*models.PropLine{line},
		CurrentTime: line.Time.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	return signals
}

func TestValueStrategyDefaults(t *testing.T) {
	s := picks.NewValueStrategy()

	if s.Name() != "value_pick" {
		t.Errorf("Expected name value_pick, got %s", s.Name())
	}
	if s.MinPrice != 1.1 || s.MaxPrice != 10 {
		t.Errorf("Unexpected price bounds: min=%f max=%f", s.MinPrice, s.MaxPrice)
	}
	if s.KellyFraction != 0.5 {
		t.Errorf("Expected half-Kelly default, got %f", s.KellyFraction)
	}

	params := s.GetParameters()
	if v := params["min_edge_threshold"].(float64); v != 0.02 {
		t.Errorf("Expected min_edge_threshold=0.02, got %f", v)
	}
	if v := params["min_confidence"].(float64); v != 0.55 {
		t.Errorf("Expected min_confidence=0.55, got %f", v)
	}
	if v := params["default_stake"].(float64); v != 5 {
		t.Errorf("Expected default_stake=5, got %f", v)
	}
	if v := params["max_overround"].(float64); v != 0.08 {
		t.Errorf("Expected max_overround=0.08, got %f", v)
	}

	t.Logf("✓ Defaults: %v", params)
}

func TestEvaluateSelectsLatestSnapshot(t *testing.T) {
	s := picks.NewValueStrategy()
	now := time.Date(2025, 6, 14, 16, 0, 0, 0, time.UTC)
	pred := modelPrediction("hits", 1.5, 0.62, 0.72)

	// Only the fresh draftkings quote offers value at 0.62 over. The stale
	// draftkings snapshot and the fanduel quote both price the over too short.
	lines := []*models.PropLine{
		postedLine("hits", 1.5, 1.60, 2.20, "draftkings", now.Add(-6*time.Hour)),
		postedLine("hits", 1.5, 1.87, 1.95, "draftkings", now.Add(-time.Hour)),
		postedLine("hits", 1.5, 1.55, 2.40, "fanduel", now.Add(-2*time.Hour)),
	}

	signals, err := s.Evaluate(context.Background(), picks.Context{
		Prediction:  pred,
		Lines:       lines,
		CurrentTime: now,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("Expected 1 signal, got %d", len(signals))
	}

	sig := signals[0]
	if sig.Book != "draftkings" {
		t.Errorf("Expected draftkings signal, got %s", sig.Book)
	}
	if sig.Price.InexactFloat64() != 1.87 {
		t.Errorf("Expected latest snapshot price 1.87, got %f", sig.Price.InexactFloat64())
	}
	if sig.Side != "over" {
		t.Errorf("Expected over side, got %s", sig.Side)
	}
	if sig.AthleteID != pred.AthleteID {
		t.Errorf("Signal carries wrong athlete: %s", sig.AthleteID)
	}
	if sig.Market != "hits" || sig.Line != 1.5 {
		t.Errorf("Signal market/line mismatch: %s %f", sig.Market, sig.Line)
	}
	if sig.Confidence != 0.72 {
		t.Errorf("Expected confidence 0.72, got %f", sig.Confidence)
	}
	if sig.Stake != 5 {
		t.Errorf("Expected default stake 5, got %f", sig.Stake)
	}

	// edge = 0.62 * 1.87 - 1
	if math.Abs(sig.Edge-0.1594) > 1e-9 {
		t.Errorf("Expected edge 0.1594, got %f", sig.Edge)
	}
	// ev = 0.62 * 0.87 * 5 - 0.38 * 5
	if math.Abs(sig.ExpectedValue-0.797) > 1e-9 {
		t.Errorf("Expected ev 0.797, got %f", sig.ExpectedValue)
	}
	if !s.ShouldTake(sig) {
		t.Error("Positive-EV signal should be taken")
	}

	for _, key := range []string{"edge", "model_probability", "fair_probability", "overround"} {
		if _, exists := sig.Features[key]; !exists {
			t.Errorf("Expected feature %s not found", key)
		}
	}
	if v := sig.Features["model_probability"].(float64); v != 0.62 {
		t.Errorf("Expected model_probability=0.62, got %f", v)
	}

	t.Logf("✓ Signal: %s %s %.1f %s @ %.2f (edge=%.4f, ev=%.3f)",
		sig.Book, sig.Market, sig.Line, sig.Side, sig.Price.InexactFloat64(), sig.Edge, sig.ExpectedValue)
}

func TestEvaluateTakesUnderSide(t *testing.T) {
	s := picks.NewValueStrategy()
	pred := modelPrediction("strikeouts", 6.5, 0.30, 0.80)
	line := postedLine("strikeouts", 6.5, 2.10, 1.80, "betmgm", time.Date(2025, 6, 14, 15, 0, 0, 0, time.UTC))

	signals := evaluateOne(t, s, pred, line)
	if len(signals) != 1 {
		t.Fatalf("Expected 1 signal, got %d", len(signals))
	}

	sig := signals[0]
	if sig.Side != "under" {
		t.Errorf("Expected under side, got %s", sig.Side)
	}
	if sig.Price.InexactFloat64() != 1.80 {
		t.Errorf("Expected under price 1.80, got %f", sig.Price.InexactFloat64())
	}
	// edge = 0.70 * 1.80 - 1
	if math.Abs(sig.Edge-0.26) > 1e-9 {
		t.Errorf("Expected edge 0.26, got %f", sig.Edge)
	}
	// ev = 0.70 * 0.80 * 5 - 0.30 * 5
	if math.Abs(sig.ExpectedValue-1.3) > 1e-9 {
		t.Errorf("Expected ev 1.3, got %f", sig.ExpectedValue)
	}

	t.Logf("✓ Under side selected at %.2f (edge=%.2f)", sig.Price.InexactFloat64(), sig.Edge)
}

func TestEvaluateRejectionGates(t *testing.T) {
	s := picks.NewValueStrategy()
	at := time.Date(2025, 6, 14, 15, 0, 0, 0, time.UTC)

	// Book margin above 8%
	if got := evaluateOne(t, s, modelPrediction("hits", 1.5, 0.62, 0.72),
		postedLine("hits", 1.5, 1.70, 1.95, "draftkings", at)); len(got) != 0 {
		t.Errorf("Wide margin should be rejected, got %d signals", len(got))
	}

	// One-sided quote
	if got := evaluateOne(t, s, modelPrediction("hits", 1.5, 0.62, 0.72),
		postedLine("hits", 1.5, 1.90, 0, "draftkings", at)); len(got) != 0 {
		t.Errorf("One-sided quote should be rejected, got %d signals", len(got))
	}

	// Model confidence below 0.55
	if got := evaluateOne(t, s, modelPrediction("hits", 1.5, 0.62, 0.50),
		postedLine("hits", 1.5, 1.87, 1.95, "draftkings", at)); len(got) != 0 {
		t.Errorf("Low confidence should be rejected, got %d signals", len(got))
	}

	// Best edge 0.0175, below the 0.02 threshold
	if got := evaluateOne(t, s, modelPrediction("hits", 1.5, 0.55, 0.72),
		postedLine("hits", 1.5, 1.85, 1.98, "draftkings", at)); len(got) != 0 {
		t.Errorf("Thin edge should be rejected, got %d signals", len(got))
	}

	// Posted line moved away from the predicted line
	if got := evaluateOne(t, s, modelPrediction("hits", 1.5, 0.62, 0.72),
		postedLine("hits", 2.5, 1.87, 1.95, "draftkings", at)); len(got) != 0 {
		t.Errorf("Moved line should be rejected, got %d signals", len(got))
	}

	// Longshot priced outside the 1.1-10 band
	if got := evaluateOne(t, s, modelPrediction("hits", 1.5, 0.12, 0.72),
		postedLine("hits", 1.5, 10.5, 1.05, "draftkings", at)); len(got) != 0 {
		t.Errorf("Out-of-band price should be rejected, got %d signals", len(got))
	}

	t.Log("✓ All rejection gates held")
}

func TestEvaluateInputValidation(t *testing.T) {
	s := picks.NewValueStrategy()
	now := time.Date(2025, 6, 14, 16, 0, 0, 0, time.UTC)

	_, err := s.Evaluate(context.Background(), picks.Context{CurrentTime: now})
	if err == nil {
		t.Fatal("Expected error for missing prediction")
	}

	signals, err := s.Evaluate(context.Background(), picks.Context{
		Prediction: modelPrediction("hits", 1.5, 0.62, 0.72),
		Lines: []*models.PropLine{
			postedLine("hits", 1.5, 1.87, 1.95, "draftkings", now.Add(30*time.Minute)),
		},
		CurrentTime: now,
	})
	if err == nil {
		t.Fatal("Expected error for future-dated line")
	}
	if !strings.Contains(err.Error(), "temporal safety") {
		t.Errorf("Unexpected error: %v", err)
	}
	if signals != nil {
		t.Errorf("Expected no signals on error, got %d", len(signals))
	}

	t.Logf("✓ Future-dated line refused: %v", err)
}

func TestKellyAndStakeMath(t *testing.T) {
	s := picks.NewValueStrategy()

	// kelly = (1.0*0.6 - 0.4) / 1.0 = 0.2, halved over a 100 bankroll
	if stake := s.ApplyKellyCriterion(0.6, 2.0, 100); math.Abs(stake-10) > 1e-9 {
		t.Errorf("Expected half-Kelly stake 10, got %f", stake)
	}
	if stake := s.ApplyKellyCriterion(0.4, 2.0, 100); stake != 0 {
		t.Errorf("Negative-edge Kelly should stake 0, got %f", stake)
	}
	if stake := s.ApplyKellyCriterion(0, 2.0, 100); stake != 0 {
		t.Errorf("Zero probability should stake 0, got %f", stake)
	}
	if stake := s.ApplyKellyCriterion(0.6, 1.0, 100); stake != 0 {
		t.Errorf("Even-money floor should stake 0, got %f", stake)
	}
	if stake := s.ApplyKellyCriterion(0.6, 2.0, 0); stake != 0 {
		t.Errorf("Empty bankroll should stake 0, got %f", stake)
	}

	// Unset fraction falls back to half-Kelly
	bare := &picks.BaseStrategy{}
	if stake := bare.ApplyKellyCriterion(0.6, 2.0, 100); math.Abs(stake-10) > 1e-9 {
		t.Errorf("Expected fallback half-Kelly stake 10, got %f", stake)
	}

	sig := picks.Signal{Stake: 8}
	if got := s.CalculateStake(sig, 100); got != 8 {
		t.Errorf("Expected stake 8, got %f", got)
	}
	if got := s.CalculateStake(sig, 6); got != 6 {
		t.Errorf("Expected stake capped at bankroll 6, got %f", got)
	}
	if got := s.CalculateStake(sig, 0); got != 0 {
		t.Errorf("Expected stake 0 on empty bankroll, got %f", got)
	}
	if got := s.CalculateStake(picks.Signal{}, 50); got != 5 {
		t.Errorf("Expected default stake 5, got %f", got)
	}

	// ev = 0.55*1.0*10 - 0.45*10
	if ev := s.CalculateExpectedValue(0.55, 2.0, 10); math.Abs(ev-1.0) > 1e-9 {
		t.Errorf("Expected ev 1.0, got %f", ev)
	}
	if ev := s.CalculateExpectedValue(0, 2.0, 10); ev != 0 {
		t.Errorf("Expected ev 0 for zero probability, got %f", ev)
	}
	if ev := s.CalculateExpectedValue(0.55, 1.0, 10); ev != 0 {
		t.Errorf("Expected ev 0 at even money, got %f", ev)
	}
	if ev := s.CalculateExpectedValue(0.55, 2.0, 0); ev != 0 {
		t.Errorf("Expected ev 0 for zero stake, got %f", ev)
	}

	t.Log("✓ Kelly, stake capping and expected value verified")
}

func TestPriceValidation(t *testing.T) {
	s := picks.NewValueStrategy()

	if err := s.ValidatePrice(decimal.NewFromFloat(1.87)); err != nil {
		t.Errorf("1.87 should be a valid price: %v", err)
	}
	if err := s.ValidatePrice(decimal.NewFromFloat(1.0)); err == nil {
		t.Error("Price at 1.0 should be invalid")
	}
	if err := s.ValidatePrice(decimal.NewFromFloat(1.05)); err == nil {
		t.Error("Price below minimum should be invalid")
	}
	if err := s.ValidatePrice(decimal.NewFromFloat(12)); err == nil {
		t.Error("Price above maximum should be invalid")
	}

	t.Log("✓ Price bounds enforced")
}

func TestProbabilityNormalization(t *testing.T) {
	s := picks.NewValueStrategy()

	cases := []struct{ in, want float64 }{
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{-0.2, 0},
		{1.7, 1},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
	}
	for _, c := range cases {
		if got := s.NormalizeProbability(c.in); got != c.want {
			t.Errorf("NormalizeProbability(%f): expected %f, got %f", c.in, c.want, got)
		}
	}

	t.Log("✓ Probabilities clamped to [0,1]")
}
