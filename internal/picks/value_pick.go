package picks

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/props"
)

// ValueStrategy implements a basic value pick strategy
// Strategy logic: take a side when (model_probability * price) - 1 > min_edge_threshold
type ValueStrategy struct {
	BaseStrategy
	NameValue        string
	MinEdgeThreshold float64
	MinConfidence    float64
	DefaultStake     float64
}

// NewValueStrategy creates a new value pick strategy
func NewValueStrategy() *ValueStrategy {
	return &ValueStrategy{
		BaseStrategy: BaseStrategy{
			MinPrice:         1.1,
			MaxPrice:         10,
			MaxOverround:     0.08,
			KellyFraction:    0.5,
			MinEdgeThreshold: 0.02,
		},
		NameValue:        "value_pick",
		MinEdgeThreshold: 0.02,
		MinConfidence:    0.55,
		DefaultStake:     5,
	}
}

// Name returns strategy name
func (s *ValueStrategy) Name() string {
	return s.NameValue
}

// Evaluate compares the model's probabilities against each book's posted
// prices and generates pick signals
func (s *ValueStrategy) Evaluate(ctx context.Context, pickCtx Context) ([]Signal, error) {
	_ = ctx
	if pickCtx.Prediction == nil {
		return nil, fmt.Errorf("prediction is required")
	}

	currentTime := pickCtx.CurrentTime
	if err := s.ValidateTemporalSafety(currentTime, pickCtx.Lines); err != nil {
		return nil, err
	}

	latest := latestLineByBook(pickCtx.Lines, currentTime)
	var signals []Signal

	for _, line := range latest {
		signal, ok := s.buildSignal(pickCtx.Prediction, line)
		if !ok {
			continue
		}
		if s.ShouldTake(signal) {
			signals = append(signals, signal)
		}
	}

	return signals, nil
}

// ShouldTake determines if a signal should be acted on
func (s *ValueStrategy) ShouldTake(signal Signal) bool {
	return signal.ExpectedValue > 0 && signal.Stake > 0
}

// CalculateStake calculates stake based on bankroll
func (s *ValueStrategy) CalculateStake(signal Signal, bankroll float64) float64 {
	if bankroll <= 0 {
		return 0
	}
	stake := signal.Stake
	if stake <= 0 {
		stake = s.DefaultStake
	}
	if stake > bankroll {
		return bankroll
	}
	return stake
}

// GetParameters returns strategy parameters for reporting
func (s *ValueStrategy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"min_edge_threshold": s.MinEdgeThreshold,
		"min_confidence":     s.MinConfidence,
		"default_stake":      s.DefaultStake,
		"max_overround":      s.MaxOverround,
	}
}

func (s *ValueStrategy) buildSignal(prediction *models.PropPrediction, line *models.PropLine) (Signal, bool) {
	if line.Market != prediction.Market || line.Line != prediction.Line {
		return Signal{}, false
	}
	if !s.CheckMargin(line) {
		return Signal{}, false
	}
	if prediction.Confidence < s.MinConfidence {
		return Signal{}, false
	}

	overProb := s.NormalizeProbability(prediction.OverProbability)
	underProb := s.NormalizeProbability(prediction.UnderProbability)
	overPrice := line.OverPrice.InexactFloat64()
	underPrice := line.UnderPrice.InexactFloat64()

	side := props.DirectionOver
	probability := overProb
	price := line.OverPrice
	edge := overProb*overPrice - 1.0

	if underEdge := underProb*underPrice - 1.0; underEdge > edge {
		side = props.DirectionUnder
		probability = underProb
		price = line.UnderPrice
		edge = underEdge
	}

	if edge <= s.MinEdgeThreshold {
		return Signal{}, false
	}
	if err := s.ValidatePrice(price); err != nil {
		return Signal{}, false
	}

	stake := s.DefaultStake
	if stake <= 0 {
		stake = s.ApplyKellyCriterion(probability, price.InexactFloat64(), 100)
	}

	signal := Signal{
		AthleteID:     prediction.AthleteID,
		Market:        line.Market,
		Line:          line.Line,
		Side:          side,
		Book:          line.Book,
		Price:         price,
		Stake:         stake,
		Confidence:    prediction.Confidence,
		Edge:          edge,
		ExpectedValue: s.CalculateExpectedValue(probability, price.InexactFloat64(), stake),
		Reasoning:     "Model probability beats posted price",
		Features: map[string]any{
			"edge":              edge,
			"model_probability": probability,
			"fair_probability":  line.GetFairOverProbability(),
			"overround":         line.GetOverround(),
		},
	}
	return signal, true
}

// latestLineByBook keeps each book's most recent snapshot at or before current
func latestLineByBook(lines []*models.PropLine, current time.Time) map[string]*models.PropLine {
	latest := make(map[string]*models.PropLine)
	for _, line := range lines {
		if line.Time.After(current) {
			continue
		}
		existing, ok := latest[line.Book]
		if !ok || line.Time.After(existing.Time) {
			latest[line.Book] = line
		}
	}
	return latest
}
