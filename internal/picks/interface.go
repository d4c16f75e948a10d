package picks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/prop-insight/internal/models"
)

// Strategy defines the interface for pick strategies
type Strategy interface {
	Name() string
	Evaluate(ctx context.Context, pickCtx Context) ([]Signal, error)
	ShouldTake(signal Signal) bool
	CalculateStake(signal Signal, bankroll float64) float64
	GetParameters() map[string]interface{}
}

// Signal represents a recommended position on one posted line
type Signal struct {
	AthleteID     uuid.UUID       `json:"athlete_id"`
	Market        string          `json:"market"`
	Line          float64         `json:"line"`
	Side          string          `json:"side"`
	Book          string          `json:"book"`
	Price         decimal.Decimal `json:"price"`
	Stake         float64         `json:"stake"`
	Confidence    float64         `json:"confidence"`
	Edge          float64         `json:"edge"`
	ExpectedValue float64         `json:"expected_value"`
	Reasoning     string          `json:"reasoning"`
	Features      map[string]any  `json:"features,omitempty"`
}

// Context provides the strategy with temporal-safe inputs
type Context struct {
	Prediction  *models.PropPrediction
	Lines       []*models.PropLine
	CurrentTime time.Time
}
