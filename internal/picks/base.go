package picks

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/prop-insight/internal/models"
)

// BaseStrategy provides shared functionality for pick strategies
type BaseStrategy struct {
	MinPrice         float64
	MaxPrice         float64
	MaxOverround     float64
	KellyFraction    float64
	MinEdgeThreshold float64
}

// ValidatePrice ensures a decimal price is within acceptable bounds
func (b *BaseStrategy) ValidatePrice(price decimal.Decimal) error {
	p := price.InexactFloat64()
	if p <= 1.0 {
		return fmt.Errorf("price must be greater than 1.0")
	}
	if b.MinPrice > 0 && p < b.MinPrice {
		return fmt.Errorf("price below minimum")
	}
	if b.MaxPrice > 0 && p > b.MaxPrice {
		return fmt.Errorf("price above maximum")
	}
	return nil
}

// CheckMargin ensures the book's two-way margin is not excessive
func (b *BaseStrategy) CheckMargin(line *models.PropLine) bool {
	if line == nil {
		return false
	}
	if b.MaxOverround <= 0 {
		return true
	}
	overround := line.GetOverround()
	if overround <= 0 {
		// One-sided or malformed quote
		return false
	}
	return overround <= b.MaxOverround
}

// ApplyKellyCriterion calculates stake based on the Kelly criterion
func (b *BaseStrategy) ApplyKellyCriterion(probability float64, price float64, bankroll float64) float64 {
	if probability <= 0 || price <= 1 || bankroll <= 0 {
		return 0
	}
	p := probability
	q := 1.0 - p
	profit := price - 1.0
	kelly := (profit*p - q) / profit
	if kelly <= 0 {
		return 0
	}
	fraction := b.KellyFraction
	if fraction <= 0 {
		fraction = 0.5
	}
	return bankroll * kelly * fraction
}

// CalculateExpectedValue calculates expected value for a position
func (b *BaseStrategy) CalculateExpectedValue(probability float64, price float64, stake float64) float64 {
	if probability <= 0 || price <= 1 || stake <= 0 {
		return 0
	}
	winProfit := (price - 1.0) * stake
	loss := stake
	return probability*winProfit - (1.0-probability)*loss
}

// ValidateTemporalSafety ensures no line snapshot is from the future
func (b *BaseStrategy) ValidateTemporalSafety(currentTime time.Time, lines []*models.PropLine) error {
	for _, line := range lines {
		if line.Time.After(currentTime) {
			return fmt.Errorf("temporal safety violation: line timestamp %s after %s", line.Time, currentTime)
		}
	}
	return nil
}

// NormalizeProbability ensures probability in [0,1]
func (b *BaseStrategy) NormalizeProbability(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
