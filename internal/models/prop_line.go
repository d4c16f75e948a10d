package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropLine represents a point-in-time snapshot of a posted player prop line
type PropLine struct {
	Time       time.Time       `db:"time" json:"time" validate:"required"`
	AthleteID  uuid.UUID       `db:"athlete_id" json:"athlete_id" validate:"required,uuid4"`
	Market     string          `db:"market" json:"market" validate:"required"`
	Line       float64         `db:"line" json:"line"`
	OverPrice  decimal.Decimal `db:"over_price" json:"over_price"`
	UnderPrice decimal.Decimal `db:"under_price" json:"under_price"`
	Book       string          `db:"book" json:"book"`
	GameID     *uuid.UUID      `db:"game_id" json:"game_id"`
}

// GetOverImplied returns the implied probability of the over price
func (pl *PropLine) GetOverImplied() float64 {
	return impliedProbability(pl.OverPrice)
}

// GetUnderImplied returns the implied probability of the under price
func (pl *PropLine) GetUnderImplied() float64 {
	return impliedProbability(pl.UnderPrice)
}

// GetOverround returns the book margin baked into the two prices
func (pl *PropLine) GetOverround() float64 {
	over := pl.GetOverImplied()
	under := pl.GetUnderImplied()
	if over == 0 || under == 0 {
		return 0
	}
	return over + under - 1.0
}

// GetFairOverProbability returns the over probability with the margin removed
func (pl *PropLine) GetFairOverProbability() float64 {
	over := pl.GetOverImplied()
	under := pl.GetUnderImplied()
	total := over + under
	if total == 0 {
		return 0
	}
	return over / total
}

func impliedProbability(price decimal.Decimal) float64 {
	if price.LessThanOrEqual(decimal.NewFromInt(1)) {
		return 0
	}
	return decimal.NewFromInt(1).Div(price).InexactFloat64()
}
