package models

import (
	"time"
)

// MarketPerformance represents rolling grading results for one market
type MarketPerformance struct {
	Time             time.Time `db:"time" json:"time" validate:"required"`
	Market           string    `db:"market" json:"market" validate:"required"`
	TotalPredictions int       `db:"total_predictions" json:"total_predictions" validate:"gte=0"`
	CorrectCalls     int       `db:"correct_calls" json:"correct_calls" validate:"gte=0"`
	IncorrectCalls   int       `db:"incorrect_calls" json:"incorrect_calls" validate:"gte=0"`
	Pushes           int       `db:"pushes" json:"pushes" validate:"gte=0"`
	AvgConfidence    float64   `db:"avg_confidence" json:"avg_confidence"`
	BrierScore       *float64  `db:"brier_score" json:"brier_score"`
}

// GetHitRate calculates the share of non-push calls that cashed
func (mp *MarketPerformance) GetHitRate() float64 {
	decided := mp.CorrectCalls + mp.IncorrectCalls
	if decided == 0 {
		return 0
	}
	return (float64(mp.CorrectCalls) / float64(decided)) * 100
}

// GetPushRate calculates the share of graded calls that pushed
func (mp *MarketPerformance) GetPushRate() float64 {
	if mp.TotalPredictions == 0 {
		return 0
	}
	return (float64(mp.Pushes) / float64(mp.TotalPredictions)) * 100
}
