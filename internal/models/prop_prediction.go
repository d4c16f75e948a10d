package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PropPrediction represents a stored prediction for one athlete and market
type PropPrediction struct {
	ID               uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	AthleteID        uuid.UUID       `db:"athlete_id" json:"athlete_id" validate:"required,uuid4"`
	GameID           *uuid.UUID      `db:"game_id" json:"game_id"`
	Market           string          `db:"market" json:"market" validate:"required"`
	Line             float64         `db:"line" json:"line"`
	Predicted        float64         `db:"predicted" json:"predicted" validate:"gte=0"`
	Confidence       float64         `db:"confidence" json:"confidence" validate:"required,gte=0,lte=1"`
	OverProbability  float64         `db:"over_probability" json:"over_probability" validate:"gte=0,lte=1"`
	UnderProbability float64         `db:"under_probability" json:"under_probability" validate:"gte=0,lte=1"`
	SampleSize       int             `db:"sample_size" json:"sample_size" validate:"gte=0"`
	Inputs           json.RawMessage `db:"inputs" json:"inputs"`
	PredictedAt      time.Time       `db:"predicted_at" json:"predicted_at" validate:"required"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// GetInput retrieves an input value from the Inputs JSON
func (p *PropPrediction) GetInput(name string) (interface{}, error) {
	if p.Inputs == nil {
		return nil, nil
	}

	var inputs map[string]interface{}
	if err := json.Unmarshal(p.Inputs, &inputs); err != nil {
		return nil, err
	}

	return inputs[name], nil
}

// MeetsThreshold checks if the confidence meets the given threshold
func (p *PropPrediction) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}

// FavoredSide returns the side the model leans toward
func (p *PropPrediction) FavoredSide() string {
	if p.OverProbability >= p.UnderProbability {
		return "over"
	}
	return "under"
}
