package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EvaluationResult represents a persisted historical evaluation run
type EvaluationResult struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	RunDate          time.Time       `db:"run_date" json:"run_date"`
	StartDate        time.Time       `db:"start_date" json:"start_date"`
	EndDate          time.Time       `db:"end_date" json:"end_date"`
	Markets          string          `db:"markets" json:"markets"`
	TotalPredictions int             `db:"total_predictions" json:"total_predictions"`
	GradedCount      int             `db:"graded_count" json:"graded_count"`
	HitRate          float64         `db:"hit_rate" json:"hit_rate"`
	BrierScore       float64         `db:"brier_score" json:"brier_score"`
	LogLoss          float64         `db:"log_loss" json:"log_loss"`
	CalibrationError float64         `db:"calibration_error" json:"calibration_error"`
	Method           string          `db:"method" json:"method"`
	CompositeScore   float64         `db:"composite_score" json:"composite_score"`
	Recommendation   string          `db:"recommendation" json:"recommendation"`
	FullResults      json.RawMessage `db:"full_results" json:"full_results"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}
