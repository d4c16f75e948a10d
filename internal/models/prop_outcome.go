package models

import (
	"time"

	"github.com/google/uuid"
)

// OutcomeResult represents how a graded line settled
type OutcomeResult string

const (
	OutcomeOver  OutcomeResult = "over"
	OutcomeUnder OutcomeResult = "under"
	OutcomePush  OutcomeResult = "push"
)

// GradeStatus represents the grading lifecycle of an outcome
type GradeStatus string

const (
	GradeStatusPending GradeStatus = "pending"
	GradeStatusGraded  GradeStatus = "graded"
	GradeStatusVoided  GradeStatus = "voided"
)

// PropOutcome represents the settled result of a prop line after the game
type PropOutcome struct {
	ID           uuid.UUID     `db:"id" json:"id" validate:"required,uuid4"`
	AthleteID    uuid.UUID     `db:"athlete_id" json:"athlete_id" validate:"required,uuid4"`
	PredictionID *uuid.UUID    `db:"prediction_id" json:"prediction_id"`
	Market       string        `db:"market" json:"market" validate:"required"`
	Line         float64       `db:"line" json:"line"`
	Book         string        `db:"book" json:"book"`
	GameDate     time.Time     `db:"game_date" json:"game_date" validate:"required"`
	Actual       *float64      `db:"actual" json:"actual"`
	Result       OutcomeResult `db:"result" json:"result" validate:"omitempty,oneof=over under push"`
	Status       GradeStatus   `db:"status" json:"status" validate:"required,oneof=pending graded voided"`
	GradedAt     *time.Time    `db:"graded_at" json:"graded_at"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// IsGraded checks if the outcome has been settled
func (po *PropOutcome) IsGraded() bool {
	return po.Status == GradeStatusGraded && po.GradedAt != nil
}

// IsPush checks if the actual value landed exactly on the line
func (po *PropOutcome) IsPush() bool {
	return po.Result == OutcomePush
}

// GetActual returns the settled stat value or 0 if not yet graded
func (po *PropOutcome) GetActual() float64 {
	if po.Actual == nil {
		return 0
	}
	return *po.Actual
}

// Correct reports whether a call on the given side would have cashed
func (po *PropOutcome) Correct(side string) bool {
	if !po.IsGraded() || po.IsPush() {
		return false
	}
	return string(po.Result) == side
}
