package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GameStat represents one athlete's box-score line for a single game
type GameStat struct {
	Time       time.Time       `db:"time" json:"time" validate:"required"`
	AthleteID  uuid.UUID       `db:"athlete_id" json:"athlete_id" validate:"required,uuid4"`
	GameID     *uuid.UUID      `db:"game_id" json:"game_id"`
	Season     string          `db:"season" json:"season" validate:"required"`
	Opponent   string          `db:"opponent" json:"opponent"`
	IsHome     *bool           `db:"is_home" json:"is_home"`
	StatFields json.RawMessage `db:"stat_fields" json:"stat_fields"` // JSON object of stat name -> numeric value
	Source     string          `db:"source" json:"source"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// GameStatSummary represents daily aggregated stat coverage (from continuous aggregate)
type GameStatSummary struct {
	Day         time.Time `db:"day" json:"day"`
	AthleteID   uuid.UUID `db:"athlete_id" json:"athlete_id"`
	GamesPlayed int64     `db:"games_played" json:"games_played"`
	Sources     int64     `db:"sources" json:"sources"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
}

// ParseStatFields parses the stat fields JSON into a numeric map
func (gs *GameStat) ParseStatFields() (map[string]float64, error) {
	if gs.StatFields == nil {
		return nil, ErrInvalidStatFields
	}

	var fields map[string]float64
	if err := json.Unmarshal(gs.StatFields, &fields); err != nil {
		return nil, err
	}

	return fields, nil
}

// Errors
var (
	ErrGameStatNotFound  = NewValidationError("game_stat_not_found", "game stat not found")
	ErrInvalidStatFields = NewValidationError("invalid_stat_fields", "invalid stat fields data")
	ErrGameStatDuplicate = NewValidationError("game_stat_duplicate", "game stat already exists for this athlete and date")
)
