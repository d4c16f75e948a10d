package service

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/yourusername/prop-insight/internal/datasource"
)

// DataValidator validates stat record and game data before persistence
type DataValidator struct {
	logger *log.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *log.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateStatRecord validates a fetched stat record for required fields and constraints
func (v *DataValidator) ValidateStatRecord(record *datasource.StatRecordData) []string {
	var errors []string

	// Check required fields
	if record.AthleteRef == "" {
		errors = append(errors, "athlete_ref is required")
	}

	if record.AthleteName == "" {
		errors = append(errors, "athlete_name is required")
	}

	if record.GameTime.IsZero() {
		errors = append(errors, "game_time is required")
	}

	if len(record.StatFields) == 0 {
		errors = append(errors, "stat_fields must not be empty")
	}

	if !v.IsValidSeason(record.Season) {
		errors = append(errors, fmt.Sprintf("season is not a plausible year, got %q", record.Season))
	}

	// Check game time is not in the future or implausibly old
	now := time.Now()
	if !record.GameTime.IsZero() && record.GameTime.After(now.Add(24*time.Hour)) {
		errors = append(errors, fmt.Sprintf("game_time is in the future by %v", record.GameTime.Sub(now)))
	}

	if !record.GameTime.IsZero() && record.GameTime.Before(now.Add(-5*365*24*time.Hour)) {
		errors = append(errors, fmt.Sprintf("game_time is more than 5 years old"))
	}

	return errors
}

// CoerceStatFields converts raw stat values to float64, dropping fields that
// cannot be represented numerically. Returns the coerced map and one warning
// per dropped field.
func (v *DataValidator) CoerceStatFields(fields map[string]interface{}) (map[string]float64, []string) {
	coerced := make(map[string]float64, len(fields))
	var warnings []string

	for key, raw := range fields {
		value, ok := coerceNumeric(raw)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("field %q is not numeric (%T), dropped", key, raw))
			continue
		}

		if value < 0 {
			warnings = append(warnings, fmt.Sprintf("field %q is negative (%v), dropped", key, value))
			continue
		}

		coerced[key] = value
	}

	return coerced, warnings
}

func coerceNumeric(raw interface{}) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ValidateGame validates schedule data for required fields and constraints
func (v *DataValidator) ValidateGame(game *datasource.GameData) []string {
	var errors []string

	// Check required fields
	if game.HomeTeam == "" {
		errors = append(errors, "home_team is required")
	}

	if game.AwayTeam == "" {
		errors = append(errors, "away_team is required")
	}

	if game.HomeTeam != "" && game.HomeTeam == game.AwayTeam {
		errors = append(errors, fmt.Sprintf("home and away team are both %s", game.HomeTeam))
	}

	if game.ScheduledStart.IsZero() {
		errors = append(errors, "scheduled_start is required")
	}

	if game.Status != "" && !v.IsValidGameStatus(game.Status) {
		errors = append(errors, fmt.Sprintf("unknown game status %q", game.Status))
	}

	return errors
}

// IsValidSeason checks if the season label parses to a plausible year
func (v *DataValidator) IsValidSeason(season string) bool {
	year, err := strconv.Atoi(season)
	if err != nil {
		return false
	}
	return year >= 1990 && year <= time.Now().Year()+1
}

// IsValidGameStatus checks if status is one the schedule model accepts
func (v *DataValidator) IsValidGameStatus(status string) bool {
	validStatuses := map[string]bool{
		"scheduled": true,
		"live":      true,
		"final":     true,
		"postponed": true,
		"cancelled": true,
	}

	return validStatuses[status]
}

// IsValidTeamCode checks if team code is in expected format
func (v *DataValidator) IsValidTeamCode(team string) bool {
	// Simple validation: non-empty and reasonable length
	return len(team) > 0 && len(team) < 50
}
