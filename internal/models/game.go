package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Game represents a scheduled matchup in the system
type Game struct {
	ID             uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	ExternalRef    string          `db:"external_ref" json:"external_ref"`
	Season         string          `db:"season" json:"season" validate:"required"`
	ScheduledStart time.Time       `db:"scheduled_start" json:"scheduled_start" validate:"required"`
	ActualStart    *time.Time      `db:"actual_start" json:"actual_start"`
	HomeTeam       string          `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam       string          `db:"away_team" json:"away_team" validate:"required"`
	Venue          string          `db:"venue" json:"venue"`
	Conditions     json.RawMessage `db:"conditions" json:"conditions"`
	Status         string          `db:"status" json:"status" validate:"oneof=scheduled live final postponed cancelled"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// IsUpcoming checks if the game hasn't started yet
func (g *Game) IsUpcoming() bool {
	return g.ActualStart == nil && g.Status == "scheduled"
}

// IsFinal checks if the game has completed
func (g *Game) IsFinal() bool {
	return g.Status == "final" && g.ActualStart != nil
}

// TimeToStart returns the duration until first pitch
func (g *Game) TimeToStart() time.Duration {
	return time.Until(g.ScheduledStart)
}

// SideFor reports whether team plays at home in this game and who it faces.
// The second return is the opponent, the third is false when team is not
// involved in the game at all.
func (g *Game) SideFor(team string) (bool, string, bool) {
	switch team {
	case g.HomeTeam:
		return true, g.AwayTeam, true
	case g.AwayTeam:
		return false, g.HomeTeam, true
	}
	return false, "", false
}
