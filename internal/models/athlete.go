package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Athlete represents a player tracked by the prediction engine
type Athlete struct {
	ID           uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	ExternalRef  string          `db:"external_ref" json:"external_ref"`
	FullName     string          `db:"full_name" json:"full_name" validate:"required"`
	Team         string          `db:"team" json:"team"`
	Position     string          `db:"position" json:"position"`
	JerseyNumber *int            `db:"jersey_number" json:"jersey_number"`
	Aliases      json.RawMessage `db:"aliases" json:"aliases"`
	Active       bool            `db:"active" json:"active"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// IsActive checks if the athlete is on an active roster
func (a *Athlete) IsActive() bool {
	return a.Active
}

// ParseAliases returns the alternate names recorded for the athlete
func (a *Athlete) ParseAliases() ([]string, error) {
	if a.Aliases == nil {
		return nil, nil
	}

	var aliases []string
	if err := json.Unmarshal(a.Aliases, &aliases); err != nil {
		return nil, err
	}

	return aliases, nil
}

// HasAlias checks whether name matches one of the recorded aliases, ignoring case
func (a *Athlete) HasAlias(name string) bool {
	aliases, err := a.ParseAliases()
	if err != nil {
		return false
	}
	for _, alias := range aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// Validate performs basic validation on the athlete
func (a *Athlete) Validate() error {
	if a.FullName == "" {
		return ErrAthleteNameRequired
	}
	return nil
}
