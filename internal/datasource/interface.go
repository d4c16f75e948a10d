package datasource

import (
	"context"
	"errors"
	"time"
)

// DataSource defines the interface for fetching box scores from external providers
type DataSource interface {
	// FetchGameStats retrieves per-athlete stat lines for games in the date range
	FetchGameStats(ctx context.Context, startDate, endDate time.Time) ([]StatRecordData, error)

	// FetchAthleteGameLog retrieves recent stat lines for a single athlete
	FetchAthleteGameLog(ctx context.Context, athleteRef string, limit int) ([]StatRecordData, error)

	// FetchSchedule retrieves games scheduled in the date range
	FetchSchedule(ctx context.Context, startDate, endDate time.Time) ([]GameData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// StatRecordData represents a normalized stat line from any data source.
// StatFields carries the provider's values untouched; numeric coercion
// happens at the validation boundary.
type StatRecordData struct {
	SourceID    string                 `json:"source_id"`    // Provider's unique record ID
	AthleteRef  string                 `json:"athlete_ref"`  // Provider's athlete ID
	AthleteName string                 `json:"athlete_name"` // Display name as reported
	Team        string                 `json:"team"`         // Athlete's team
	Opponent    string                 `json:"opponent"`     // Opposing team
	GameRef     string                 `json:"game_ref"`     // Provider's game ID
	GameTime    time.Time              `json:"game_time"`    // Game start UTC
	Season      string                 `json:"season"`       // Season label (e.g., "2024")
	IsHome      *bool                  `json:"is_home"`      // Home/away if reported
	StatFields  map[string]interface{} `json:"stat_fields"`  // Raw stat name -> value
	FetchedAt   time.Time              `json:"fetched_at"`   // When data was fetched
}

// GameData represents a normalized scheduled game from any data source
type GameData struct {
	SourceID       string    `json:"source_id"`       // Provider's unique game ID
	Season         string    `json:"season"`          // Season label
	ScheduledStart time.Time `json:"scheduled_start"` // Start time UTC
	HomeTeam       string    `json:"home_team"`       // Home team name
	AwayTeam       string    `json:"away_team"`       // Away team name
	Venue          string    `json:"venue"`           // Ballpark name
	Status         string    `json:"status"`          // scheduled, live, final, postponed
	FetchedAt      time.Time `json:"fetched_at"`      // When data was fetched
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeSourcePaused         = "source_paused"
)

// Error sentinels
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

const dataSourceDisabledMsg = "data source disabled"

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
