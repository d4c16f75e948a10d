package evaluation

import (
	"fmt"
	"time"

	"github.com/yourusername/prop-insight/internal/config"
)

// Config holds evaluation run parameters
type Config struct {
	StartDate           time.Time
	EndDate             time.Time
	Markets             []string
	MinGradedGames      int
	HistoryLookbackDays int
	BootstrapIterations int
	ConsistencyWindows  int
	CalibrationBuckets  int
	RollingWindow       int
	OutputPath          string
	ExportEnabled       bool
	PersistResults      bool
}

// FromConfig creates an evaluation config from the application config
func FromConfig(cfg *config.EvaluationConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("evaluation config is required")
	}

	startDate, err := time.Parse("2006-01-02", cfg.StartDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid start date: %w", err)
	}

	endDate, err := time.Parse("2006-01-02", cfg.EndDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid end date: %w", err)
	}

	evalCfg := Config{
		StartDate:           startDate,
		EndDate:             endDate,
		Markets:             append([]string{}, cfg.Markets...),
		MinGradedGames:      cfg.MinGradedGames,
		HistoryLookbackDays: defaultHistoryLookbackDays,
		BootstrapIterations: cfg.BootstrapIterations,
		ConsistencyWindows:  cfg.ConsistencyWindows,
		CalibrationBuckets:  cfg.CalibrationBuckets,
		RollingWindow:       defaultRollingWindow,
		OutputPath:          cfg.OutputPath,
		ExportEnabled:       cfg.ExportEnabled,
		PersistResults:      cfg.PersistResults,
	}

	return evalCfg, evalCfg.Validate()
}

const (
	defaultHistoryLookbackDays = 365
	defaultRollingWindow       = 20
)

// Validate checks evaluation configuration
func (c Config) Validate() error {
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if !c.StartDate.Before(c.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}
	if len(c.Markets) == 0 {
		return fmt.Errorf("at least one market is required")
	}
	if c.MinGradedGames < 0 {
		return fmt.Errorf("min graded games must be non-negative")
	}
	if c.HistoryLookbackDays <= 0 {
		return fmt.Errorf("history lookback must be positive")
	}
	if c.BootstrapIterations <= 0 {
		return fmt.Errorf("bootstrap iterations must be positive")
	}
	if c.ConsistencyWindows <= 0 {
		return fmt.Errorf("consistency windows must be positive")
	}
	if c.CalibrationBuckets <= 0 {
		return fmt.Errorf("calibration buckets must be positive")
	}
	return nil
}

// EvaluatesMarket reports whether the market is part of this run
func (c Config) EvaluatesMarket(market string) bool {
	for _, m := range c.Markets {
		if m == market {
			return true
		}
	}
	return false
}

// HistoryStart returns the earliest stat date loaded for summary rebuilds
func (c Config) HistoryStart() time.Time {
	return c.StartDate.AddDate(0, 0, -c.HistoryLookbackDays)
}
