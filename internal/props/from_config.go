package props

import (
	"fmt"

	"github.com/yourusername/prop-insight/internal/config"
)

// FromConfig converts app config to core parameters
func FromConfig(cfg *config.PredictionConfig) (*Params, error) {
	if cfg == nil {
		return nil, fmt.Errorf("prediction config is required")
	}

	params := &Params{
		RBIPerHit:            cfg.RBIPerHit,
		TotalBasesPerHit:     cfg.TotalBasesPerHit,
		TotalBasesPerHomeRun: cfg.TotalBasesPerHomeRun,
		RecentFormWindow:     cfg.RecentFormWindow,
		RecentFormMinSample:  cfg.RecentFormMinSample,
		RecentFormWeight:     cfg.RecentFormWeight,
		HomeAwayWeight:       cfg.HomeAwayWeight,
		OpponentMinSample:    cfg.OpponentMinSample,
		OpponentWeight:       cfg.OpponentWeight,
		FullSampleSize:       cfg.FullSampleSize,
		MinConsistency:       cfg.MinConsistency,
		MinConfidence:        cfg.MinConfidence,
		MaxConfidence:        cfg.MaxConfidence,
		DispersionEpsilon:    cfg.DispersionEpsilon,
		MinGroupGames:        cfg.MinGroupGames,
		MinStreakLength:      cfg.MinStreakLength,
		StreakBase:           cfg.StreakBase,
		StreakStep:           cfg.StreakStep,
		StreakConfidenceCap:  cfg.StreakConfidenceCap,
	}

	return params, params.Validate()
}
