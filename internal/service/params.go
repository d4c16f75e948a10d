package service

import (
	"github.com/yourusername/prop-insight/internal/config"
	"github.com/yourusername/prop-insight/internal/props"
)

// PredictionParams maps configured coefficients onto the prediction core
// parameters. Zero-valued config fields keep the production defaults, so a
// partial config section stays usable.
func PredictionParams(cfg *config.PredictionConfig) *props.Params {
	params := props.DefaultParams()
	if cfg == nil {
		return params
	}

	if cfg.RBIPerHit > 0 {
		params.RBIPerHit = cfg.RBIPerHit
	}
	if cfg.TotalBasesPerHit > 0 {
		params.TotalBasesPerHit = cfg.TotalBasesPerHit
	}
	if cfg.TotalBasesPerHomeRun > 0 {
		params.TotalBasesPerHomeRun = cfg.TotalBasesPerHomeRun
	}
	if cfg.RecentFormWindow > 0 {
		params.RecentFormWindow = cfg.RecentFormWindow
	}
	if cfg.RecentFormMinSample > 0 {
		params.RecentFormMinSample = cfg.RecentFormMinSample
	}
	if cfg.RecentFormWeight > 0 {
		params.RecentFormWeight = cfg.RecentFormWeight
	}
	if cfg.HomeAwayWeight > 0 {
		params.HomeAwayWeight = cfg.HomeAwayWeight
	}
	if cfg.OpponentMinSample > 0 {
		params.OpponentMinSample = cfg.OpponentMinSample
	}
	if cfg.OpponentWeight > 0 {
		params.OpponentWeight = cfg.OpponentWeight
	}
	if cfg.FullSampleSize > 0 {
		params.FullSampleSize = cfg.FullSampleSize
	}
	if cfg.MinConsistency > 0 {
		params.MinConsistency = cfg.MinConsistency
	}
	if cfg.MinConfidence > 0 {
		params.MinConfidence = cfg.MinConfidence
	}
	if cfg.MaxConfidence > 0 {
		params.MaxConfidence = cfg.MaxConfidence
	}
	if cfg.DispersionEpsilon > 0 {
		params.DispersionEpsilon = cfg.DispersionEpsilon
	}
	if cfg.MinGroupGames > 0 {
		params.MinGroupGames = cfg.MinGroupGames
	}
	if cfg.MinStreakLength > 0 {
		params.MinStreakLength = cfg.MinStreakLength
	}
	if cfg.StreakBase > 0 {
		params.StreakBase = cfg.StreakBase
	}
	if cfg.StreakStep > 0 {
		params.StreakStep = cfg.StreakStep
	}
	if cfg.StreakConfidenceCap > 0 {
		params.StreakConfidenceCap = cfg.StreakConfidenceCap
	}

	return params
}
