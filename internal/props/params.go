package props

import "fmt"

// Params holds the tunable constants of the prediction core. The fallback
// and blend coefficients are heuristic estimates carried over from manual
// tuning, not validated box-score reconstructions.
type Params struct {
	// Extraction fallback coefficients
	RBIPerHit            float64 `json:"rbi_per_hit"`
	TotalBasesPerHit     float64 `json:"total_bases_per_hit"`
	TotalBasesPerHomeRun float64 `json:"total_bases_per_home_run"`

	// Aggregation
	RecentFormWindow int `json:"recent_form_window"`

	// Blending
	RecentFormMinSample int     `json:"recent_form_min_sample"`
	RecentFormWeight    float64 `json:"recent_form_weight"`
	HomeAwayWeight      float64 `json:"home_away_weight"`
	OpponentMinSample   int     `json:"opponent_min_sample"`
	OpponentWeight      float64 `json:"opponent_weight"`

	// Confidence
	FullSampleSize float64 `json:"full_sample_size"`
	MinConsistency float64 `json:"min_consistency"`
	MinConfidence  float64 `json:"min_confidence"`
	MaxConfidence  float64 `json:"max_confidence"`

	// Probability
	DispersionEpsilon float64 `json:"dispersion_epsilon"`

	// Trend detection
	MinGroupGames       int     `json:"min_group_games"`
	MinStreakLength     int     `json:"min_streak_length"`
	StreakBase          float64 `json:"streak_base"`
	StreakStep          float64 `json:"streak_step"`
	StreakConfidenceCap float64 `json:"streak_confidence_cap"`
}

// DefaultParams returns the production defaults
func DefaultParams() *Params {
	return &Params{
		RBIPerHit:            0.35,
		TotalBasesPerHit:     1.4,
		TotalBasesPerHomeRun: 3.0,
		RecentFormWindow:     10,
		RecentFormMinSample:  5,
		RecentFormWeight:     0.4,
		HomeAwayWeight:       0.3,
		OpponentMinSample:    3,
		OpponentWeight:       0.2,
		FullSampleSize:       50,
		MinConsistency:       0.3,
		MinConfidence:        0.5,
		MaxConfidence:        0.9,
		DispersionEpsilon:    1e-6,
		MinGroupGames:        3,
		MinStreakLength:      3,
		StreakBase:           50,
		StreakStep:           8,
		StreakConfidenceCap:  95,
	}
}

// Validate validates core parameters
func (p *Params) Validate() error {
	if p.RecentFormWindow <= 0 {
		return fmt.Errorf("recent form window must be positive")
	}
	if p.RecentFormWeight < 0 || p.RecentFormWeight > 1 {
		return fmt.Errorf("recent form weight must be between 0 and 1")
	}
	if p.MinConfidence < 0 || p.MaxConfidence > 1 || p.MinConfidence > p.MaxConfidence {
		return fmt.Errorf("confidence bounds must satisfy 0 <= min <= max <= 1")
	}
	if p.DispersionEpsilon <= 0 {
		return fmt.Errorf("dispersion epsilon must be positive")
	}
	if p.MinStreakLength < 1 {
		return fmt.Errorf("minimum streak length must be at least 1")
	}
	if p.FullSampleSize <= 0 {
		return fmt.Errorf("full sample size must be positive")
	}
	return nil
}
