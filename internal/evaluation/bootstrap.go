package evaluation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

// BootstrapConfig configures resampled confidence intervals
type BootstrapConfig struct {
	Iterations int
	Seed       int64
	Levels     []float64
}

// Interval is a two-sided percentile confidence interval
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// BootstrapResult represents resampling outcomes for hit rate and the mean
// over-probability forecast
type BootstrapResult struct {
	Iterations               int                 `json:"iterations"`
	MeanHitRate              float64             `json:"mean_hit_rate"`
	StdHitRate               float64             `json:"std_hit_rate"`
	HitRateIntervals         map[string]Interval `json:"hit_rate_intervals"`
	MeanOverProbability      float64             `json:"mean_over_probability"`
	StdOverProbability       float64             `json:"std_over_probability"`
	OverProbabilityIntervals map[string]Interval `json:"over_probability_intervals"`
}

// RunBootstrap resamples scored picks with replacement to put confidence
// intervals on the run's hit rate and mean over-probability
func RunBootstrap(ctx context.Context, picks []*ScoredPick, cfg BootstrapConfig) (BootstrapResult, error) {
	_ = ctx
	if len(picks) == 0 {
		return BootstrapResult{}, nil
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = []float64{0.9, 0.95, 0.99}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	hitRates := make([]float64, cfg.Iterations)
	overProbs := make([]float64, cfg.Iterations)

	for i := 0; i < cfg.Iterations; i++ {
		correct := 0
		probSum := 0.0
		for range picks {
			pick := picks[rng.Intn(len(picks))]
			if pick.Correct {
				correct++
			}
			probSum += pick.OverProbability
		}
		hitRates[i] = float64(correct) / float64(len(picks))
		overProbs[i] = probSum / float64(len(picks))
	}

	meanHit, stdHit := meanStd(hitRates)
	meanProb, stdProb := meanStd(overProbs)

	return BootstrapResult{
		Iterations:               cfg.Iterations,
		MeanHitRate:              meanHit,
		StdHitRate:               stdHit,
		HitRateIntervals:         CalculateConfidenceIntervals(hitRates, cfg.Levels),
		MeanOverProbability:      meanProb,
		StdOverProbability:       stdProb,
		OverProbabilityIntervals: CalculateConfidenceIntervals(overProbs, cfg.Levels),
	}, nil
}

// CalculateConfidenceIntervals computes two-sided percentile intervals for a
// resampled distribution
func CalculateConfidenceIntervals(distribution []float64, levels []float64) map[string]Interval {
	results := make(map[string]Interval, len(levels))
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		results[formatPercent(level)] = Interval{
			Low:  percentile(distribution, p),
			High: percentile(distribution, 1.0-p),
		}
	}
	return results
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func formatPercent(level float64) string {
	return fmt.Sprintf("%.0f%%", level*100)
}
