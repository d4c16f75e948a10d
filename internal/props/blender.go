package props

import (
	"fmt"
	"math"
)

// Blender combines a historical summary and game context into a predicted
// value, a confidence score, and an over/under probability for a given line
type Blender struct {
	params *Params
}

// NewBlender creates a blender. A nil params uses the defaults.
func NewBlender(params *Params) *Blender {
	if params == nil {
		params = DefaultParams()
	}
	return &Blender{params: params}
}

// Predict runs the weighted additive adjustment model. With no historical
// sample it returns the documented fallback: zero prediction, floor
// confidence and a 50/50 probability split.
func (b *Blender) Predict(summary *HistoricalSummary, line float64, ctx *GameContext) *Prediction {
	p := b.params

	if summary == nil || summary.SampleSize == 0 {
		return &Prediction{
			PredictedValue:      0,
			Confidence:          p.MinConfidence,
			OverProbability:     0.5,
			UnderProbability:    0.5,
			ContributingFactors: []string{"no historical sample, defaulting to an even split"},
		}
	}

	predicted := summary.SeasonAverage
	factors := []string{
		fmt.Sprintf("season baseline %.3f over %d games", summary.SeasonAverage, summary.SampleSize),
	}

	if summary.RecentFormSampleSize >= p.RecentFormMinSample {
		reweighted := predicted*(1-p.RecentFormWeight) + summary.RecentFormAverage*p.RecentFormWeight
		factors = append(factors, fmt.Sprintf(
			"recent form %.3f over last %d games shifted prediction by %+.3f",
			summary.RecentFormAverage, summary.RecentFormSampleSize, reweighted-predicted))
		predicted = reweighted
	}

	if ctx != nil && ctx.IsHome != nil {
		var adjustment float64
		var side string
		if *ctx.IsHome {
			adjustment = (summary.HomeAverage - summary.SeasonAverage) * p.HomeAwayWeight
			side = "home"
		} else {
			adjustment = (summary.AwayAverage - summary.SeasonAverage) * p.HomeAwayWeight
			side = "away"
		}
		predicted += adjustment
		factors = append(factors, fmt.Sprintf("%s split adjustment %+.3f", side, adjustment))
	}

	opponentSample := summary.OpponentSampleSize
	if ctx != nil && ctx.OpponentGamesPlayed != nil {
		opponentSample = *ctx.OpponentGamesPlayed
	}
	if opponentSample >= p.OpponentMinSample {
		adjustment := (summary.OpponentAverage - summary.SeasonAverage) * p.OpponentWeight
		predicted += adjustment
		factors = append(factors, fmt.Sprintf(
			"opponent history adjustment %+.3f over %d meetings", adjustment, opponentSample))
	}

	if predicted < 0 {
		predicted = 0
	}

	confidence := b.confidence(summary)
	over := b.overProbability(summary, predicted, line)

	return &Prediction{
		PredictedValue:      predicted,
		Confidence:          confidence,
		OverProbability:     over,
		UnderProbability:    1 - over,
		ContributingFactors: factors,
	}
}

// confidence averages a sample-size component and a consistency component,
// clamped to the configured band
func (b *Blender) confidence(summary *HistoricalSummary) float64 {
	p := b.params

	sampleSizeConfidence := math.Min(1, float64(summary.SampleSize)/p.FullSampleSize)

	consistencyConfidence := p.MinConsistency
	if summary.SeasonAverage != 0 {
		consistencyConfidence = math.Max(p.MinConsistency, 1-summary.Dispersion/summary.SeasonAverage)
	}

	return clamp(p.MinConfidence, p.MaxConfidence, (sampleSizeConfidence+consistencyConfidence)/2)
}

// overProbability models the per-game value as normal with mean predicted and
// standard deviation equal to the season dispersion. Zero dispersion gets an
// epsilon substitute so the distribution stays non-degenerate.
func (b *Blender) overProbability(summary *HistoricalSummary, predicted, line float64) float64 {
	sigma := summary.Dispersion
	if sigma <= 0 {
		sigma = b.params.DispersionEpsilon
	}

	z := (line - predicted) / sigma
	return 1 - NormalCDF(z)
}

func clamp(min, max, v float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
