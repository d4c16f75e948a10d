package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictZeroSampleFallback(t *testing.T) {
	blender := NewBlender(nil)

	prediction := blender.Predict(&HistoricalSummary{}, 1.5, nil)

	assert.Zero(t, prediction.PredictedValue)
	assert.Equal(t, 0.5, prediction.Confidence)
	assert.Equal(t, 0.5, prediction.OverProbability)
	assert.Equal(t, 0.5, prediction.UnderProbability)
	assert.NotEmpty(t, prediction.ContributingFactors)

	// Nil summaries take the same path.
	prediction = blender.Predict(nil, 1.5, nil)
	assert.Equal(t, 0.5, prediction.OverProbability)
}

func TestPredictSeasonBaselineOnly(t *testing.T) {
	blender := NewBlender(nil)

	summary := &HistoricalSummary{
		SampleSize:           20,
		SeasonAverage:        1.2,
		RecentFormAverage:    2.0,
		RecentFormSampleSize: 4,
		Dispersion:           0.8,
	}

	prediction := blender.Predict(summary, 1.5, nil)

	// Recent form sample below the minimum leaves the baseline untouched.
	assert.InDelta(t, 1.2, prediction.PredictedValue, 1e-9)
	assert.Len(t, prediction.ContributingFactors, 1)
}

func TestPredictRecentFormReweight(t *testing.T) {
	blender := NewBlender(nil)

	summary := &HistoricalSummary{
		SampleSize:           30,
		SeasonAverage:        1.0,
		RecentFormAverage:    2.0,
		RecentFormSampleSize: 10,
		Dispersion:           0.5,
	}

	prediction := blender.Predict(summary, 1.5, nil)

	assert.InDelta(t, 1.0*0.6+2.0*0.4, prediction.PredictedValue, 1e-9)
	assert.Len(t, prediction.ContributingFactors, 2)
}

func TestPredictHomeAwayAdjustment(t *testing.T) {
	blender := NewBlender(nil)

	summary := &HistoricalSummary{
		SampleSize:    30,
		SeasonAverage: 1.0,
		HomeAverage:   1.5,
		AwayAverage:   0.6,
		Dispersion:    0.5,
	}

	tests := []struct {
		name      string
		isHome    bool
		expected  float64
	}{
		{"Home nudge", true, 1.0 + (1.5-1.0)*0.3},
		{"Away nudge", false, 1.0 + (0.6-1.0)*0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &GameContext{IsHome: boolPtr(tt.isHome)}
			prediction := blender.Predict(summary, 1.0, ctx)
			assert.InDelta(t, tt.expected, prediction.PredictedValue, 1e-9)
		})
	}

	// Unknown side applies no nudge.
	prediction := blender.Predict(summary, 1.0, nil)
	assert.InDelta(t, 1.0, prediction.PredictedValue, 1e-9)
}

func TestPredictOpponentAdjustment(t *testing.T) {
	blender := NewBlender(nil)

	summary := &HistoricalSummary{
		SampleSize:         30,
		SeasonAverage:      1.0,
		OpponentAverage:    2.0,
		OpponentSampleSize: 4,
		Dispersion:         0.5,
	}

	prediction := blender.Predict(summary, 1.0, nil)
	assert.InDelta(t, 1.0+(2.0-1.0)*0.2, prediction.PredictedValue, 1e-9)

	// Below the meeting minimum the nudge is skipped.
	summary.OpponentSampleSize = 2
	prediction = blender.Predict(summary, 1.0, nil)
	assert.InDelta(t, 1.0, prediction.PredictedValue, 1e-9)

	// An explicit context count overrides the summary's.
	games := 3
	prediction = blender.Predict(summary, 1.0, &GameContext{OpponentGamesPlayed: &games})
	assert.InDelta(t, 1.2, prediction.PredictedValue, 1e-9)
}

func TestPredictClampsNegativePrediction(t *testing.T) {
	blender := NewBlender(nil)

	summary := &HistoricalSummary{
		SampleSize:    10,
		SeasonAverage: 0.1,
		AwayAverage:   0.0,
		HomeAverage:   0.2,
		OpponentAverage:    0.0,
		OpponentSampleSize: 5,
		Dispersion:    0.3,
	}
	summary.AwayAverage = -2.0 // degenerate input, the clamp still holds

	prediction := blender.Predict(summary, 0.5, &GameContext{IsHome: boolPtr(false)})
	assert.GreaterOrEqual(t, prediction.PredictedValue, 0.0)
}

func TestPredictConfidence(t *testing.T) {
	blender := NewBlender(nil)

	tests := []struct {
		name       string
		sampleSize int
		average    float64
		dispersion float64
		expected   float64
	}{
		{"Large consistent sample hits the cap", 50, 2.0, 0.0, 0.9},
		{"Small sample floors at the minimum", 2, 1.0, 2.0, 0.5},
		{"Mid sample with zero dispersion", 12, 1.7, 0.0, 0.62},
		{"Zero average forces floor consistency", 10, 0.0, 0.0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := &HistoricalSummary{
				SampleSize:    tt.sampleSize,
				SeasonAverage: tt.average,
				Dispersion:    tt.dispersion,
			}
			prediction := blender.Predict(summary, 1.0, nil)
			assert.InDelta(t, tt.expected, prediction.Confidence, 1e-9)
		})
	}
}

func TestPredictConfidenceBounds(t *testing.T) {
	blender := NewBlender(nil)

	for sample := 0; sample <= 120; sample += 7 {
		for _, dispersion := range []float64{0, 0.1, 1, 5, 50} {
			summary := &HistoricalSummary{
				SampleSize:    sample,
				SeasonAverage: 1.3,
				Dispersion:    dispersion,
			}
			prediction := blender.Predict(summary, 1.0, nil)
			assert.GreaterOrEqual(t, prediction.Confidence, 0.5)
			assert.LessOrEqual(t, prediction.Confidence, 0.9)
		}
	}
}

func TestPredictProbabilitiesSumToOne(t *testing.T) {
	blender := NewBlender(nil)

	summaries := []*HistoricalSummary{
		{},
		{SampleSize: 5, SeasonAverage: 1.0, Dispersion: 0.5},
		{SampleSize: 40, SeasonAverage: 2.4, Dispersion: 1.3},
		{SampleSize: 12, SeasonAverage: 1.7, Dispersion: 0.0},
	}

	for _, summary := range summaries {
		for _, line := range []float64{0.5, 1.5, 2.5, 8.5} {
			prediction := blender.Predict(summary, line, nil)
			assert.InDelta(t, 1.0, prediction.OverProbability+prediction.UnderProbability, 1e-12)
			assert.GreaterOrEqual(t, prediction.OverProbability, 0.0)
			assert.LessOrEqual(t, prediction.OverProbability, 1.0)
		}
	}
}

func TestPredictOverProbabilityDirection(t *testing.T) {
	blender := NewBlender(nil)

	summary := &HistoricalSummary{SampleSize: 25, SeasonAverage: 2.0, Dispersion: 1.0}

	over := blender.Predict(summary, 1.0, nil)
	under := blender.Predict(summary, 3.0, nil)
	even := blender.Predict(summary, 2.0, nil)

	assert.Greater(t, over.OverProbability, 0.5)
	assert.Less(t, under.OverProbability, 0.5)
	assert.InDelta(t, 0.5, even.OverProbability, 1e-6)
}

// Increasing dispersion with the prediction and line fixed must flatten the
// distribution, moving the over probability toward one half.
func TestPredictDispersionMonotonicity(t *testing.T) {
	blender := NewBlender(nil)

	line := 3.0
	previous := -1.0
	for _, dispersion := range []float64{0.5, 1.0, 2.0, 4.0, 8.0} {
		summary := &HistoricalSummary{SampleSize: 30, SeasonAverage: 2.0, Dispersion: dispersion}
		prediction := blender.Predict(summary, line, nil)

		require.Less(t, prediction.OverProbability, 0.5)
		if previous >= 0 {
			assert.Greater(t, prediction.OverProbability, previous,
				"dispersion %.1f should move the probability toward 0.5", dispersion)
		}
		previous = prediction.OverProbability
	}
}

func TestPredictZeroDispersionEpsilon(t *testing.T) {
	blender := NewBlender(nil)

	summary := &HistoricalSummary{SampleSize: 12, SeasonAverage: 1.7, Dispersion: 0.0}

	// Line below the prediction saturates toward certainty without ever
	// reaching past it, line above toward zero.
	below := blender.Predict(summary, 1.5, nil)
	above := blender.Predict(summary, 2.0, nil)

	assert.Greater(t, below.OverProbability, 0.999)
	assert.LessOrEqual(t, below.OverProbability, 1.0)
	assert.Less(t, above.OverProbability, 0.001)
	assert.GreaterOrEqual(t, above.OverProbability, 0.0)
}
