package evaluation

import (
	"encoding/json"
	"math"
	"time"

	"github.com/yourusername/prop-insight/internal/models"
)

// Metrics represents calibration metrics for one evaluation run
type Metrics struct {
	TotalOutcomes          int                      `json:"total_outcomes"`
	ScoredCount            int                      `json:"scored_count"`
	CorrectCount           int                      `json:"correct_count"`
	PushCount              int                      `json:"push_count"`
	SkippedThinHistory     int                      `json:"skipped_thin_history"`
	SkippedUnsupported     int                      `json:"skipped_unsupported"`
	HitRate                float64                  `json:"hit_rate"`
	BrierScore             float64                  `json:"brier_score"`
	LogLoss                float64                  `json:"log_loss"`
	CalibrationError       float64                  `json:"calibration_error"`
	CalibrationBuckets     []CalibrationBucket      `json:"calibration_buckets"`
	AverageConfidence      float64                  `json:"average_confidence"`
	AverageOverProbability float64                  `json:"average_over_probability"`
	Sharpness              float64                  `json:"sharpness"`
	AccuracyVolatility     float64                  `json:"accuracy_volatility"`
	PerMarket              map[string]MarketMetrics `json:"per_market"`
	StartDate              time.Time                `json:"start_date"`
	EndDate                time.Time                `json:"end_date"`
	EvaluationDays         int                      `json:"evaluation_days"`
}

// MarketMetrics represents per-market calibration tallies
type MarketMetrics struct {
	Scored     int     `json:"scored"`
	Correct    int     `json:"correct"`
	HitRate    float64 `json:"hit_rate"`
	BrierScore float64 `json:"brier_score"`
}

// CalibrationBucket groups picks by forecast over-probability. ObservedRate is
// the share of those picks that actually settled over.
type CalibrationBucket struct {
	Low           float64 `json:"low"`
	High          float64 `json:"high"`
	Count         int     `json:"count"`
	PredictedMean float64 `json:"predicted_mean"`
	ObservedRate  float64 `json:"observed_rate"`
}

// probabilityFloor keeps log loss finite on degenerate forecasts
const probabilityFloor = 1e-12

// CalculateMetrics calculates calibration metrics from replay state
func CalculateMetrics(state *EvalState, cfg Config) Metrics {
	metrics := Metrics{
		StartDate:      cfg.StartDate,
		EndDate:        cfg.EndDate,
		EvaluationDays: int(cfg.EndDate.Sub(cfg.StartDate).Hours()/24) + 1,
		PerMarket:      map[string]MarketMetrics{},
	}

	if state == nil {
		return metrics
	}

	metrics.TotalOutcomes = state.TotalOutcomes
	metrics.ScoredCount = state.Scored
	metrics.CorrectCount = state.Correct
	metrics.PushCount = state.Pushes
	metrics.SkippedThinHistory = state.SkippedThinHistory
	metrics.SkippedUnsupported = state.SkippedUnsupported
	metrics.HitRate = state.HitRate()

	if len(state.Picks) == 0 {
		return metrics
	}

	metrics.BrierScore = brierScore(state.Picks)
	metrics.LogLoss = logLoss(state.Picks)
	metrics.CalibrationBuckets = buildCalibrationBuckets(state.Picks, cfg.CalibrationBuckets)
	metrics.CalibrationError = expectedCalibrationError(metrics.CalibrationBuckets, len(state.Picks))
	metrics.AverageConfidence = average(pickValues(state.Picks, func(p *ScoredPick) float64 { return p.Confidence }))
	overProbs := pickValues(state.Picks, func(p *ScoredPick) float64 { return p.OverProbability })
	metrics.AverageOverProbability = average(overProbs)
	metrics.Sharpness = stddev(overProbs)
	metrics.AccuracyVolatility = state.Curve.GetVolatility()
	metrics.PerMarket = calculatePerMarket(state.Picks)

	return metrics
}

// ToJSON exports metrics to JSON
func (m Metrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

// brierScore is the mean squared distance between the over forecast and the
// settled result, where over settles as 1 and under as 0
func brierScore(picks []*ScoredPick) float64 {
	if len(picks) == 0 {
		return 0
	}
	total := 0.0
	for _, pick := range picks {
		diff := pick.OverProbability - overIndicator(pick)
		total += diff * diff
	}
	return total / float64(len(picks))
}

func logLoss(picks []*ScoredPick) float64 {
	if len(picks) == 0 {
		return 0
	}
	total := 0.0
	for _, pick := range picks {
		p := clampProbability(pick.OverProbability)
		if overIndicator(pick) == 1 {
			total += -math.Log(p)
		} else {
			total += -math.Log(1 - p)
		}
	}
	return total / float64(len(picks))
}

func buildCalibrationBuckets(picks []*ScoredPick, bucketCount int) []CalibrationBucket {
	if bucketCount <= 0 {
		bucketCount = 10
	}

	buckets := make([]CalibrationBucket, bucketCount)
	width := 1.0 / float64(bucketCount)
	sums := make([]float64, bucketCount)
	overs := make([]int, bucketCount)
	for i := range buckets {
		buckets[i].Low = float64(i) * width
		buckets[i].High = float64(i+1) * width
	}

	for _, pick := range picks {
		idx := int(pick.OverProbability * float64(bucketCount))
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		if idx < 0 {
			idx = 0
		}
		buckets[idx].Count++
		sums[idx] += pick.OverProbability
		if overIndicator(pick) == 1 {
			overs[idx]++
		}
	}

	for i := range buckets {
		if buckets[i].Count == 0 {
			continue
		}
		buckets[i].PredictedMean = sums[i] / float64(buckets[i].Count)
		buckets[i].ObservedRate = float64(overs[i]) / float64(buckets[i].Count)
	}
	return buckets
}

// expectedCalibrationError is the count-weighted mean gap between forecast and
// observed frequency across buckets
func expectedCalibrationError(buckets []CalibrationBucket, total int) float64 {
	if total == 0 {
		return 0
	}
	ece := 0.0
	for _, bucket := range buckets {
		if bucket.Count == 0 {
			continue
		}
		weight := float64(bucket.Count) / float64(total)
		ece += weight * math.Abs(bucket.PredictedMean-bucket.ObservedRate)
	}
	return ece
}

func calculatePerMarket(picks []*ScoredPick) map[string]MarketMetrics {
	grouped := make(map[string][]*ScoredPick)
	for _, pick := range picks {
		grouped[pick.Market] = append(grouped[pick.Market], pick)
	}

	perMarket := make(map[string]MarketMetrics, len(grouped))
	for market, marketPicks := range grouped {
		correct := 0
		for _, pick := range marketPicks {
			if pick.Correct {
				correct++
			}
		}
		perMarket[market] = MarketMetrics{
			Scored:     len(marketPicks),
			Correct:    correct,
			HitRate:    float64(correct) / float64(len(marketPicks)),
			BrierScore: brierScore(marketPicks),
		}
	}
	return perMarket
}

func overIndicator(pick *ScoredPick) float64 {
	if pick.Result == models.OutcomeOver {
		return 1
	}
	return 0
}

func clampProbability(p float64) float64 {
	if p < probabilityFloor {
		return probabilityFloor
	}
	if p > 1-probabilityFloor {
		return 1 - probabilityFloor
	}
	return p
}

func pickValues(picks []*ScoredPick, value func(*ScoredPick) float64) []float64 {
	values := make([]float64, 0, len(picks))
	for _, pick := range picks {
		values = append(values, value(pick))
	}
	return values
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
