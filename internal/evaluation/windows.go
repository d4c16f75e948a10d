package evaluation

import (
	"time"
)

// WindowConfig configures consecutive-window evaluation
type WindowConfig struct {
	Windows            int
	MinScoredPerWindow int
}

// Window represents one consecutive slice of the evaluation span
type Window struct {
	WindowID   int       `json:"window_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Scored     int       `json:"scored"`
	Correct    int       `json:"correct"`
	HitRate    float64   `json:"hit_rate"`
	BrierScore float64   `json:"brier_score"`
}

// WindowResult represents consecutive-window evaluation output
type WindowResult struct {
	Windows          []Window `json:"windows"`
	ConsistencyScore float64  `json:"consistency_score"`
	DriftScore       float64  `json:"drift_score"`
}

// EvaluateWindows splits the span into equal consecutive windows and scores
// each one from the already-replayed picks. Windows with too few picks are
// dropped rather than scored on noise.
func EvaluateWindows(picks []*ScoredPick, startDate, endDate time.Time, cfg WindowConfig) WindowResult {
	if cfg.Windows <= 0 {
		cfg.Windows = 4
	}
	if !startDate.Before(endDate) {
		return WindowResult{}
	}

	span := endDate.Sub(startDate)
	step := span / time.Duration(cfg.Windows)
	windows := []Window{}

	for i := 0; i < cfg.Windows; i++ {
		windowStart := startDate.Add(time.Duration(i) * step)
		windowEnd := windowStart.Add(step)
		if i == cfg.Windows-1 {
			windowEnd = endDate
		}

		window := scoreWindow(picks, i+1, windowStart, windowEnd, i == cfg.Windows-1)
		if cfg.MinScoredPerWindow > 0 && window.Scored < cfg.MinScoredPerWindow {
			continue
		}
		windows = append(windows, window)
	}

	return WindowResult{
		Windows:          windows,
		ConsistencyScore: CalculateConsistency(windows),
		DriftScore:       calculateDriftScore(windows),
	}
}

func scoreWindow(picks []*ScoredPick, id int, start, end time.Time, inclusiveEnd bool) Window {
	window := Window{WindowID: id, Start: start, End: end}

	var windowPicks []*ScoredPick
	for _, pick := range picks {
		if pick.GameDate.Before(start) {
			continue
		}
		if pick.GameDate.After(end) || (!inclusiveEnd && pick.GameDate.Equal(end)) {
			continue
		}
		windowPicks = append(windowPicks, pick)
		if pick.Correct {
			window.Correct++
		}
	}

	window.Scored = len(windowPicks)
	if window.Scored > 0 {
		window.HitRate = float64(window.Correct) / float64(window.Scored)
		window.BrierScore = brierScore(windowPicks)
	}
	return window
}

// CalculateConsistency calculates the share of windows beating a coin flip
func CalculateConsistency(windows []Window) float64 {
	if len(windows) == 0 {
		return 0
	}
	winning := 0
	for _, w := range windows {
		if w.HitRate > 0.5 {
			winning++
		}
	}
	return float64(winning) / float64(len(windows))
}

// calculateDriftScore compares early and late window hit rates. Positive drift
// means accuracy decayed over the span.
func calculateDriftScore(windows []Window) float64 {
	if len(windows) < 2 {
		return 0
	}
	half := len(windows) / 2
	earlyRate := averageHitRate(windows[:half])
	lateRate := averageHitRate(windows[half:])
	if earlyRate == 0 {
		return 0
	}
	return (earlyRate - lateRate) / earlyRate
}

func averageHitRate(windows []Window) float64 {
	if len(windows) == 0 {
		return 0
	}
	total := 0.0
	for _, w := range windows {
		total += w.HitRate
	}
	return total / float64(len(windows))
}
