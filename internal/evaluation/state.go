package evaluation

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/prop-insight/internal/models"
)

// ScoredPick is one replayed prediction graded against its settled outcome
type ScoredPick struct {
	OutcomeID       uuid.UUID            `json:"outcome_id"`
	AthleteID       uuid.UUID            `json:"athlete_id"`
	Market          string               `json:"market"`
	GameDate        time.Time            `json:"game_date"`
	Line            float64              `json:"line"`
	Actual          float64              `json:"actual"`
	PredictedValue  float64              `json:"predicted_value"`
	OverProbability float64              `json:"over_probability"`
	Confidence      float64              `json:"confidence"`
	SampleSize      int                  `json:"sample_size"`
	PredictedSide   string               `json:"predicted_side"`
	Result          models.OutcomeResult `json:"result"`
	Correct         bool                 `json:"correct"`
}

// EvalState tracks running tallies during a chronological replay. Pushes and
// skips are counted but never appended to Picks, so every pick carries a
// definite over or under result.
type EvalState struct {
	TotalOutcomes      int
	Scored             int
	Correct            int
	Pushes             int
	SkippedThinHistory int
	SkippedUnsupported int
	Picks              []*ScoredPick
	Curve              AccuracyCurve
	DailyScored        map[time.Time]int
	DailyCorrect       map[time.Time]int

	rollingWindow int
	recent        []bool
}

// NewEvalState initializes replay state
func NewEvalState(rollingWindow int) *EvalState {
	if rollingWindow <= 0 {
		rollingWindow = defaultRollingWindow
	}
	return &EvalState{
		Picks:         []*ScoredPick{},
		Curve:         AccuracyCurve{},
		DailyScored:   make(map[time.Time]int),
		DailyCorrect:  make(map[time.Time]int),
		rollingWindow: rollingWindow,
	}
}

// RecordPick folds a scored pick into the tallies and extends the curve
func (s *EvalState) RecordPick(pick *ScoredPick) {
	s.Picks = append(s.Picks, pick)
	s.Scored++
	if pick.Correct {
		s.Correct++
	}

	s.recent = append(s.recent, pick.Correct)
	if len(s.recent) > s.rollingWindow {
		s.recent = s.recent[1:]
	}

	day := time.Date(pick.GameDate.Year(), pick.GameDate.Month(), pick.GameDate.Day(), 0, 0, 0, 0, pick.GameDate.Location())
	s.DailyScored[day]++
	if pick.Correct {
		s.DailyCorrect[day]++
	}

	s.Curve = append(s.Curve, AccuracyPoint{
		Time:       pick.GameDate,
		Rolling:    hitShare(s.recent),
		Cumulative: s.HitRate(),
		Scored:     s.Scored,
	})
}

// RecordPush counts a settled push without scoring it
func (s *EvalState) RecordPush() {
	s.Pushes++
}

// HitRate returns the cumulative share of correct calls
func (s *EvalState) HitRate() float64 {
	if s.Scored == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Scored)
}

func hitShare(window []bool) float64 {
	if len(window) == 0 {
		return 0
	}
	hits := 0
	for _, correct := range window {
		if correct {
			hits++
		}
	}
	return float64(hits) / float64(len(window))
}
