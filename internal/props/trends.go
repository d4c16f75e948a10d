package props

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Streak directions
const (
	DirectionOver  = "over"
	DirectionUnder = "under"
)

var trendDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Detector finds current over/under streaks across athlete/market groups
type Detector struct {
	params *Params
	logger *logrus.Logger
}

// NewDetector creates a trend detector. A nil params uses the defaults.
func NewDetector(params *Params, logger *logrus.Logger) *Detector {
	if params == nil {
		params = DefaultParams()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Detector{params: params, logger: logger}
}

type datedOutcome struct {
	GradedOutcome
	date time.Time
}

// DetectTrends groups graded outcomes by athlete and market, finds each
// group's current consecutive-result streak and ranks the qualifying groups.
// Records with an unparseable date or an unknown result are dropped
// individually; they never abort their group.
func (d *Detector) DetectTrends(results []GradedOutcome) []TrendEntry {
	groups := make(map[string][]datedOutcome)
	var keys []string

	for _, result := range results {
		if result.Result != DirectionOver && result.Result != DirectionUnder {
			d.logger.WithFields(logrus.Fields{
				"athlete": result.AthleteName,
				"market":  result.MarketKey,
				"result":  result.Result,
			}).Debug("Dropping outcome with unknown result")
			continue
		}

		date, err := parseTrendDate(result.GameDate)
		if err != nil {
			d.logger.WithFields(logrus.Fields{
				"athlete":   result.AthleteName,
				"market":    result.MarketKey,
				"game_date": result.GameDate,
			}).Debug("Dropping outcome with unparseable game date")
			continue
		}

		key := result.AthleteName + "\x00" + result.MarketKey
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], datedOutcome{GradedOutcome: result, date: date})
	}

	// Map iteration order is random; walk groups in first-seen order so the
	// stable ranking below is deterministic.
	var entries []TrendEntry
	for _, key := range keys {
		group := groups[key]
		if len(group) < d.params.MinGroupGames {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].date.After(group[j].date)
		})

		streak := currentStreak(group)
		if streak < d.params.MinStreakLength {
			continue
		}

		latest := group[0]
		entries = append(entries, TrendEntry{
			AthleteName:          latest.AthleteName,
			Team:                 latest.Team,
			MarketKey:            latest.MarketKey,
			StreakDirection:      latest.Result,
			StreakLength:         streak,
			Confidence:           d.streakConfidence(streak),
			LastLine:             latest.Line,
			Sportsbook:           latest.Sportsbook,
			LastGameDate:         latest.date,
			TotalGamesConsidered: len(group),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].StreakLength != entries[j].StreakLength {
			return entries[i].StreakLength > entries[j].StreakLength
		}
		return entries[i].Confidence > entries[j].Confidence
	})

	return entries
}

// currentStreak counts consecutive results matching the most recent one
func currentStreak(group []datedOutcome) int {
	if len(group) == 0 {
		return 0
	}
	direction := group[0].Result
	streak := 0
	for _, outcome := range group {
		if outcome.Result != direction {
			break
		}
		streak++
	}
	return streak
}

// streakConfidence derives a capped confidence score from streak length alone
func (d *Detector) streakConfidence(streak int) int {
	raw := d.params.StreakBase + float64(streak)*d.params.StreakStep
	return int(math.Round(math.Min(raw, d.params.StreakConfidenceCap)))
}

func parseTrendDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range trendDateLayouts {
		date, err := time.Parse(layout, value)
		if err == nil {
			return date, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
