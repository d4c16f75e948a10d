package props

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Aggregator turns an athlete's raw game history into a HistoricalSummary.
// Records must already be sorted descending by game date before calling: the
// recent-form bucket is defined by input order and the aggregator does not
// re-sort.
type Aggregator struct {
	registry *Registry
	resolver ContextResolver
	params   *Params
	logger   *logrus.Logger
}

// NewAggregator creates an aggregator over the given market registry. A nil
// resolver falls back to the pass-through resolver, a nil params to the
// defaults.
func NewAggregator(registry *Registry, resolver ContextResolver, params *Params, logger *logrus.Logger) *Aggregator {
	if registry == nil {
		registry = NewRegistry(params)
	}
	if resolver == nil {
		resolver = NewStaticContextResolver()
	}
	if params == nil {
		params = DefaultParams()
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Aggregator{
		registry: registry,
		resolver: resolver,
		params:   params,
		logger:   logger,
	}
}

// Aggregate extracts the market value from every eligible record and computes
// the per-bucket statistics. Records that cannot yield a value are excluded,
// never coerced to zero. An empty result set yields a zero-filled summary so
// callers can render a no-data state without special-casing errors. The only
// returned error is an unsupported market key.
func (a *Aggregator) Aggregate(records []RawGameStat, marketKey string, opponentFilter string) (*HistoricalSummary, error) {
	if !a.registry.Supports(marketKey) {
		return nil, NewUnsupportedMarketError(marketKey)
	}

	summary := &HistoricalSummary{MarketKey: marketKey}

	var (
		seasonValues   []float64
		recentValues   []float64
		homeValues     []float64
		awayValues     []float64
		opponentValues []float64
	)

	for _, record := range records {
		value, err := a.registry.Extract(marketKey, record.StatFields)
		if err != nil {
			// Only ErrValueUnavailable can reach here; the market key
			// was checked above.
			continue
		}

		opponent, isHome := record.Opponent, record.IsHome
		if opponent == "" || isHome == nil {
			resolvedOpponent, resolvedHome := a.resolver.Resolve(record)
			if opponent == "" {
				opponent = resolvedOpponent
			}
			if isHome == nil {
				isHome = resolvedHome
			}
		}

		seasonValues = append(seasonValues, value)

		if len(recentValues) < a.params.RecentFormWindow {
			recentValues = append(recentValues, value)
			summary.RecentGames = append(summary.RecentGames, RecentGame{
				Date:     record.GameDate,
				Opponent: opponent,
				IsHome:   isHome,
				Value:    value,
			})
		}

		if isHome == nil {
			a.logger.WithFields(logrus.Fields{
				"athlete_id": record.AthleteID,
				"game_id":    record.GameID,
				"market":     marketKey,
			}).Debug("Ambiguous home/away context, defaulting to away")
			awayValues = append(awayValues, value)
		} else if *isHome {
			homeValues = append(homeValues, value)
		} else {
			awayValues = append(awayValues, value)
		}

		if opponentFilter != "" && TeamMatches(opponent, opponentFilter) {
			opponentValues = append(opponentValues, value)
		}
	}

	summary.SampleSize = len(seasonValues)
	summary.SeasonAverage, summary.Dispersion = meanStd(seasonValues)
	summary.SeasonTotal = sum(seasonValues)
	summary.RecentFormAverage = mean(recentValues)
	summary.RecentFormSampleSize = len(recentValues)
	summary.HomeAverage = mean(homeValues)
	summary.HomeSampleSize = len(homeValues)
	summary.AwayAverage = mean(awayValues)
	summary.AwaySampleSize = len(awayValues)
	summary.HomeMinusAway = summary.HomeAverage - summary.AwayAverage
	summary.OpponentAverage = mean(opponentValues)
	summary.OpponentSampleSize = len(opponentValues)

	return summary, nil
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// meanStd returns the mean and population standard deviation. Population, not
// sample: the probability model treats the full season bucket as the
// distribution itself.
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	avg := mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - avg
		variance += diff * diff
	}
	variance /= float64(len(values))
	return avg, math.Sqrt(variance)
}
