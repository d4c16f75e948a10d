package props

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator() *Aggregator {
	return NewAggregator(NewRegistry(nil), nil, nil, nil)
}

// statRecord builds a record with a hits value, newest records first by
// convention of the callers below
func statRecord(date string, hits float64) RawGameStat {
	return RawGameStat{
		AthleteID:  "ath-1",
		GameDate:   date,
		Team:       "Yankees",
		StatFields: map[string]float64{"hits": hits},
	}
}

func TestAggregateSeasonAverage(t *testing.T) {
	agg := newTestAggregator()

	records := []RawGameStat{
		statRecord("2025-06-03", 1),
		statRecord("2025-06-02", 2),
		statRecord("2025-06-01", 0),
	}

	summary, err := agg.Aggregate(records, MarketHits, "")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.SampleSize)
	assert.InDelta(t, 1.0, summary.SeasonAverage, 1e-9)
	assert.InDelta(t, 3.0, summary.SeasonTotal, 1e-9)
	assert.InDelta(t, math.Sqrt(2.0/3.0), summary.Dispersion, 1e-9)
}

func TestAggregateFallbackDerivation(t *testing.T) {
	agg := newTestAggregator()

	var records []RawGameStat
	for i := 0; i < 12; i++ {
		records = append(records, RawGameStat{
			AthleteID:  "ath-1",
			GameDate:   fmt.Sprintf("2025-06-%02d", 12-i),
			StatFields: map[string]float64{"hits": 2, "home_runs": 1},
		})
	}

	summary, err := agg.Aggregate(records, MarketRBIs, "")
	require.NoError(t, err)

	assert.Equal(t, 12, summary.SampleSize)
	assert.InDelta(t, 1.7, summary.SeasonAverage, 1e-9)
	assert.InDelta(t, 0.0, summary.Dispersion, 1e-9)
	assert.Equal(t, 10, summary.RecentFormSampleSize)
	assert.InDelta(t, 1.7, summary.RecentFormAverage, 1e-9)
}

func TestAggregateEmptyInputYieldsZeroSummary(t *testing.T) {
	agg := newTestAggregator()

	summary, err := agg.Aggregate(nil, MarketHits, "")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.SampleSize)
	assert.Zero(t, summary.SeasonAverage)
	assert.Zero(t, summary.SeasonTotal)
	assert.Zero(t, summary.RecentFormAverage)
	assert.Zero(t, summary.HomeAverage)
	assert.Zero(t, summary.AwayAverage)
	assert.Zero(t, summary.OpponentAverage)
	assert.Zero(t, summary.Dispersion)
	assert.Empty(t, summary.RecentGames)
}

func TestAggregateExcludesUnavailableRecords(t *testing.T) {
	agg := newTestAggregator()

	records := []RawGameStat{
		statRecord("2025-06-03", 2),
		{AthleteID: "ath-1", GameDate: "2025-06-02", StatFields: map[string]float64{"walks": 1}},
		statRecord("2025-06-01", 4),
	}

	summary, err := agg.Aggregate(records, MarketHits, "")
	require.NoError(t, err)

	// The middle record has no usable hits value and is excluded, not
	// treated as zero.
	assert.Equal(t, 2, summary.SampleSize)
	assert.InDelta(t, 3.0, summary.SeasonAverage, 1e-9)
}

func TestAggregateRecentFormWindow(t *testing.T) {
	agg := newTestAggregator()

	var records []RawGameStat
	for i := 0; i < 15; i++ {
		records = append(records, statRecord(fmt.Sprintf("2025-06-%02d", 15-i), float64(i)))
	}

	summary, err := agg.Aggregate(records, MarketHits, "")
	require.NoError(t, err)

	assert.Equal(t, 15, summary.SampleSize)
	assert.Equal(t, 10, summary.RecentFormSampleSize)
	// Values 0..9 by input order
	assert.InDelta(t, 4.5, summary.RecentFormAverage, 1e-9)
	assert.Len(t, summary.RecentGames, 10)
	assert.Equal(t, "2025-06-15", summary.RecentGames[0].Date)
}

// The aggregator trusts input order: the recent-form bucket is the first ten
// records as given, so an unsorted history produces a different recent form
// than the same history properly sorted. Sorting is the caller's contract.
func TestAggregateRecentFormFollowsInputOrder(t *testing.T) {
	agg := newTestAggregator()

	var newestFirst []RawGameStat
	for i := 0; i < 15; i++ {
		newestFirst = append(newestFirst, statRecord(fmt.Sprintf("2025-06-%02d", 15-i), float64(14-i)))
	}
	oldestFirst := make([]RawGameStat, len(newestFirst))
	for i, record := range newestFirst {
		oldestFirst[len(newestFirst)-1-i] = record
	}

	sorted, err := agg.Aggregate(newestFirst, MarketHits, "")
	require.NoError(t, err)
	unsorted, err := agg.Aggregate(oldestFirst, MarketHits, "")
	require.NoError(t, err)

	// Season statistics are order-independent.
	assert.InDelta(t, sorted.SeasonAverage, unsorted.SeasonAverage, 1e-9)
	assert.Equal(t, sorted.SampleSize, unsorted.SampleSize)

	// Recent form is not: values 14..5 on sorted input, 0..9 on reversed.
	assert.InDelta(t, 9.5, sorted.RecentFormAverage, 1e-9)
	assert.InDelta(t, 4.5, unsorted.RecentFormAverage, 1e-9)
	assert.NotEqual(t, sorted.RecentFormAverage, unsorted.RecentFormAverage)
}

func TestAggregateHomeAwaySplit(t *testing.T) {
	agg := newTestAggregator()

	records := []RawGameStat{
		{AthleteID: "ath-1", GameDate: "2025-06-04", IsHome: boolPtr(true), StatFields: map[string]float64{"hits": 3}},
		{AthleteID: "ath-1", GameDate: "2025-06-03", IsHome: boolPtr(true), StatFields: map[string]float64{"hits": 1}},
		{AthleteID: "ath-1", GameDate: "2025-06-02", IsHome: boolPtr(false), StatFields: map[string]float64{"hits": 1}},
		// Unknown side defaults to away.
		{AthleteID: "ath-1", GameDate: "2025-06-01", StatFields: map[string]float64{"hits": 0}},
	}

	summary, err := agg.Aggregate(records, MarketHits, "")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.HomeSampleSize)
	assert.InDelta(t, 2.0, summary.HomeAverage, 1e-9)
	assert.Equal(t, 2, summary.AwaySampleSize)
	assert.InDelta(t, 0.5, summary.AwayAverage, 1e-9)
	assert.InDelta(t, 1.5, summary.HomeMinusAway, 1e-9)
}

func TestAggregateOpponentFilter(t *testing.T) {
	agg := newTestAggregator()

	records := []RawGameStat{
		{AthleteID: "ath-1", GameDate: "2025-06-04", Opponent: "Boston Red Sox", StatFields: map[string]float64{"hits": 2}},
		{AthleteID: "ath-1", GameDate: "2025-06-03", Opponent: "Orioles", StatFields: map[string]float64{"hits": 0}},
		{AthleteID: "ath-1", GameDate: "2025-06-02", Opponent: "red sox", StatFields: map[string]float64{"hits": 4}},
	}

	tests := []struct {
		name           string
		filter         string
		expectedCount  int
		expectedAvg    float64
	}{
		{"Substring of stored opponent", "Red Sox", 2, 3.0},
		{"Stored opponent contains filter", "Sox", 2, 3.0},
		{"Filter contains stored opponent", "Baltimore Orioles", 1, 0.0},
		{"Case insensitive", "RED SOX", 2, 3.0},
		{"No match", "Dodgers", 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := agg.Aggregate(records, MarketHits, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCount, summary.OpponentSampleSize)
			assert.InDelta(t, tt.expectedAvg, summary.OpponentAverage, 1e-9)
		})
	}
}

func TestAggregateScheduleResolver(t *testing.T) {
	resolver := NewScheduleContextResolver(map[string]Matchup{
		"g1": {Home: "New York Yankees", Away: "Boston Red Sox"},
		"g2": {Home: "Boston Red Sox", Away: "New York Yankees"},
	})
	agg := NewAggregator(NewRegistry(nil), resolver, nil, nil)

	records := []RawGameStat{
		{AthleteID: "ath-1", GameID: "g1", GameDate: "2025-06-02", Team: "Yankees", StatFields: map[string]float64{"hits": 3}},
		{AthleteID: "ath-1", GameID: "g2", GameDate: "2025-06-01", Team: "Yankees", StatFields: map[string]float64{"hits": 1}},
	}

	summary, err := agg.Aggregate(records, MarketHits, "Red Sox")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.HomeSampleSize)
	assert.InDelta(t, 3.0, summary.HomeAverage, 1e-9)
	assert.Equal(t, 1, summary.AwaySampleSize)
	assert.InDelta(t, 1.0, summary.AwayAverage, 1e-9)
	assert.Equal(t, 2, summary.OpponentSampleSize)
}

func TestAggregateUnsupportedMarket(t *testing.T) {
	agg := newTestAggregator()

	_, err := agg.Aggregate([]RawGameStat{statRecord("2025-06-01", 1)}, "passing_yards", "")
	require.Error(t, err)
	assert.True(t, IsUnsupportedMarket(err))
}

func TestAggregateIdempotent(t *testing.T) {
	agg := newTestAggregator()

	records := []RawGameStat{
		{AthleteID: "ath-1", GameDate: "2025-06-03", Opponent: "Red Sox", IsHome: boolPtr(true), StatFields: map[string]float64{"hits": 2}},
		{AthleteID: "ath-1", GameDate: "2025-06-02", Opponent: "Orioles", IsHome: boolPtr(false), StatFields: map[string]float64{"hits": 1}},
		{AthleteID: "ath-1", GameDate: "2025-06-01", Opponent: "Red Sox", IsHome: boolPtr(true), StatFields: map[string]float64{"hits": 0}},
	}

	first, err := agg.Aggregate(records, MarketHits, "Red Sox")
	require.NoError(t, err)
	second, err := agg.Aggregate(records, MarketHits, "Red Sox")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregateDispersionNonNegative(t *testing.T) {
	agg := newTestAggregator()

	histories := [][]RawGameStat{
		nil,
		{statRecord("2025-06-01", 5)},
		{statRecord("2025-06-02", 0), statRecord("2025-06-01", 0)},
		{statRecord("2025-06-03", 1), statRecord("2025-06-02", 4), statRecord("2025-06-01", 2)},
	}

	for i, records := range histories {
		summary, err := agg.Aggregate(records, MarketHits, "")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, summary.Dispersion, 0.0, "history %d", i)
		if summary.SampleSize == 0 {
			assert.Zero(t, summary.SeasonAverage)
		}
	}
}

func boolPtr(v bool) *bool {
	return &v
}
