//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-insight/internal/database"
	"github.com/yourusername/prop-insight/internal/evaluation"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/repository"
	"github.com/yourusername/prop-insight/test/helpers"
)

// replayFixture holds the IDs seeded for a replay run
type replayFixture struct {
	athleteID     uuid.UUID
	thinAthleteID uuid.UUID
	windowStart   time.Time
	windowEnd     time.Time
}

// seedReplayData builds a deterministic history: one athlete with 20 games of
// strong hits production, one athlete with too little history to score, and a
// mix of graded outcomes against a 1.5 hits line.
func seedReplayData(t *testing.T, ctx context.Context, db *database.DB) replayFixture {
	t.Helper()

	athleteRepo := repository.NewPostgresAthleteRepository(db)
	statRepo := repository.NewPostgresGameStatRepository(db)
	outcomeRepo := repository.NewPostgresOutcomeRepository(db)

	athlete := &models.Athlete{
		ID:          uuid.New(),
		ExternalRef: fmt.Sprintf("mlb-replay-%s", uuid.New().String()[:8]),
		FullName:    "Replay Slugger",
		Team:        "Los Angeles Dodgers",
		Position:    "RF",
		Aliases:     json.RawMessage(`[]`),
		Active:      true,
	}
	require.NoError(t, athleteRepo.Create(ctx, athlete))

	thinAthlete := &models.Athlete{
		ID:          uuid.New(),
		ExternalRef: fmt.Sprintf("mlb-replay-%s", uuid.New().String()[:8]),
		FullName:    "Replay Rookie",
		Team:        "Los Angeles Dodgers",
		Position:    "2B",
		Aliases:     json.RawMessage(`[]`),
		Active:      true,
	}
	require.NoError(t, athleteRepo.Create(ctx, thinAthlete))

	historyStart := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)
	hitsByGame := []int{2, 3, 1, 2, 2, 3, 2, 1, 2, 3, 2, 2, 3, 1, 2, 2, 3, 2, 2, 3}
	isHome := true

	for i, hits := range hitsByGame {
		stat := &models.GameStat{
			Time:       historyStart.AddDate(0, 0, i),
			AthleteID:  athlete.ID,
			Season:     "2025",
			Opponent:   "San Diego Padres",
			IsHome:     &isHome,
			StatFields: json.RawMessage(fmt.Sprintf(`{"hits": %d, "total_bases": %d}`, hits, hits+1)),
			Source:     "statsfeed",
		}
		require.NoError(t, statRepo.Insert(ctx, stat))
	}

	// Two games is below the minimum history to score
	for i := 0; i < 2; i++ {
		stat := &models.GameStat{
			Time:       historyStart.AddDate(0, 0, i),
			AthleteID:  thinAthlete.ID,
			Season:     "2025",
			Opponent:   "San Diego Padres",
			StatFields: json.RawMessage(`{"hits": 1}`),
			Source:     "statsfeed",
		}
		require.NoError(t, statRepo.Insert(ctx, stat))
	}

	// A monster game on the first outcome day. If the replay leaked same-day
	// stats into the pre-game summary this would distort the first pick.
	decoy := &models.GameStat{
		Time:       time.Date(2025, 5, 25, 19, 0, 0, 0, time.UTC),
		AthleteID:  athlete.ID,
		Season:     "2025",
		Opponent:   "San Francisco Giants",
		IsHome:     &isHome,
		StatFields: json.RawMessage(`{"hits": 9, "total_bases": 14}`),
		Source:     "statsfeed",
	}
	require.NoError(t, statRepo.Insert(ctx, decoy))

	// The history mean is well above 1.5, so the model calls over on every
	// outcome. Four actuals clear the line, two miss it.
	actuals := []struct {
		day    int
		actual float64
		result models.OutcomeResult
	}{
		{25, 2, models.OutcomeOver},
		{26, 3, models.OutcomeOver},
		{27, 1, models.OutcomeUnder},
		{28, 2, models.OutcomeOver},
		{29, 0, models.OutcomeUnder},
		{30, 2, models.OutcomeOver},
	}

	for _, a := range actuals {
		gameDate := time.Date(2025, 5, a.day, 0, 0, 0, 0, time.UTC)
		gradedAt := gameDate.Add(12 * time.Hour)
		actual := a.actual
		outcome := &models.PropOutcome{
			ID:        uuid.New(),
			AthleteID: athlete.ID,
			Market:    "hits",
			Line:      1.5,
			Book:      "draftkings",
			GameDate:  gameDate,
			Actual:    &actual,
			Result:    a.result,
			Status:    models.GradeStatusGraded,
			GradedAt:  &gradedAt,
		}
		require.NoError(t, outcomeRepo.Create(ctx, outcome))
	}

	// Push against a whole-number line
	pushDate := time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC)
	pushGraded := pushDate.Add(12 * time.Hour)
	pushActual := 2.0
	require.NoError(t, outcomeRepo.Create(ctx, &models.PropOutcome{
		ID:        uuid.New(),
		AthleteID: athlete.ID,
		Market:    "hits",
		Line:      2.0,
		Book:      "fanduel",
		GameDate:  pushDate,
		Actual:    &pushActual,
		Result:    models.OutcomePush,
		Status:    models.GradeStatusGraded,
		GradedAt:  &pushGraded,
	}))

	// Thin-history athlete gets counted but never scored
	thinDate := time.Date(2025, 5, 27, 0, 0, 0, 0, time.UTC)
	thinGraded := thinDate.Add(12 * time.Hour)
	thinActual := 1.0
	require.NoError(t, outcomeRepo.Create(ctx, &models.PropOutcome{
		ID:        uuid.New(),
		AthleteID: thinAthlete.ID,
		Market:    "hits",
		Line:      0.5,
		Book:      "draftkings",
		GameDate:  thinDate,
		Actual:    &thinActual,
		Result:    models.OutcomeOver,
		Status:    models.GradeStatusGraded,
		GradedAt:  &thinGraded,
	}))

	// Market outside the run's scope is filtered before counting
	offDate := time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)
	offGraded := offDate.Add(12 * time.Hour)
	offActual := 7.0
	require.NoError(t, outcomeRepo.Create(ctx, &models.PropOutcome{
		ID:        uuid.New(),
		AthleteID: athlete.ID,
		Market:    "strikeouts",
		Line:      6.5,
		Book:      "draftkings",
		GameDate:  offDate,
		Actual:    &offActual,
		Result:    models.OutcomeOver,
		Status:    models.GradeStatusGraded,
		GradedAt:  &offGraded,
	}))

	return replayFixture{
		athleteID:     athlete.ID,
		thinAthleteID: thinAthlete.ID,
		windowStart:   time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC),
		windowEnd:     time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
	}
}

// TestChronologicalReplayEvaluation runs the full replay pipeline against
// seeded history and checks the scored picks, skip counters and metrics.
func TestChronologicalReplayEvaluation(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	ctx := context.Background()
	helpers.CleanupDatabase(t, db)

	fixture := seedReplayData(t, ctx, db)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	cfg := evaluation.Config{
		StartDate:           fixture.windowStart,
		EndDate:             fixture.windowEnd,
		Markets:             []string{"hits"},
		MinGradedGames:      5,
		HistoryLookbackDays: 60,
		BootstrapIterations: 200,
		ConsistencyWindows:  2,
		CalibrationBuckets:  5,
		RollingWindow:       10,
	}
	require.NoError(t, cfg.Validate())

	engine, err := evaluation.NewEngine(cfg, db, logger)
	require.NoError(t, err)

	state, metrics, err := engine.Run(ctx, fixture.windowStart, fixture.windowEnd)
	require.NoError(t, err)

	// 6 scoreable outcomes + 1 push + 1 thin history; the strikeouts outcome
	// is outside the run's markets and never counted
	assert.Equal(t, 8, state.TotalOutcomes)
	assert.Equal(t, 6, state.Scored)
	assert.Equal(t, 4, state.Correct)
	assert.Equal(t, 1, state.Pushes)
	assert.Equal(t, 1, state.SkippedThinHistory)
	require.Len(t, state.Picks, 6)

	// Strong history against a 1.5 line: every call is over
	for _, pick := range state.Picks {
		assert.Equal(t, "over", pick.PredictedSide)
		assert.Greater(t, pick.OverProbability, 0.5)
		assert.Equal(t, fixture.athleteID, pick.AthleteID)
	}

	// Picks replay in game order, and the first pick's summary must not see
	// the monster line recorded on its own game day
	assert.WithinDuration(t, time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC), state.Picks[0].GameDate, time.Second)
	assert.Equal(t, 20, state.Picks[0].SampleSize)
	for _, pick := range state.Picks[1:] {
		assert.GreaterOrEqual(t, pick.SampleSize, 20)
	}

	assert.Equal(t, 8, metrics.TotalOutcomes)
	assert.Equal(t, 6, metrics.ScoredCount)
	assert.Equal(t, 4, metrics.CorrectCount)
	assert.Equal(t, 1, metrics.PushCount)
	assert.Equal(t, 1, metrics.SkippedThinHistory)
	assert.InDelta(t, 4.0/6.0, metrics.HitRate, 0.0001)
	assert.Greater(t, metrics.BrierScore, 0.0)
	assert.Less(t, metrics.BrierScore, 1.0)

	hitsMetrics, ok := metrics.PerMarket["hits"]
	require.True(t, ok)
	assert.Equal(t, 6, hitsMetrics.Scored)
}

// TestReplayResultPersistence runs replay, scores the result and round-trips
// it through the evaluation results table.
func TestReplayResultPersistence(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	ctx := context.Background()
	helpers.CleanupDatabase(t, db)

	fixture := seedReplayData(t, ctx, db)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	cfg := evaluation.Config{
		StartDate:           fixture.windowStart,
		EndDate:             fixture.windowEnd,
		Markets:             []string{"hits"},
		MinGradedGames:      5,
		HistoryLookbackDays: 60,
		BootstrapIterations: 200,
		ConsistencyWindows:  2,
		CalibrationBuckets:  5,
		RollingWindow:       10,
	}

	engine, err := evaluation.NewEngine(cfg, db, logger)
	require.NoError(t, err)

	state, metrics, err := engine.Run(ctx, fixture.windowStart, fixture.windowEnd)
	require.NoError(t, err)

	bootstrap, err := evaluation.RunBootstrap(ctx, state.Picks, evaluation.BootstrapConfig{
		Iterations: cfg.BootstrapIterations,
		Seed:       42,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, bootstrap.Iterations)
	assert.InDelta(t, 4.0/6.0, bootstrap.MeanHitRate, 0.15)
	assert.NotEmpty(t, bootstrap.HitRateIntervals)

	windows := evaluation.EvaluateWindows(state.Picks, fixture.windowStart, fixture.windowEnd, evaluation.WindowConfig{
		Windows:            cfg.ConsistencyWindows,
		MinScoredPerWindow: 1,
	})
	assert.Len(t, windows.Windows, 2)
	assert.GreaterOrEqual(t, windows.ConsistencyScore, 0.0)
	assert.LessOrEqual(t, windows.ConsistencyScore, 1.0)

	result := evaluation.BuildResult(metrics, bootstrap, windows)
	assert.Greater(t, result.CompositeScore, 0.0)
	assert.LessOrEqual(t, result.CompositeScore, 1.0)
	assert.Contains(t, []string{"ACCEPT", "NEEDS_REVIEW", "REJECT"}, result.Recommendation)

	evalRepo := repository.NewPostgresEvaluationResultRepository(db)
	require.NoError(t, evaluation.ExportToDatabase(ctx, result, evalRepo, cfg.Markets))

	saved, err := evalRepo.GetLatest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, saved, 1)

	assert.Equal(t, evaluation.MethodChronologicalReplay, saved[0].Method)
	assert.Equal(t, "hits", saved[0].Markets)
	assert.Equal(t, 6, saved[0].GradedCount)
	assert.InDelta(t, metrics.HitRate, saved[0].HitRate, 0.0001)
	assert.InDelta(t, result.CompositeScore, saved[0].CompositeScore, 0.0001)

	var full evaluation.Result
	require.NoError(t, json.Unmarshal(saved[0].FullResults, &full))
	assert.Equal(t, result.Recommendation, full.Recommendation)
}
