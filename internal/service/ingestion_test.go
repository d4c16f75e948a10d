package service

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-insight/internal/datasource"
	"github.com/yourusername/prop-insight/internal/logger"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/roster"
)

const testSourceName = "statsfeed"

func newTestIngestionService(src datasource.DataSource, athletes *MockAthleteRepository, stats *MockGameStatRepository, games *MockGameRepository) *IngestionService {
	base := logrus.New()
	base.SetLevel(logrus.WarnLevel)

	return NewIngestionService(
		[]datasource.DataSource{src},
		athletes,
		stats,
		games,
		newTestValidator(),
		roster.NewNormalizer(),
		logger.NewAuditLogger(base),
		log.New(os.Stderr, "ingestion: ", log.LstdFlags),
		50,
	)
}

func testStatRecord(ref, name string, gameTime time.Time) datasource.StatRecordData {
	return datasource.StatRecordData{
		SourceID:    "rec-" + ref,
		AthleteRef:  ref,
		AthleteName: name,
		Team:        "LAD",
		Opponent:    "SF",
		GameRef:     "game-1",
		GameTime:    gameTime,
		Season:      "2025",
		StatFields:  map[string]interface{}{"hits": 2.0, "home_runs": 1.0},
		FetchedAt:   time.Now(),
	}
}

// TestIngestHistoricalStats tests the full ingestion flow with new athletes
func TestIngestHistoricalStats(t *testing.T) {
	ctx := context.Background()
	src := new(MockDataSource)
	athletes := new(MockAthleteRepository)
	stats := new(MockGameStatRepository)
	games := new(MockGameRepository)

	gameTime := time.Now().Add(-48 * time.Hour)
	records := []datasource.StatRecordData{
		testStatRecord("mlb-605141", "Mookie Betts", gameTime),
		testStatRecord("mlb-660271", "Shohei Ohtani", gameTime),
	}

	src.On("Name").Return(testSourceName)
	src.On("FetchGameStats", ctx, mock.Anything, mock.Anything).Return(records, nil)

	athletes.On("GetByExternalRef", ctx, "mlb-605141").Return(nil, models.ErrNotFound)
	athletes.On("GetByExternalRef", ctx, "mlb-660271").Return(nil, models.ErrNotFound)
	athletes.On("Create", ctx, mock.AnythingOfType("*models.Athlete")).Return(nil)

	stats.On("GetByAthleteID", ctx, mock.Anything, mock.Anything, mock.Anything).Return([]*models.GameStat{}, nil)

	scheduled := &models.Game{
		ID:             uuid.New(),
		HomeTeam:       "Los Angeles Dodgers",
		AwayTeam:       "San Francisco Giants",
		ScheduledStart: gameTime,
	}
	games.On("GetByTeamAndDate", ctx, "Los Angeles Dodgers", mock.Anything).Return([]*models.Game{scheduled}, nil)

	var inserted []*models.GameStat
	stats.On("InsertBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).([]*models.GameStat)
	}).Return(nil)

	svc := newTestIngestionService(src, athletes, stats, games)
	m, err := svc.IngestHistoricalStats(ctx, testSourceName, gameTime.Add(-24*time.Hour), time.Now())

	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalRecords)
	assert.Equal(t, 2, m.SuccessfulRecords)
	assert.Equal(t, 2, m.AthletesCreated)
	assert.Equal(t, 2, m.GamesLinked)
	assert.Equal(t, 0, m.Duplicates)
	assert.Equal(t, 0, m.Errors)

	require.Len(t, inserted, 2)
	first := inserted[0]
	assert.Equal(t, "San Francisco Giants", first.Opponent)
	assert.Equal(t, "2025", first.Season)
	assert.Equal(t, testSourceName, first.Source)
	require.NotNil(t, first.GameID)
	assert.Equal(t, scheduled.ID, *first.GameID)
	require.NotNil(t, first.IsHome)
	assert.True(t, *first.IsHome)

	src.AssertExpectations(t)
	athletes.AssertExpectations(t)
	stats.AssertExpectations(t)
	games.AssertExpectations(t)
}

// TestIngestHistoricalStatsFetchError tests source failure handling
func TestIngestHistoricalStatsFetchError(t *testing.T) {
	ctx := context.Background()
	src := new(MockDataSource)
	athletes := new(MockAthleteRepository)
	stats := new(MockGameStatRepository)
	games := new(MockGameRepository)

	src.On("Name").Return(testSourceName)
	src.On("FetchGameStats", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	svc := newTestIngestionService(src, athletes, stats, games)
	m, err := svc.IngestHistoricalStats(ctx, testSourceName, time.Now().Add(-24*time.Hour), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch stat records")
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Errors)
	assert.Equal(t, 0, m.SuccessfulRecords)
	stats.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

// TestIngestHistoricalStatsUnknownSource tests lookup of an unconfigured source
func TestIngestHistoricalStatsUnknownSource(t *testing.T) {
	ctx := context.Background()
	src := new(MockDataSource)
	src.On("Name").Return(testSourceName)

	svc := newTestIngestionService(src, new(MockAthleteRepository), new(MockGameStatRepository), new(MockGameRepository))
	_, err := svc.IngestHistoricalStats(ctx, "missing", time.Now().Add(-24*time.Hour), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "data source not found")
}

// TestProcessRecordSkipsInvalid tests that validation failures are counted, not fatal
func TestProcessRecordSkipsInvalid(t *testing.T) {
	ctx := context.Background()
	athletes := new(MockAthleteRepository)
	svc := newTestIngestionService(new(MockDataSource), athletes, new(MockGameStatRepository), new(MockGameRepository))

	record := testStatRecord("", "Mookie Betts", time.Now().Add(-48*time.Hour))
	stat, err := svc.processRecord(ctx, &record, testSourceName)

	require.NoError(t, err)
	assert.Nil(t, stat)
	assert.Equal(t, 1, svc.runMetrics.ValidationErrors)
	athletes.AssertNotCalled(t, "GetByExternalRef", mock.Anything, mock.Anything)
}

// TestProcessRecordDuplicate tests same-day dedupe against stored stat lines
func TestProcessRecordDuplicate(t *testing.T) {
	ctx := context.Background()
	athletes := new(MockAthleteRepository)
	stats := new(MockGameStatRepository)
	svc := newTestIngestionService(new(MockDataSource), athletes, stats, new(MockGameRepository))

	gameTime := time.Now().Add(-48 * time.Hour)
	existing := &models.Athlete{ID: uuid.New(), ExternalRef: testAthleteRef, FullName: testAthleteName, Team: "Los Angeles Dodgers"}

	athletes.On("GetByExternalRef", ctx, testAthleteRef).Return(existing, nil)
	stats.On("GetByAthleteID", ctx, existing.ID, mock.Anything, mock.Anything).
		Return([]*models.GameStat{{Time: gameTime, AthleteID: existing.ID}}, nil)

	record := testStatRecord(testAthleteRef, testAthleteName, gameTime)
	stat, err := svc.processRecord(ctx, &record, testSourceName)

	require.NoError(t, err)
	assert.Nil(t, stat)
	assert.Equal(t, 1, svc.runMetrics.Duplicates)
	assert.Equal(t, 0, svc.runMetrics.AthletesCreated)
}

// TestProcessRecordNoUsableFields tests that non-numeric stat bags are rejected
func TestProcessRecordNoUsableFields(t *testing.T) {
	ctx := context.Background()
	athletes := new(MockAthleteRepository)
	stats := new(MockGameStatRepository)
	svc := newTestIngestionService(new(MockDataSource), athletes, stats, new(MockGameRepository))

	existing := &models.Athlete{ID: uuid.New(), ExternalRef: testAthleteRef, FullName: testAthleteName}
	athletes.On("GetByExternalRef", ctx, testAthleteRef).Return(existing, nil)
	stats.On("GetByAthleteID", ctx, existing.ID, mock.Anything, mock.Anything).Return([]*models.GameStat{}, nil)

	record := testStatRecord(testAthleteRef, testAthleteName, time.Now().Add(-48*time.Hour))
	record.StatFields = map[string]interface{}{"hits": "abc", "note": true}

	stat, err := svc.processRecord(ctx, &record, testSourceName)

	require.NoError(t, err)
	assert.Nil(t, stat)
	assert.Equal(t, 1, svc.runMetrics.ValidationErrors)
}

// TestEnsureAthleteRace tests concurrent create losing to another writer
func TestEnsureAthleteRace(t *testing.T) {
	ctx := context.Background()
	athletes := new(MockAthleteRepository)
	svc := newTestIngestionService(new(MockDataSource), athletes, new(MockGameStatRepository), new(MockGameRepository))

	winner := &models.Athlete{ID: uuid.New(), ExternalRef: testAthleteRef, FullName: testAthleteName, Team: "Los Angeles Dodgers"}

	athletes.On("GetByExternalRef", ctx, testAthleteRef).Return(nil, models.ErrNotFound).Once()
	athletes.On("Create", ctx, mock.AnythingOfType("*models.Athlete")).Return(models.ErrDuplicateKey)
	athletes.On("GetByExternalRef", ctx, testAthleteRef).Return(winner, nil).Once()

	record := testStatRecord(testAthleteRef, testAthleteName, time.Now().Add(-48*time.Hour))
	got, err := svc.ensureAthlete(ctx, &record)

	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
	assert.Equal(t, 0, svc.runMetrics.AthletesCreated)
	athletes.AssertExpectations(t)
}

// TestIngestSchedule tests schedule storage with one invalid game
func TestIngestSchedule(t *testing.T) {
	ctx := context.Background()
	src := new(MockDataSource)
	games := new(MockGameRepository)
	svc := newTestIngestionService(src, new(MockAthleteRepository), new(MockGameStatRepository), games)

	start := time.Now()
	schedule := []datasource.GameData{
		{SourceID: "g1", Season: "2025", ScheduledStart: start.Add(24 * time.Hour), HomeTeam: "LAD", AwayTeam: "SF", Venue: "Dodger Stadium"},
		{SourceID: "g2", Season: "2025", ScheduledStart: start.Add(48 * time.Hour), HomeTeam: "NYY", AwayTeam: "BOS"},
		{SourceID: "g3", Season: "2025", ScheduledStart: start.Add(24 * time.Hour), AwayTeam: "SF"},
	}

	src.On("Name").Return(testSourceName)
	src.On("FetchSchedule", ctx, mock.Anything, mock.Anything).Return(schedule, nil)
	games.On("GetByTeamAndDate", ctx, mock.Anything, mock.Anything).Return([]*models.Game{}, nil)
	games.On("Create", ctx, mock.AnythingOfType("*models.Game")).Return(nil)

	stored, err := svc.IngestSchedule(ctx, testSourceName, start, start.Add(72*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 2, stored)
	games.AssertNumberOfCalls(t, "Create", 2)
}

// TestStoreGameExisting tests that an already stored game is not duplicated
func TestStoreGameExisting(t *testing.T) {
	ctx := context.Background()
	games := new(MockGameRepository)
	svc := newTestIngestionService(new(MockDataSource), new(MockAthleteRepository), new(MockGameStatRepository), games)

	scheduled := time.Now().Add(24 * time.Hour)
	existing := &models.Game{ID: uuid.New(), HomeTeam: "Los Angeles Dodgers", AwayTeam: "San Francisco Giants", ScheduledStart: scheduled}
	games.On("GetByTeamAndDate", ctx, "Los Angeles Dodgers", mock.Anything).Return([]*models.Game{existing}, nil)

	created, err := svc.storeGame(ctx, &datasource.GameData{
		SourceID:       "g1",
		Season:         "2025",
		ScheduledStart: scheduled,
		HomeTeam:       "LAD",
		AwayTeam:       "SF",
	})

	require.NoError(t, err)
	assert.False(t, created)
	games.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
