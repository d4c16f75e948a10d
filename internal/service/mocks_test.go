package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/prop-insight/internal/datasource"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/props"
)

// MockAthleteRepository mocks athlete repository
type MockAthleteRepository struct {
	mock.Mock
}

func (m *MockAthleteRepository) Create(ctx context.Context, athlete *models.Athlete) error {
	args := m.Called(ctx, athlete)
	return args.Error(0)
}

func (m *MockAthleteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Athlete, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) GetByExternalRef(ctx context.Context, externalRef string) (*models.Athlete, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) GetByName(ctx context.Context, name string) ([]*models.Athlete, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) GetByAlias(ctx context.Context, alias string) ([]*models.Athlete, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) SearchByName(ctx context.Context, pattern string, limit int) ([]*models.Athlete, error) {
	args := m.Called(ctx, pattern, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) GetByTeam(ctx context.Context, team string) ([]*models.Athlete, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) GetActive(ctx context.Context) ([]*models.Athlete, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) Update(ctx context.Context, athlete *models.Athlete) error {
	args := m.Called(ctx, athlete)
	return args.Error(0)
}

func (m *MockAthleteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGameRepository mocks game repository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Game, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Game, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetByTeamAndDate(ctx context.Context, team string, date time.Time) ([]*models.Game, error) {
	args := m.Called(ctx, team, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) Update(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGameStatRepository mocks game stat repository
type MockGameStatRepository struct {
	mock.Mock
}

func (m *MockGameStatRepository) Insert(ctx context.Context, stat *models.GameStat) error {
	args := m.Called(ctx, stat)
	return args.Error(0)
}

func (m *MockGameStatRepository) InsertBatch(ctx context.Context, stats []*models.GameStat) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockGameStatRepository) GetByAthleteID(ctx context.Context, athleteID uuid.UUID, start, end time.Time) ([]*models.GameStat, error) {
	args := m.Called(ctx, athleteID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameStat), args.Error(1)
}

func (m *MockGameStatRepository) GetRecentByAthleteID(ctx context.Context, athleteID uuid.UUID, limit int) ([]*models.GameStat, error) {
	args := m.Called(ctx, athleteID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameStat), args.Error(1)
}

func (m *MockGameStatRepository) GetByAthleteAndSeason(ctx context.Context, athleteID uuid.UUID, season string) ([]*models.GameStat, error) {
	args := m.Called(ctx, athleteID, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameStat), args.Error(1)
}

func (m *MockGameStatRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.GameStat, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameStat), args.Error(1)
}

func (m *MockGameStatRepository) GetDailySummary(ctx context.Context, athleteID uuid.UUID, start, end time.Time) ([]*models.GameStatSummary, error) {
	args := m.Called(ctx, athleteID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameStatSummary), args.Error(1)
}

func (m *MockGameStatRepository) Update(ctx context.Context, stat *models.GameStat) error {
	args := m.Called(ctx, stat)
	return args.Error(0)
}

func (m *MockGameStatRepository) Delete(ctx context.Context, athleteID uuid.UUID, statTime time.Time) error {
	args := m.Called(ctx, athleteID, statTime)
	return args.Error(0)
}

// MockOutcomeRepository mocks prop outcome repository
type MockOutcomeRepository struct {
	mock.Mock
}

func (m *MockOutcomeRepository) Create(ctx context.Context, outcome *models.PropOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func (m *MockOutcomeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PropOutcome, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropOutcome), args.Error(1)
}

func (m *MockOutcomeRepository) GetByAthleteID(ctx context.Context, athleteID uuid.UUID) ([]*models.PropOutcome, error) {
	args := m.Called(ctx, athleteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PropOutcome), args.Error(1)
}

func (m *MockOutcomeRepository) GetByPredictionID(ctx context.Context, predictionID uuid.UUID) (*models.PropOutcome, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropOutcome), args.Error(1)
}

func (m *MockOutcomeRepository) GetByMarket(ctx context.Context, market string, start, end time.Time) ([]*models.PropOutcome, error) {
	args := m.Called(ctx, market, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PropOutcome), args.Error(1)
}

func (m *MockOutcomeRepository) Update(ctx context.Context, outcome *models.PropOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func (m *MockOutcomeRepository) GetPendingOutcomes(ctx context.Context) ([]*models.PropOutcome, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PropOutcome), args.Error(1)
}

func (m *MockOutcomeRepository) GetGradedOutcomes(ctx context.Context, start, end time.Time) ([]*models.PropOutcome, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PropOutcome), args.Error(1)
}

// MockPredictionRepository mocks prediction repository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Insert(ctx context.Context, prediction *models.PropPrediction) error {
	args := m.Called(ctx, prediction)
	return args.Error(0)
}

func (m *MockPredictionRepository) InsertBatch(ctx context.Context, predictions []*models.PropPrediction) error {
	args := m.Called(ctx, predictions)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PropPrediction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropPrediction), args.Error(1)
}

func (m *MockPredictionRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.PropPrediction, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PropPrediction), args.Error(1)
}

func (m *MockPredictionRepository) GetByAthleteID(ctx context.Context, athleteID uuid.UUID, start, end time.Time) ([]*models.PropPrediction, error) {
	args := m.Called(ctx, athleteID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PropPrediction), args.Error(1)
}

func (m *MockPredictionRepository) GetRecentByMarket(ctx context.Context, market string, limit int) ([]*models.PropPrediction, error) {
	args := m.Called(ctx, market, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PropPrediction), args.Error(1)
}

func (m *MockPredictionRepository) GetHitRateByMarket(ctx context.Context, market string, daysBack int) (float64, error) {
	args := m.Called(ctx, market, daysBack)
	return args.Get(0).(float64), args.Error(1)
}

// MockDataSource mocks a stat provider
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) FetchGameStats(ctx context.Context, startDate, endDate time.Time) ([]datasource.StatRecordData, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datasource.StatRecordData), args.Error(1)
}

func (m *MockDataSource) FetchAthleteGameLog(ctx context.Context, athleteRef string, limit int) ([]datasource.StatRecordData, error) {
	args := m.Called(ctx, athleteRef, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datasource.StatRecordData), args.Error(1)
}

func (m *MockDataSource) FetchSchedule(ctx context.Context, startDate, endDate time.Time) ([]datasource.GameData, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datasource.GameData), args.Error(1)
}

func (m *MockDataSource) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockDataSource) IsEnabled() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockResolver mocks the roster resolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, query string) (*models.Athlete, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Athlete), args.Error(1)
}

func (m *MockResolver) HistoricalRecords(ctx context.Context, athleteID uuid.UUID, limit int) ([]props.RawGameStat, error) {
	args := m.Called(ctx, athleteID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]props.RawGameStat), args.Error(1)
}
