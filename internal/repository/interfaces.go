package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/prop-insight/internal/models"
)

// AthleteRepository defines the interface for athlete data access
type AthleteRepository interface {
	Create(ctx context.Context, athlete *models.Athlete) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Athlete, error)
	GetByExternalRef(ctx context.Context, externalRef string) (*models.Athlete, error)
	GetByName(ctx context.Context, name string) ([]*models.Athlete, error)
	GetByAlias(ctx context.Context, alias string) ([]*models.Athlete, error)
	SearchByName(ctx context.Context, pattern string, limit int) ([]*models.Athlete, error)
	GetByTeam(ctx context.Context, team string) ([]*models.Athlete, error)
	GetActive(ctx context.Context) ([]*models.Athlete, error)
	Update(ctx context.Context, athlete *models.Athlete) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GameRepository defines the interface for game data access
type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetUpcoming(ctx context.Context, limit int) ([]*models.Game, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Game, error)
	GetByTeamAndDate(ctx context.Context, team string, date time.Time) ([]*models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GameStatRepository defines the interface for game stat data access
type GameStatRepository interface {
	Insert(ctx context.Context, stat *models.GameStat) error
	InsertBatch(ctx context.Context, stats []*models.GameStat) error
	// GetByAthleteID returns stat lines ordered most recent first.
	GetByAthleteID(ctx context.Context, athleteID uuid.UUID, start, end time.Time) ([]*models.GameStat, error)
	GetRecentByAthleteID(ctx context.Context, athleteID uuid.UUID, limit int) ([]*models.GameStat, error)
	GetByAthleteAndSeason(ctx context.Context, athleteID uuid.UUID, season string) ([]*models.GameStat, error)
	GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.GameStat, error)
	GetDailySummary(ctx context.Context, athleteID uuid.UUID, start, end time.Time) ([]*models.GameStatSummary, error)
	Update(ctx context.Context, stat *models.GameStat) error
	Delete(ctx context.Context, athleteID uuid.UUID, statTime time.Time) error
}

// PropLineRepository defines the interface for prop line data access
type PropLineRepository interface {
	Insert(ctx context.Context, line *models.PropLine) error
	InsertBatch(ctx context.Context, lines []*models.PropLine) error
	GetByAthleteAndMarket(ctx context.Context, athleteID uuid.UUID, market string, start, end time.Time) ([]*models.PropLine, error)
	GetLatest(ctx context.Context, athleteID uuid.UUID, market, book string) (*models.PropLine, error)
	GetOpenLines(ctx context.Context, gameID uuid.UUID) ([]*models.PropLine, error)
	GetTimeSeriesForMarket(ctx context.Context, market string, start, end time.Time) ([]*models.PropLine, error)
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	Insert(ctx context.Context, prediction *models.PropPrediction) error
	InsertBatch(ctx context.Context, predictions []*models.PropPrediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PropPrediction, error)
	GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.PropPrediction, error)
	GetByAthleteID(ctx context.Context, athleteID uuid.UUID, start, end time.Time) ([]*models.PropPrediction, error)
	GetRecentByMarket(ctx context.Context, market string, limit int) ([]*models.PropPrediction, error)
	GetHitRateByMarket(ctx context.Context, market string, daysBack int) (float64, error)
}

// OutcomeRepository defines the interface for prop outcome data access
type OutcomeRepository interface {
	Create(ctx context.Context, outcome *models.PropOutcome) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PropOutcome, error)
	GetByAthleteID(ctx context.Context, athleteID uuid.UUID) ([]*models.PropOutcome, error)
	GetByPredictionID(ctx context.Context, predictionID uuid.UUID) (*models.PropOutcome, error)
	GetByMarket(ctx context.Context, market string, start, end time.Time) ([]*models.PropOutcome, error)
	Update(ctx context.Context, outcome *models.PropOutcome) error
	GetPendingOutcomes(ctx context.Context) ([]*models.PropOutcome, error)
	GetGradedOutcomes(ctx context.Context, start, end time.Time) ([]*models.PropOutcome, error)
}

// MarketPerformanceRepository defines the interface for market performance data access
type MarketPerformanceRepository interface {
	Insert(ctx context.Context, perf *models.MarketPerformance) error
	GetByMarket(ctx context.Context, market string, start, end time.Time) ([]*models.MarketPerformance, error)
	GetDailyRollup(ctx context.Context, market string, start, end time.Time) ([]*models.MarketPerformance, error)
}

// EvaluationResultRepository defines evaluation result persistence
type EvaluationResultRepository interface {
	SaveResult(ctx context.Context, result *models.EvaluationResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EvaluationResult, error)
	GetLatest(ctx context.Context, limit int) ([]*models.EvaluationResult, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.EvaluationResult, error)
	GetByMethod(ctx context.Context, method string, limit int) ([]*models.EvaluationResult, error)
	GetTopPerforming(ctx context.Context, limit int) ([]*models.EvaluationResult, error)
}
