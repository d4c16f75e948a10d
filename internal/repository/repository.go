package repository

import (
	"fmt"

	"github.com/yourusername/prop-insight/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Athlete           AthleteRepository
	Game              GameRepository
	GameStat          GameStatRepository
	PropLine          PropLineRepository
	Prediction        PredictionRepository
	Outcome           OutcomeRepository
	MarketPerformance MarketPerformanceRepository
	EvaluationResult  EvaluationResultRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Athlete:           NewPostgresAthleteRepository(db),
		Game:              NewPostgresGameRepository(db),
		GameStat:          NewPostgresGameStatRepository(db),
		PropLine:          NewPostgresPropLineRepository(db),
		Prediction:        NewPostgresPredictionRepository(db),
		Outcome:           NewPostgresOutcomeRepository(db),
		MarketPerformance: NewPostgresMarketPerformanceRepository(db),
		EvaluationResult:  NewPostgresEvaluationResultRepository(db),
	}, nil
}
