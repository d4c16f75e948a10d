package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/prop-insight/internal/database"
	"github.com/yourusername/prop-insight/internal/models"
)

// PostgresMarketPerformanceRepository implements MarketPerformanceRepository for PostgreSQL
type PostgresMarketPerformanceRepository struct {
	db *database.DB
}

// NewPostgresMarketPerformanceRepository creates a new market performance repository
func NewPostgresMarketPerformanceRepository(db *database.DB) MarketPerformanceRepository {
	return &PostgresMarketPerformanceRepository{db: db}
}

// Insert inserts a new market performance record
func (mp *PostgresMarketPerformanceRepository) Insert(ctx context.Context, perf *models.MarketPerformance) error {
	query := `
		INSERT INTO market_performance (time, market, total_predictions, correct_calls, incorrect_calls,
		                                pushes, avg_confidence, brier_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := mp.db.GetPool().Exec(ctx, query,
		perf.Time, perf.Market, perf.TotalPredictions, perf.CorrectCalls, perf.IncorrectCalls,
		perf.Pushes, perf.AvgConfidence, perf.BrierScore,
	)
	if err != nil {
		return fmt.Errorf("failed to insert market performance: %w", err)
	}

	return nil
}

// GetByMarket retrieves performance data for a specific market
func (mp *PostgresMarketPerformanceRepository) GetByMarket(ctx context.Context, market string, start, end time.Time) ([]*models.MarketPerformance, error) {
	query := `
		SELECT time, market, total_predictions, correct_calls, incorrect_calls,
		       pushes, avg_confidence, brier_score
		FROM market_performance
		WHERE market = $1 AND time >= $2 AND time <= $3
		ORDER BY time DESC
	`

	rows, err := mp.db.GetPool().Query(ctx, query, market, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query market performance: %w", err)
	}
	defer rows.Close()

	var performances []*models.MarketPerformance
	for rows.Next() {
		perf := &models.MarketPerformance{}
		err := rows.Scan(
			&perf.Time, &perf.Market, &perf.TotalPredictions, &perf.CorrectCalls, &perf.IncorrectCalls,
			&perf.Pushes, &perf.AvgConfidence, &perf.BrierScore,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance: %w", err)
		}
		performances = append(performances, perf)
	}

	return performances, rows.Err()
}

// GetDailyRollup retrieves daily aggregated performance from the continuous aggregate
func (mp *PostgresMarketPerformanceRepository) GetDailyRollup(ctx context.Context, market string, start, end time.Time) ([]*models.MarketPerformance, error) {
	// Using the continuous aggregate view for daily rollups
	query := `
		SELECT day, market, total_predictions, correct_calls, incorrect_calls,
		       pushes, avg_confidence, avg_brier_score
		FROM market_performance_daily
		WHERE market = $1 AND day >= $2 AND day <= $3
		ORDER BY day DESC
	`

	rows, err := mp.db.GetPool().Query(ctx, query, market, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily rollup: %w", err)
	}
	defer rows.Close()

	var performances []*models.MarketPerformance
	for rows.Next() {
		perf := &models.MarketPerformance{}
		err := rows.Scan(
			&perf.Time, &perf.Market, &perf.TotalPredictions, &perf.CorrectCalls, &perf.IncorrectCalls,
			&perf.Pushes, &perf.AvgConfidence, &perf.BrierScore,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily rollup: %w", err)
		}
		performances = append(performances, perf)
	}

	return performances, rows.Err()
}
