package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/prop-insight/internal/database"
	"github.com/yourusername/prop-insight/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Insert inserts a single prediction
func (r *PostgresPredictionRepository) Insert(ctx context.Context, prediction *models.PropPrediction) error {
	query := `
		INSERT INTO prop_predictions (id, athlete_id, game_id, market, line, predicted, confidence,
		                              over_probability, under_probability, sample_size, inputs, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		prediction.ID, prediction.AthleteID, prediction.GameID, prediction.Market, prediction.Line,
		prediction.Predicted, prediction.Confidence, prediction.OverProbability, prediction.UnderProbability,
		prediction.SampleSize, prediction.Inputs, prediction.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// InsertBatch inserts multiple predictions using high-performance batch insert
func (r *PostgresPredictionRepository) InsertBatch(ctx context.Context, predictions []*models.PropPrediction) error {
	if len(predictions) == 0 {
		return nil
	}

	columns := []string{
		"id", "athlete_id", "game_id", "market", "line", "predicted", "confidence",
		"over_probability", "under_probability", "sample_size", "inputs", "predicted_at",
	}

	copyFromSource := make([][]interface{}, len(predictions))
	for i, p := range predictions {
		copyFromSource[i] = []interface{}{
			p.ID, p.AthleteID, p.GameID, p.Market, p.Line, p.Predicted, p.Confidence,
			p.OverProbability, p.UnderProbability, p.SampleSize, p.Inputs, p.PredictedAt,
		}
	}

	copyCount, err := r.db.GetPool().CopyFrom(
		ctx,
		pgx.Identifier{"prop_predictions"},
		columns,
		pgx.CopyFromRows(copyFromSource),
	)
	if err != nil {
		return fmt.Errorf("failed to batch insert predictions: %w", err)
	}

	if copyCount != int64(len(predictions)) {
		return fmt.Errorf("inserted %d rows, expected %d", copyCount, len(predictions))
	}

	return nil
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PropPrediction, error) {
	query := `
		SELECT id, athlete_id, game_id, market, line, predicted, confidence,
		       over_probability, under_probability, sample_size, inputs, predicted_at, created_at
		FROM prop_predictions WHERE id = $1
	`

	prediction := &models.PropPrediction{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&prediction.ID, &prediction.AthleteID, &prediction.GameID, &prediction.Market, &prediction.Line,
		&prediction.Predicted, &prediction.Confidence, &prediction.OverProbability, &prediction.UnderProbability,
		&prediction.SampleSize, &prediction.Inputs, &prediction.PredictedAt, &prediction.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return prediction, nil
}

// GetByGameID retrieves all predictions for a specific game
func (r *PostgresPredictionRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.PropPrediction, error) {
	query := `
		SELECT id, athlete_id, game_id, market, line, predicted, confidence,
		       over_probability, under_probability, sample_size, inputs, predicted_at, created_at
		FROM prop_predictions
		WHERE game_id = $1
		ORDER BY predicted_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by game: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetByAthleteID retrieves predictions for an athlete within a date range
func (r *PostgresPredictionRepository) GetByAthleteID(ctx context.Context, athleteID uuid.UUID, start, end time.Time) ([]*models.PropPrediction, error) {
	query := `
		SELECT id, athlete_id, game_id, market, line, predicted, confidence,
		       over_probability, under_probability, sample_size, inputs, predicted_at, created_at
		FROM prop_predictions
		WHERE athlete_id = $1 AND predicted_at >= $2 AND predicted_at <= $3
		ORDER BY predicted_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, athleteID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by athlete: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetRecentByMarket retrieves the most recent predictions for a market
func (r *PostgresPredictionRepository) GetRecentByMarket(ctx context.Context, market string, limit int) ([]*models.PropPrediction, error) {
	query := `
		SELECT id, athlete_id, game_id, market, line, predicted, confidence,
		       over_probability, under_probability, sample_size, inputs, predicted_at, created_at
		FROM prop_predictions
		WHERE market = $1
		ORDER BY predicted_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, market, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetHitRateByMarket computes the share of graded predictions whose favored side cashed
func (r *PostgresPredictionRepository) GetHitRateByMarket(ctx context.Context, market string, daysBack int) (float64, error) {
	query := `
		SELECT COALESCE(
			AVG(CASE
				WHEN (p.over_probability >= p.under_probability AND o.result = 'over')
				  OR (p.over_probability < p.under_probability AND o.result = 'under')
				THEN 1.0 ELSE 0.0
			END), 0)
		FROM prop_predictions p
		JOIN prop_outcomes o ON o.prediction_id = p.id
		WHERE p.market = $1
		  AND o.status = 'graded'
		  AND o.result != 'push'
		  AND p.predicted_at >= NOW() - ($2 || ' days')::interval
	`

	var hitRate float64
	err := r.db.GetPool().QueryRow(ctx, query, market, daysBack).Scan(&hitRate)
	if err != nil {
		return 0, fmt.Errorf("failed to compute hit rate: %w", err)
	}

	return hitRate, nil
}

func scanPredictions(rows pgx.Rows) ([]*models.PropPrediction, error) {
	var predictions []*models.PropPrediction
	for rows.Next() {
		prediction := &models.PropPrediction{}
		err := rows.Scan(
			&prediction.ID, &prediction.AthleteID, &prediction.GameID, &prediction.Market, &prediction.Line,
			&prediction.Predicted, &prediction.Confidence, &prediction.OverProbability, &prediction.UnderProbability,
			&prediction.SampleSize, &prediction.Inputs, &prediction.PredictedAt, &prediction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, prediction)
	}

	return predictions, rows.Err()
}
