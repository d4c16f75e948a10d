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

const errScanOutcome = "failed to scan outcome: %w"

// PostgresOutcomeRepository implements OutcomeRepository for PostgreSQL
type PostgresOutcomeRepository struct {
	db *database.DB
}

// NewPostgresOutcomeRepository creates a new outcome repository
func NewPostgresOutcomeRepository(db *database.DB) OutcomeRepository {
	return &PostgresOutcomeRepository{db: db}
}

// Create inserts a new prop outcome
func (r *PostgresOutcomeRepository) Create(ctx context.Context, outcome *models.PropOutcome) error {
	query := `
		INSERT INTO prop_outcomes (id, athlete_id, prediction_id, market, line, book, game_date,
		                           actual, result, status, graded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		outcome.ID, outcome.AthleteID, outcome.PredictionID, outcome.Market, outcome.Line,
		outcome.Book, outcome.GameDate, outcome.Actual, outcome.Result, outcome.Status, outcome.GradedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outcome: %w", err)
	}

	return nil
}

// GetByID retrieves an outcome by ID
func (r *PostgresOutcomeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PropOutcome, error) {
	query := `
		SELECT id, athlete_id, prediction_id, market, line, book, game_date, actual, result, status,
		       graded_at, created_at, updated_at
		FROM prop_outcomes WHERE id = $1
	`

	outcome := &models.PropOutcome{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&outcome.ID, &outcome.AthleteID, &outcome.PredictionID, &outcome.Market, &outcome.Line,
		&outcome.Book, &outcome.GameDate, &outcome.Actual, &outcome.Result, &outcome.Status,
		&outcome.GradedAt, &outcome.CreatedAt, &outcome.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome: %w", err)
	}

	return outcome, nil
}

// GetByAthleteID retrieves all outcomes for a specific athlete
func (r *PostgresOutcomeRepository) GetByAthleteID(ctx context.Context, athleteID uuid.UUID) ([]*models.PropOutcome, error) {
	query := `
		SELECT id, athlete_id, prediction_id, market, line, book, game_date, actual, result, status,
		       graded_at, created_at, updated_at
		FROM prop_outcomes
		WHERE athlete_id = $1
		ORDER BY game_date DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes by athlete: %w", err)
	}
	defer rows.Close()

	return scanOutcomes(rows)
}

// GetByPredictionID retrieves the outcome recorded against a prediction
func (r *PostgresOutcomeRepository) GetByPredictionID(ctx context.Context, predictionID uuid.UUID) (*models.PropOutcome, error) {
	query := `
		SELECT id, athlete_id, prediction_id, market, line, book, game_date, actual, result, status,
		       graded_at, created_at, updated_at
		FROM prop_outcomes WHERE prediction_id = $1
	`

	outcome := &models.PropOutcome{}
	err := r.db.GetPool().QueryRow(ctx, query, predictionID).Scan(
		&outcome.ID, &outcome.AthleteID, &outcome.PredictionID, &outcome.Market, &outcome.Line,
		&outcome.Book, &outcome.GameDate, &outcome.Actual, &outcome.Result, &outcome.Status,
		&outcome.GradedAt, &outcome.CreatedAt, &outcome.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome by prediction: %w", err)
	}

	return outcome, nil
}

// GetByMarket retrieves all outcomes for a specific market within a date range
func (r *PostgresOutcomeRepository) GetByMarket(ctx context.Context, market string, start, end time.Time) ([]*models.PropOutcome, error) {
	query := `
		SELECT id, athlete_id, prediction_id, market, line, book, game_date, actual, result, status,
		       graded_at, created_at, updated_at
		FROM prop_outcomes
		WHERE market = $1 AND game_date >= $2 AND game_date <= $3
		ORDER BY game_date DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, market, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes by market: %w", err)
	}
	defer rows.Close()

	return scanOutcomes(rows)
}

// Update updates an existing outcome
func (r *PostgresOutcomeRepository) Update(ctx context.Context, outcome *models.PropOutcome) error {
	query := `
		UPDATE prop_outcomes SET
			actual = $2, result = $3, status = $4, graded_at = $5, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		outcome.ID, outcome.Actual, outcome.Result, outcome.Status, outcome.GradedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update outcome: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetPendingOutcomes retrieves all outcomes awaiting grading
func (r *PostgresOutcomeRepository) GetPendingOutcomes(ctx context.Context) ([]*models.PropOutcome, error) {
	query := `
		SELECT id, athlete_id, prediction_id, market, line, book, game_date, actual, result, status,
		       graded_at, created_at, updated_at
		FROM prop_outcomes
		WHERE status = 'pending'
		ORDER BY game_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending outcomes: %w", err)
	}
	defer rows.Close()

	return scanOutcomes(rows)
}

// GetGradedOutcomes retrieves all graded outcomes within a date range
func (r *PostgresOutcomeRepository) GetGradedOutcomes(ctx context.Context, start, end time.Time) ([]*models.PropOutcome, error) {
	query := `
		SELECT id, athlete_id, prediction_id, market, line, book, game_date, actual, result, status,
		       graded_at, created_at, updated_at
		FROM prop_outcomes
		WHERE status = 'graded' AND graded_at >= $1 AND graded_at <= $2
		ORDER BY graded_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query graded outcomes: %w", err)
	}
	defer rows.Close()

	return scanOutcomes(rows)
}

func scanOutcomes(rows pgx.Rows) ([]*models.PropOutcome, error) {
	var outcomes []*models.PropOutcome
	for rows.Next() {
		outcome := &models.PropOutcome{}
		err := rows.Scan(
			&outcome.ID, &outcome.AthleteID, &outcome.PredictionID, &outcome.Market, &outcome.Line,
			&outcome.Book, &outcome.GameDate, &outcome.Actual, &outcome.Result, &outcome.Status,
			&outcome.GradedAt, &outcome.CreatedAt, &outcome.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanOutcome, err)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, rows.Err()
}
