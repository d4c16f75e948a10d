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

const errScanEvaluationResult = "failed to scan evaluation result: %w"

// PostgresEvaluationResultRepository implements EvaluationResultRepository for PostgreSQL
type PostgresEvaluationResultRepository struct {
	db *database.DB
}

// NewPostgresEvaluationResultRepository creates a new evaluation result repository
func NewPostgresEvaluationResultRepository(db *database.DB) EvaluationResultRepository {
	return &PostgresEvaluationResultRepository{db: db}
}

// SaveResult inserts an evaluation result
func (r *PostgresEvaluationResultRepository) SaveResult(ctx context.Context, result *models.EvaluationResult) error {
	query := `
		INSERT INTO evaluation_results (
			id, run_date, start_date, end_date, markets,
			total_predictions, graded_count, hit_rate, brier_score, log_loss,
			calibration_error, method, composite_score, recommendation, full_results, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		result.ID, result.RunDate, result.StartDate, result.EndDate, result.Markets,
		result.TotalPredictions, result.GradedCount, result.HitRate, result.BrierScore, result.LogLoss,
		result.CalibrationError, result.Method, result.CompositeScore, result.Recommendation,
		result.FullResults, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation result: %w", err)
	}
	return nil
}

// GetByID retrieves an evaluation result by ID
func (r *PostgresEvaluationResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EvaluationResult, error) {
	query := `
		SELECT id, run_date, start_date, end_date, markets, total_predictions, graded_count,
			hit_rate, brier_score, log_loss, calibration_error, method, composite_score,
			recommendation, full_results, created_at
		FROM evaluation_results WHERE id = $1
	`

	result := &models.EvaluationResult{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&result.ID, &result.RunDate, &result.StartDate, &result.EndDate, &result.Markets,
		&result.TotalPredictions, &result.GradedCount, &result.HitRate, &result.BrierScore, &result.LogLoss,
		&result.CalibrationError, &result.Method, &result.CompositeScore, &result.Recommendation,
		&result.FullResults, &result.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation result: %w", err)
	}

	return result, nil
}

// GetLatest retrieves latest evaluation results
func (r *PostgresEvaluationResultRepository) GetLatest(ctx context.Context, limit int) ([]*models.EvaluationResult, error) {
	query := `
		SELECT id, run_date, start_date, end_date, markets, total_predictions, graded_count,
			hit_rate, brier_score, log_loss, calibration_error, method, composite_score,
			recommendation, full_results, created_at
		FROM evaluation_results ORDER BY run_date DESC LIMIT $1
	`
	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest evaluation results: %w", err)
	}
	defer rows.Close()

	return scanEvaluationResults(rows)
}

// GetByDateRange retrieves evaluation results within a date range
func (r *PostgresEvaluationResultRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.EvaluationResult, error) {
	query := `
		SELECT id, run_date, start_date, end_date, markets, total_predictions, graded_count,
			hit_rate, brier_score, log_loss, calibration_error, method, composite_score,
			recommendation, full_results, created_at
		FROM evaluation_results WHERE run_date >= $1 AND run_date <= $2 ORDER BY run_date DESC
	`
	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation results by date range: %w", err)
	}
	defer rows.Close()

	return scanEvaluationResults(rows)
}

// GetByMethod retrieves evaluation results for a specific method
func (r *PostgresEvaluationResultRepository) GetByMethod(ctx context.Context, method string, limit int) ([]*models.EvaluationResult, error) {
	query := `
		SELECT id, run_date, start_date, end_date, markets, total_predictions, graded_count,
			hit_rate, brier_score, log_loss, calibration_error, method, composite_score,
			recommendation, full_results, created_at
		FROM evaluation_results WHERE method = $1 ORDER BY run_date DESC LIMIT $2
	`
	rows, err := r.db.GetPool().Query(ctx, query, method, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation results by method: %w", err)
	}
	defer rows.Close()

	return scanEvaluationResults(rows)
}

// GetTopPerforming retrieves the highest scoring evaluation results
func (r *PostgresEvaluationResultRepository) GetTopPerforming(ctx context.Context, limit int) ([]*models.EvaluationResult, error) {
	query := `
		SELECT id, run_date, start_date, end_date, markets, total_predictions, graded_count,
			hit_rate, brier_score, log_loss, calibration_error, method, composite_score,
			recommendation, full_results, created_at
		FROM evaluation_results ORDER BY composite_score DESC LIMIT $1
	`
	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top performing evaluation results: %w", err)
	}
	defer rows.Close()

	return scanEvaluationResults(rows)
}

func scanEvaluationResults(rows pgx.Rows) ([]*models.EvaluationResult, error) {
	var results []*models.EvaluationResult
	for rows.Next() {
		result := &models.EvaluationResult{}
		if err := rows.Scan(
			&result.ID, &result.RunDate, &result.StartDate, &result.EndDate, &result.Markets,
			&result.TotalPredictions, &result.GradedCount, &result.HitRate, &result.BrierScore, &result.LogLoss,
			&result.CalibrationError, &result.Method, &result.CompositeScore, &result.Recommendation,
			&result.FullResults, &result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanEvaluationResult, err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
