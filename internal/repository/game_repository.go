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

const errScanGame = "failed to scan game: %w"

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Create inserts a new game
func (r *PostgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, external_ref, season, scheduled_start, home_team, away_team, venue, conditions, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.ExternalRef, game.Season, game.ScheduledStart, game.HomeTeam,
		game.AwayTeam, game.Venue, game.Conditions, game.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	return nil
}

// CreateWithTx inserts a new game using a provided transaction
func (r *PostgresGameRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, game *models.Game) error {
	query := `
		INSERT INTO games (id, external_ref, season, scheduled_start, home_team, away_team, venue, conditions, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query,
		game.ID, game.ExternalRef, game.Season, game.ScheduledStart, game.HomeTeam,
		game.AwayTeam, game.Venue, game.Conditions, game.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create game within transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `
		SELECT id, external_ref, season, scheduled_start, actual_start, home_team, away_team,
		       venue, conditions, status, created_at, updated_at
		FROM games WHERE id = $1
	`

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&game.ID, &game.ExternalRef, &game.Season, &game.ScheduledStart, &game.ActualStart,
		&game.HomeTeam, &game.AwayTeam, &game.Venue, &game.Conditions, &game.Status,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetUpcoming retrieves upcoming games ordered by scheduled start time
func (r *PostgresGameRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Game, error) {
	query := `
		SELECT id, external_ref, season, scheduled_start, actual_start, home_team, away_team,
		       venue, conditions, status, created_at, updated_at
		FROM games
		WHERE status = 'scheduled' AND scheduled_start > NOW()
		ORDER BY scheduled_start ASC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByDateRange retrieves games within a date range
func (r *PostgresGameRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Game, error) {
	query := `
		SELECT id, external_ref, season, scheduled_start, actual_start, home_team, away_team,
		       venue, conditions, status, created_at, updated_at
		FROM games
		WHERE scheduled_start >= $1 AND scheduled_start <= $2
		ORDER BY scheduled_start ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by date range: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByTeamAndDate retrieves games for a team on a given day for deduplication
func (r *PostgresGameRepository) GetByTeamAndDate(ctx context.Context, team string, date time.Time) ([]*models.Game, error) {
	// Find games involving the team on the same day (within 24 hours)
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	query := `
		SELECT id, external_ref, season, scheduled_start, actual_start, home_team, away_team,
		       venue, conditions, status, created_at, updated_at
		FROM games
		WHERE (home_team = $1 OR away_team = $1) AND scheduled_start >= $2 AND scheduled_start < $3
		ORDER BY scheduled_start ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, team, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by team and date: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// Update updates an existing game
func (r *PostgresGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games SET
			actual_start = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, game.ID, game.ActualStart, game.Status)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes a game
func (r *PostgresGameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM games WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanGames(rows pgx.Rows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(
			&game.ID, &game.ExternalRef, &game.Season, &game.ScheduledStart, &game.ActualStart,
			&game.HomeTeam, &game.AwayTeam, &game.Venue, &game.Conditions, &game.Status,
			&game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
