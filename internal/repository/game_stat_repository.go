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

const errScanGameStat = "failed to scan game stat: %w"

// PostgresGameStatRepository implements GameStatRepository for PostgreSQL
type PostgresGameStatRepository struct {
	db *database.DB
}

// NewPostgresGameStatRepository creates a new game stat repository
func NewPostgresGameStatRepository(db *database.DB) GameStatRepository {
	return &PostgresGameStatRepository{db: db}
}

// Insert inserts a single game stat line
func (r *PostgresGameStatRepository) Insert(ctx context.Context, stat *models.GameStat) error {
	query := `
		INSERT INTO game_stats (time, athlete_id, game_id, season, opponent, is_home, stat_fields, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		stat.Time, stat.AthleteID, stat.GameID, stat.Season, stat.Opponent,
		stat.IsHome, stat.StatFields, stat.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game stat: %w", err)
	}

	return nil
}

// InsertBatch inserts multiple game stat lines using high-performance batch insert
func (r *PostgresGameStatRepository) InsertBatch(ctx context.Context, stats []*models.GameStat) error {
	if len(stats) == 0 {
		return nil
	}

	// Use COPY for high-performance bulk insert
	columns := []string{"time", "athlete_id", "game_id", "season", "opponent", "is_home", "stat_fields", "source"}

	copyFromSource := make([][]interface{}, len(stats))
	for i, stat := range stats {
		copyFromSource[i] = []interface{}{
			stat.Time, stat.AthleteID, stat.GameID, stat.Season, stat.Opponent,
			stat.IsHome, stat.StatFields, stat.Source,
		}
	}

	copyCount, err := r.db.GetPool().CopyFrom(
		ctx,
		pgx.Identifier{"game_stats"},
		columns,
		pgx.CopyFromRows(copyFromSource),
	)
	if err != nil {
		return fmt.Errorf("failed to batch insert game stats: %w", err)
	}

	if copyCount != int64(len(stats)) {
		return fmt.Errorf("inserted %d rows, expected %d", copyCount, len(stats))
	}

	return nil
}

// GetByAthleteID retrieves stat lines for an athlete within a time range,
// most recent game first.
func (r *PostgresGameStatRepository) GetByAthleteID(ctx context.Context, athleteID uuid.UUID, start, end time.Time) ([]*models.GameStat, error) {
	query := `
		SELECT time, athlete_id, game_id, season, opponent, is_home, stat_fields, source, created_at, updated_at
		FROM game_stats
		WHERE athlete_id = $1 AND time >= $2 AND time <= $3
		ORDER BY time DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, athleteID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query game stats by athlete: %w", err)
	}
	defer rows.Close()

	return scanGameStats(rows)
}

// GetRecentByAthleteID retrieves the most recent stat lines for an athlete,
// most recent game first.
func (r *PostgresGameStatRepository) GetRecentByAthleteID(ctx context.Context, athleteID uuid.UUID, limit int) ([]*models.GameStat, error) {
	query := `
		SELECT time, athlete_id, game_id, season, opponent, is_home, stat_fields, source, created_at, updated_at
		FROM game_stats
		WHERE athlete_id = $1
		ORDER BY time DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, athleteID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent game stats: %w", err)
	}
	defer rows.Close()

	return scanGameStats(rows)
}

// GetByAthleteAndSeason retrieves all stat lines for an athlete in a season,
// most recent game first.
func (r *PostgresGameStatRepository) GetByAthleteAndSeason(ctx context.Context, athleteID uuid.UUID, season string) ([]*models.GameStat, error) {
	query := `
		SELECT time, athlete_id, game_id, season, opponent, is_home, stat_fields, source, created_at, updated_at
		FROM game_stats
		WHERE athlete_id = $1 AND season = $2
		ORDER BY time DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, athleteID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query game stats by season: %w", err)
	}
	defer rows.Close()

	return scanGameStats(rows)
}

// GetByGameID retrieves all stat lines recorded for a game
func (r *PostgresGameStatRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.GameStat, error) {
	query := `
		SELECT time, athlete_id, game_id, season, opponent, is_home, stat_fields, source, created_at, updated_at
		FROM game_stats
		WHERE game_id = $1
		ORDER BY athlete_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game stats by game: %w", err)
	}
	defer rows.Close()

	return scanGameStats(rows)
}

// GetDailySummary retrieves aggregated daily coverage from the continuous aggregate
func (r *PostgresGameStatRepository) GetDailySummary(ctx context.Context, athleteID uuid.UUID, start, end time.Time) ([]*models.GameStatSummary, error) {
	query := `
		SELECT day, athlete_id, games_played, sources, last_updated
		FROM game_stats_daily
		WHERE athlete_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, athleteID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query game stats daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []*models.GameStatSummary
	for rows.Next() {
		summary := &models.GameStatSummary{}
		err := rows.Scan(
			&summary.Day, &summary.AthleteID, &summary.GamesPlayed, &summary.Sources, &summary.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game stat summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game stat summaries: %w", err)
	}

	return summaries, nil
}

// Update updates an existing game stat line
func (r *PostgresGameStatRepository) Update(ctx context.Context, stat *models.GameStat) error {
	query := `
		UPDATE game_stats SET
			opponent = $1, is_home = $2, stat_fields = $3, source = $4, updated_at = NOW()
		WHERE athlete_id = $5 AND time = $6
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		stat.Opponent, stat.IsHome, stat.StatFields, stat.Source,
		stat.AthleteID, stat.Time,
	)
	if err != nil {
		return fmt.Errorf("failed to update game stat: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrGameStatNotFound
	}

	return nil
}

// Delete deletes a game stat line
func (r *PostgresGameStatRepository) Delete(ctx context.Context, athleteID uuid.UUID, statTime time.Time) error {
	query := `
		DELETE FROM game_stats
		WHERE athlete_id = $1 AND time = $2
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, athleteID, statTime)
	if err != nil {
		return fmt.Errorf("failed to delete game stat: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrGameStatNotFound
	}

	return nil
}

func scanGameStats(rows pgx.Rows) ([]*models.GameStat, error) {
	var stats []*models.GameStat
	for rows.Next() {
		stat := &models.GameStat{}
		err := rows.Scan(
			&stat.Time, &stat.AthleteID, &stat.GameID, &stat.Season, &stat.Opponent,
			&stat.IsHome, &stat.StatFields, &stat.Source, &stat.CreatedAt, &stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGameStat, err)
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}
