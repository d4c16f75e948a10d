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

const errScanPropLine = "failed to scan prop line: %w"

// PostgresPropLineRepository implements PropLineRepository for PostgreSQL
type PostgresPropLineRepository struct {
	db *database.DB
}

// NewPostgresPropLineRepository creates a new prop line repository
func NewPostgresPropLineRepository(db *database.DB) PropLineRepository {
	return &PostgresPropLineRepository{db: db}
}

// Insert inserts a single prop line snapshot
func (r *PostgresPropLineRepository) Insert(ctx context.Context, line *models.PropLine) error {
	query := `
		INSERT INTO prop_lines (time, athlete_id, market, line, over_price, under_price, book, game_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		line.Time, line.AthleteID, line.Market, line.Line, line.OverPrice,
		line.UnderPrice, line.Book, line.GameID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prop line: %w", err)
	}

	return nil
}

// InsertBatch inserts multiple prop line snapshots using high-performance batch insert
func (r *PostgresPropLineRepository) InsertBatch(ctx context.Context, lines []*models.PropLine) error {
	if len(lines) == 0 {
		return nil
	}

	// Use COPY for high-performance bulk insert
	columns := []string{"time", "athlete_id", "market", "line", "over_price", "under_price", "book", "game_id"}

	copyFromSource := make([][]interface{}, len(lines))
	for i, line := range lines {
		copyFromSource[i] = []interface{}{
			line.Time, line.AthleteID, line.Market, line.Line, line.OverPrice,
			line.UnderPrice, line.Book, line.GameID,
		}
	}

	copyCount, err := r.db.GetPool().CopyFrom(
		ctx,
		pgx.Identifier{"prop_lines"},
		columns,
		pgx.CopyFromRows(copyFromSource),
	)
	if err != nil {
		return fmt.Errorf("failed to batch insert prop lines: %w", err)
	}

	if copyCount != int64(len(lines)) {
		return fmt.Errorf("inserted %d rows, expected %d", copyCount, len(lines))
	}

	return nil
}

// GetByAthleteAndMarket retrieves prop line snapshots for an athlete and market within a time range
func (r *PostgresPropLineRepository) GetByAthleteAndMarket(ctx context.Context, athleteID uuid.UUID, market string, start, end time.Time) ([]*models.PropLine, error) {
	query := `
		SELECT time, athlete_id, market, line, over_price, under_price, book, game_id
		FROM prop_lines
		WHERE athlete_id = $1 AND market = $2 AND time >= $3 AND time <= $4
		ORDER BY time ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, athleteID, market, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query prop lines by athlete and market: %w", err)
	}
	defer rows.Close()

	return scanPropLines(rows)
}

// GetLatest retrieves the most recent prop line for an athlete, market and book
func (r *PostgresPropLineRepository) GetLatest(ctx context.Context, athleteID uuid.UUID, market, book string) (*models.PropLine, error) {
	query := `
		SELECT time, athlete_id, market, line, over_price, under_price, book, game_id
		FROM prop_lines
		WHERE athlete_id = $1 AND market = $2 AND book = $3
		ORDER BY time DESC
		LIMIT 1
	`

	line := &models.PropLine{}
	err := r.db.GetPool().QueryRow(ctx, query, athleteID, market, book).Scan(
		&line.Time, &line.AthleteID, &line.Market, &line.Line, &line.OverPrice,
		&line.UnderPrice, &line.Book, &line.GameID,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest prop line: %w", err)
	}

	return line, nil
}

// GetOpenLines retrieves the latest snapshot per athlete, market and book for a game
func (r *PostgresPropLineRepository) GetOpenLines(ctx context.Context, gameID uuid.UUID) ([]*models.PropLine, error) {
	query := `
		SELECT DISTINCT ON (athlete_id, market, book)
		       time, athlete_id, market, line, over_price, under_price, book, game_id
		FROM prop_lines
		WHERE game_id = $1
		ORDER BY athlete_id, market, book, time DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open prop lines: %w", err)
	}
	defer rows.Close()

	return scanPropLines(rows)
}

// GetTimeSeriesForMarket retrieves time-series line data for a specific market
func (r *PostgresPropLineRepository) GetTimeSeriesForMarket(ctx context.Context, market string, start, end time.Time) ([]*models.PropLine, error) {
	query := `
		SELECT time, athlete_id, market, line, over_price, under_price, book, game_id
		FROM prop_lines
		WHERE market = $1 AND time >= $2 AND time <= $3
		ORDER BY time ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, market, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query prop line time series: %w", err)
	}
	defer rows.Close()

	return scanPropLines(rows)
}

func scanPropLines(rows pgx.Rows) ([]*models.PropLine, error) {
	var lines []*models.PropLine
	for rows.Next() {
		line := &models.PropLine{}
		err := rows.Scan(
			&line.Time, &line.AthleteID, &line.Market, &line.Line, &line.OverPrice,
			&line.UnderPrice, &line.Book, &line.GameID,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPropLine, err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
