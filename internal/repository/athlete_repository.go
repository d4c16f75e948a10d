package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/prop-insight/internal/database"
	"github.com/yourusername/prop-insight/internal/models"
)

const errScanAthlete = "failed to scan athlete: %w"

// PostgresAthleteRepository implements AthleteRepository for PostgreSQL
type PostgresAthleteRepository struct {
	db *database.DB
}

// NewPostgresAthleteRepository creates a new athlete repository
func NewPostgresAthleteRepository(db *database.DB) AthleteRepository {
	return &PostgresAthleteRepository{db: db}
}

// Create inserts a new athlete
func (r *PostgresAthleteRepository) Create(ctx context.Context, athlete *models.Athlete) error {
	query := `
		INSERT INTO athletes (id, external_ref, full_name, team, position, jersey_number, aliases, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		athlete.ID, athlete.ExternalRef, athlete.FullName, athlete.Team, athlete.Position,
		athlete.JerseyNumber, athlete.Aliases, athlete.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create athlete: %w", err)
	}

	return nil
}

// GetByID retrieves an athlete by ID
func (r *PostgresAthleteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Athlete, error) {
	query := `
		SELECT id, external_ref, full_name, team, position, jersey_number,
		       aliases, active, created_at, updated_at
		FROM athletes WHERE id = $1
	`

	athlete := &models.Athlete{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&athlete.ID, &athlete.ExternalRef, &athlete.FullName, &athlete.Team, &athlete.Position,
		&athlete.JerseyNumber, &athlete.Aliases, &athlete.Active, &athlete.CreatedAt, &athlete.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get athlete: %w", err)
	}

	return athlete, nil
}

// GetByExternalRef retrieves an athlete by provider reference
func (r *PostgresAthleteRepository) GetByExternalRef(ctx context.Context, externalRef string) (*models.Athlete, error) {
	query := `
		SELECT id, external_ref, full_name, team, position, jersey_number,
		       aliases, active, created_at, updated_at
		FROM athletes WHERE external_ref = $1
	`

	athlete := &models.Athlete{}
	err := r.db.GetPool().QueryRow(ctx, query, externalRef).Scan(
		&athlete.ID, &athlete.ExternalRef, &athlete.FullName, &athlete.Team, &athlete.Position,
		&athlete.JerseyNumber, &athlete.Aliases, &athlete.Active, &athlete.CreatedAt, &athlete.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get athlete by external ref: %w", err)
	}

	return athlete, nil
}

// GetByName retrieves athletes whose full name matches exactly, ignoring case
func (r *PostgresAthleteRepository) GetByName(ctx context.Context, name string) ([]*models.Athlete, error) {
	query := `
		SELECT id, external_ref, full_name, team, position, jersey_number,
		       aliases, active, created_at, updated_at
		FROM athletes
		WHERE LOWER(full_name) = LOWER($1)
		ORDER BY full_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query athletes by name: %w", err)
	}
	defer rows.Close()

	return scanAthletes(rows)
}

// GetByAlias retrieves athletes carrying the alias, ignoring case
func (r *PostgresAthleteRepository) GetByAlias(ctx context.Context, alias string) ([]*models.Athlete, error) {
	query := `
		SELECT id, external_ref, full_name, team, position, jersey_number,
		       aliases, active, created_at, updated_at
		FROM athletes
		WHERE aliases IS NOT NULL
		  AND EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(aliases) a
			WHERE LOWER(a) = LOWER($1)
		  )
		ORDER BY full_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, alias)
	if err != nil {
		return nil, fmt.Errorf("failed to query athletes by alias: %w", err)
	}
	defer rows.Close()

	return scanAthletes(rows)
}

// SearchByName retrieves athletes whose full name contains the pattern
func (r *PostgresAthleteRepository) SearchByName(ctx context.Context, pattern string, limit int) ([]*models.Athlete, error) {
	query := `
		SELECT id, external_ref, full_name, team, position, jersey_number,
		       aliases, active, created_at, updated_at
		FROM athletes
		WHERE full_name ILIKE '%' || $1 || '%'
		ORDER BY full_name ASC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search athletes by name: %w", err)
	}
	defer rows.Close()

	return scanAthletes(rows)
}

// GetByTeam retrieves all athletes on a specific team
func (r *PostgresAthleteRepository) GetByTeam(ctx context.Context, team string) ([]*models.Athlete, error) {
	query := `
		SELECT id, external_ref, full_name, team, position, jersey_number,
		       aliases, active, created_at, updated_at
		FROM athletes
		WHERE team = $1
		ORDER BY full_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, team)
	if err != nil {
		return nil, fmt.Errorf("failed to query athletes by team: %w", err)
	}
	defer rows.Close()

	return scanAthletes(rows)
}

// GetActive retrieves all athletes on active rosters
func (r *PostgresAthleteRepository) GetActive(ctx context.Context) ([]*models.Athlete, error) {
	query := `
		SELECT id, external_ref, full_name, team, position, jersey_number,
		       aliases, active, created_at, updated_at
		FROM athletes
		WHERE active = TRUE
		ORDER BY team ASC, full_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active athletes: %w", err)
	}
	defer rows.Close()

	return scanAthletes(rows)
}

// Update updates an existing athlete
func (r *PostgresAthleteRepository) Update(ctx context.Context, athlete *models.Athlete) error {
	query := `
		UPDATE athletes SET
			external_ref = $2, full_name = $3, team = $4, position = $5,
			jersey_number = $6, aliases = $7, active = $8, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		athlete.ID, athlete.ExternalRef, athlete.FullName, athlete.Team, athlete.Position,
		athlete.JerseyNumber, athlete.Aliases, athlete.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to update athlete: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes an athlete
func (r *PostgresAthleteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM athletes WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete athlete: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanAthletes(rows pgx.Rows) ([]*models.Athlete, error) {
	var athletes []*models.Athlete
	for rows.Next() {
		athlete := &models.Athlete{}
		err := rows.Scan(
			&athlete.ID, &athlete.ExternalRef, &athlete.FullName, &athlete.Team, &athlete.Position,
			&athlete.JerseyNumber, &athlete.Aliases, &athlete.Active, &athlete.CreatedAt, &athlete.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanAthlete, err)
		}
		athletes = append(athletes, athlete)
	}

	return athletes, rows.Err()
}
