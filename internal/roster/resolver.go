package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/props"
	"github.com/yourusername/prop-insight/internal/repository"
)

const gameDateLayout = "2006-01-02"

// Resolver looks up athletes by free-form queries and exposes their stored stat history
type Resolver interface {
	// Resolve maps a query (external ref, full name or alias) to a single athlete
	Resolve(ctx context.Context, query string) (*models.Athlete, error)

	// HistoricalRecords returns up to limit stat lines for the athlete, most recent first
	HistoricalRecords(ctx context.Context, athleteID uuid.UUID, limit int) ([]props.RawGameStat, error)
}

// DBResolver resolves athletes against the repository layer
type DBResolver struct {
	athletes   repository.AthleteRepository
	stats      repository.GameStatRepository
	normalizer *Normalizer
	logger     *logrus.Logger
}

// NewDBResolver creates a repository-backed athlete resolver
func NewDBResolver(
	athletes repository.AthleteRepository,
	stats repository.GameStatRepository,
	normalizer *Normalizer,
	logger *logrus.Logger,
) (*DBResolver, error) {
	if athletes == nil {
		return nil, fmt.Errorf("athlete repository is required")
	}
	if stats == nil {
		return nil, fmt.Errorf("game stat repository is required")
	}
	if normalizer == nil {
		normalizer = NewNormalizer()
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &DBResolver{
		athletes:   athletes,
		stats:      stats,
		normalizer: normalizer,
		logger:     logger,
	}, nil
}

// Resolve maps a query to exactly one athlete. Lookup order is external ref,
// full name, alias, then the same again with the normalized query. Ties are
// broken toward the only active candidate when one exists.
func (r *DBResolver) Resolve(ctx context.Context, query string) (*models.Athlete, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, models.ErrAthleteNameRequired
	}

	if athlete, err := r.athletes.GetByExternalRef(ctx, trimmed); err == nil {
		return athlete, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve by external ref: %w", err)
	}

	candidates, err := r.collectCandidates(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		normalized := r.normalizer.NormalizeAthleteName(trimmed)
		if normalized != trimmed {
			candidates, err = r.collectCandidates(ctx, normalized)
			if err != nil {
				return nil, err
			}
		}
	}

	switch len(candidates) {
	case 0:
		return nil, models.ErrNotFound
	case 1:
		return candidates[0], nil
	default:
		return r.disambiguate(trimmed, candidates)
	}
}

// collectCandidates gathers name and alias matches for the query, deduplicated by ID
func (r *DBResolver) collectCandidates(ctx context.Context, query string) ([]*models.Athlete, error) {
	byName, err := r.athletes.GetByName(ctx, query)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve by name: %w", err)
	}

	byAlias, err := r.athletes.GetByAlias(ctx, query)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve by alias: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	candidates := make([]*models.Athlete, 0, len(byName)+len(byAlias))
	for _, athlete := range append(byName, byAlias...) {
		if seen[athlete.ID] {
			continue
		}
		seen[athlete.ID] = true
		candidates = append(candidates, athlete)
	}

	return candidates, nil
}

// disambiguate picks the sole active athlete among candidates, if there is one
func (r *DBResolver) disambiguate(query string, candidates []*models.Athlete) (*models.Athlete, error) {
	var active []*models.Athlete
	for _, athlete := range candidates {
		if athlete.Active {
			active = append(active, athlete)
		}
	}

	if len(active) == 1 {
		r.logger.WithFields(logrus.Fields{
			"query":      query,
			"matches":    len(candidates),
			"athlete_id": active[0].ID.String(),
		}).Debug("Resolved ambiguous query to the only active athlete")
		return active[0], nil
	}

	return nil, models.ErrAmbiguousAthlete
}

// HistoricalRecords loads the athlete's recent stat lines and converts them for aggregation.
// Rows with unparseable stat fields are skipped, not fatal.
func (r *DBResolver) HistoricalRecords(ctx context.Context, athleteID uuid.UUID, limit int) ([]props.RawGameStat, error) {
	athlete, err := r.athletes.GetByID(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load athlete: %w", err)
	}

	stats, err := r.stats.GetRecentByAthleteID(ctx, athleteID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load stat history: %w", err)
	}

	records := make([]props.RawGameStat, 0, len(stats))
	for _, stat := range stats {
		fields, err := stat.ParseStatFields()
		if err != nil {
			r.logger.WithFields(logrus.Fields{
				"athlete_id": athleteID.String(),
				"time":       stat.Time,
			}).WithError(err).Debug("Skipping stat line with unparseable fields")
			continue
		}

		record := props.RawGameStat{
			AthleteID:  stat.AthleteID.String(),
			GameDate:   stat.Time.Format(gameDateLayout),
			Team:       athlete.Team,
			Opponent:   stat.Opponent,
			IsHome:     stat.IsHome,
			StatFields: fields,
		}
		if stat.GameID != nil {
			record.GameID = stat.GameID.String()
		}
		records = append(records, record)
	}

	return records, nil
}
