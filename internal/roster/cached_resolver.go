// Package roster provides cached athlete resolution.
package roster

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-insight/internal/config"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/props"
)

// CachedResolver wraps a Resolver with athlete lookup caching
type CachedResolver struct {
	resolver Resolver
	cache    *AthleteCache
	logger   *logrus.Logger
}

// NewCachedResolver creates a resolver that caches successful lookups
func NewCachedResolver(resolver Resolver, cfg *config.CacheConfig, logger *logrus.Logger) *CachedResolver {
	cache := NewAthleteCache(
		time.Duration(cfg.RosterTTLSeconds)*time.Second,
		cfg.MaxEntries,
	)

	return &CachedResolver{
		resolver: resolver,
		cache:    cache,
		logger:   logger,
	}
}

// Resolve looks up the athlete, serving repeated queries from cache
func (c *CachedResolver) Resolve(ctx context.Context, query string) (*models.Athlete, error) {
	start := time.Now()

	if cached := c.cache.Get(query); cached != nil {
		c.logger.WithField("query", query).Debug("Cache hit for athlete resolution")
		RosterResolutionsTotal.WithLabelValues("resolved", "true").Inc()
		RosterResolutionLatency.Observe(time.Since(start).Seconds())
		return cached, nil
	}

	athlete, err := c.resolver.Resolve(ctx, query)
	RosterResolutionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		RosterResolutionsTotal.WithLabelValues(resolutionOutcome(err), "false").Inc()
		return nil, err
	}

	c.cache.Set(query, athlete)
	RosterResolutionsTotal.WithLabelValues("resolved", "false").Inc()
	return athlete, nil
}

// HistoricalRecords delegates to the wrapped resolver; histories are not cached
// because fresh stat lines land on every sync.
func (c *CachedResolver) HistoricalRecords(ctx context.Context, athleteID uuid.UUID, limit int) ([]props.RawGameStat, error) {
	records, err := c.resolver.HistoricalRecords(ctx, athleteID, limit)
	if err != nil {
		return nil, err
	}

	RosterHistoryRecordsLoaded.Observe(float64(len(records)))
	return records, nil
}

// InvalidateAthlete drops cached queries resolving to the athlete
func (c *CachedResolver) InvalidateAthlete(athleteID uuid.UUID) {
	c.cache.Invalidate(athleteID.String())
	c.logger.WithField("athlete_id", athleteID.String()).Debug("Invalidated cached athlete resolutions")
}

// CacheStats exposes cache hit statistics
func (c *CachedResolver) CacheStats() (hits, misses uint64, ratio float64) {
	return c.cache.Stats()
}

// resolutionOutcome maps resolver errors to a metric label
func resolutionOutcome(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrAmbiguousAthlete):
		return "ambiguous"
	default:
		return "error"
	}
}
