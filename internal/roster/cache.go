package roster

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/prop-insight/internal/models"
)

// AthleteCache provides in-memory caching for resolved athletes
type AthleteCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewAthleteCache creates a new athlete resolution cache
func NewAthleteCache(ttl time.Duration, maxSize int) *AthleteCache {
	return &AthleteCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// cacheKey folds the query so case variants share one entry
func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Get retrieves a cached athlete for the query
func (ac *AthleteCache) Get(query string) *models.Athlete {
	if result, found := ac.cache.Get(cacheKey(query)); found {
		if athlete, ok := result.(*models.Athlete); ok {
			ac.hitCount.Add(1)
			ac.updateMetrics()
			return athlete
		}
	}

	ac.missCount.Add(1)
	ac.updateMetrics()
	return nil
}

// Set stores a resolved athlete under the query
func (ac *AthleteCache) Set(query string, athlete *models.Athlete) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	// Check size limit
	if ac.cache.ItemCount() >= ac.maxSize {
		ac.cache.DeleteExpired()
	}

	ac.cache.Set(cacheKey(query), athlete, ac.ttl)
}

// Invalidate removes cache entries resolving to the given athlete.
// Called when roster syncs change team or active status.
func (ac *AthleteCache) Invalidate(athleteID string) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	for k, item := range ac.cache.Items() {
		if athlete, ok := item.Object.(*models.Athlete); ok && athlete.ID.String() == athleteID {
			ac.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (ac *AthleteCache) Clear() {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	ac.cache.Flush()
	ac.hitCount.Store(0)
	ac.missCount.Store(0)
}

// Stats returns cache statistics
func (ac *AthleteCache) Stats() (hits, misses uint64, ratio float64) {
	hits = ac.hitCount.Load()
	misses = ac.missCount.Load()
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics updates Prometheus metrics
func (ac *AthleteCache) updateMetrics() {
	_, _, ratio := ac.Stats()
	RosterCacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (ac *AthleteCache) ItemCount() int {
	return ac.cache.ItemCount()
}
