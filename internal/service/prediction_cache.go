package service

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/prop-insight/internal/metrics"
	"github.com/yourusername/prop-insight/internal/models"
)

// PredictionCacheKey identifies one prediction request
type PredictionCacheKey struct {
	AthleteID uuid.UUID
	Market    string
	Line      float64
	GameDate  time.Time
}

// String returns the cache key string. The athlete ID leads so that
// per-athlete invalidation can match on prefix.
func (k PredictionCacheKey) String() string {
	return fmt.Sprintf("%s:%s:%.1f:%s", k.AthleteID, k.Market, k.Line, k.GameDate.Format("2006-01-02"))
}

// PredictionCache provides in-memory caching for issued predictions
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction
func (pc *PredictionCache) Get(key PredictionCacheKey) *models.PropPrediction {
	if result, found := pc.cache.Get(key.String()); found {
		if prediction, ok := result.(*models.PropPrediction); ok {
			pc.hitCount.Add(1)
			pc.updateMetrics()
			return prediction
		}
	}

	pc.missCount.Add(1)
	pc.updateMetrics()
	return nil
}

// Set stores a prediction in cache
func (pc *PredictionCache) Set(key PredictionCacheKey, prediction *models.PropPrediction) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	// Check size limit
	if pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
	}

	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// Invalidate removes all cache entries for a specific athlete.
// Called when fresh box scores land for the athlete.
func (pc *PredictionCache) Invalidate(athleteID uuid.UUID) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	prefix := athleteID.String() + ":"
	for k := range pc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			pc.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.Flush()
	pc.hitCount.Store(0)
	pc.missCount.Store(0)
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount.Load()
	misses = pc.missCount.Load()
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics updates Prometheus metrics
func (pc *PredictionCache) updateMetrics() {
	_, _, ratio := pc.Stats()
	metrics.UpdatePredictionCacheHitRatio(ratio)
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
