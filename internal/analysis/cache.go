// internal/analysis/cache.go
package analysis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewbot/internal/common/logger"
	"reviewbot/internal/common/metrics"
	"reviewbot/internal/models"
)

// ArtifactLoader is the artifact-store contract the cache fronts.
type ArtifactLoader interface {
	LoadLatest(productID string) (*models.AnalysisResult, error)
}

// Cache is the time-boxed analysis result cache. Entries expire after
// TTL and are then refreshed from the artifact store; an absent store
// result is never cached, so every miss is retried on the next request.
type Cache struct {
	redis  *redis.Client
	store  ArtifactLoader
	ttl    time.Duration
	logger logger.Logger
}

func NewCache(rdb *redis.Client, store ArtifactLoader, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		redis:  rdb,
		store:  store,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "analysisCache"}),
	}
}

func cacheKey(productID string) string {
	return "analysis:" + productID
}

// Get returns the analysis result for productID, serving an unexpired
// cached copy when one exists and otherwise delegating to the artifact
// store. Returns (nil, nil) when the store has no artifact either.
func (c *Cache) Get(ctx context.Context, productID string) (*models.AnalysisResult, error) {
	key := cacheKey(productID)

	if raw, err := c.redis.Get(ctx, key).Result(); err == nil {
		var result models.AnalysisResult
		if err := json.Unmarshal([]byte(raw), &result); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return &result, nil
		}
		// Corrupt entry: fall through to a fresh store read.
		c.logger.Warn("dropping undecodable cache entry", map[string]interface{}{
			"productId": productID,
		})
		c.redis.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("cache read failed, falling back to store", map[string]interface{}{
			"productId": productID,
			"error":     err.Error(),
		})
	}

	metrics.CacheLookups.WithLabelValues("miss").Inc()

	result, err := c.store.LoadLatest(productID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", map[string]interface{}{
				"productId": productID,
				"error":     err.Error(),
			})
		}
	}

	return result, nil
}

// Invalidate drops the cached entry for productID, forcing the next Get
// to re-read the artifact store.
func (c *Cache) Invalidate(ctx context.Context, productID string) {
	c.redis.Del(ctx, cacheKey(productID))
}
