package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/example/salesmate/pkg/cache"
	"github.com/example/salesmate/pkg/models"
	"go.uber.org/zap"
)

// CachedStore wraps a Store with a redis read-through cache. The catalog is
// effectively static between seed runs, so a short TTL is enough; cache
// errors fall back to the underlying store and never fail the lookup.
type CachedStore struct {
	store  Store
	cache  *cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedStore(store Store, c *cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedStore{store: store, cache: c, ttl: ttl, logger: logger}
}

func (c *CachedStore) Find(ctx context.Context, f Filter, limit int64) ([]models.Product, error) {
	key := searchKey(f, limit)

	var cached []models.Product
	if err := c.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	}

	products, err := c.store.Find(ctx, f, limit)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetJSON(ctx, key, products, c.ttl); err != nil {
		c.logger.Warn("Failed to cache catalog results", zap.String("key", key), zap.Error(err))
	}
	return products, nil
}

func searchKey(f Filter, limit int64) string {
	min, max := "", ""
	if f.MinPrice != nil {
		min = f.MinPrice.String()
	}
	if f.MaxPrice != nil {
		max = f.MaxPrice.String()
	}
	return fmt.Sprintf("catalog:%s|%s|%s|%s|%d", f.Query, f.Category, min, max, limit)
}
