package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/providers"
	"github.com/zatekoja/carefinder/internal/domain/repositories"
	"github.com/zatekoja/carefinder/internal/domain/search"
)

// CategoryCountsCacheKey is the cache key of the aggregated category counts
const CategoryCountsCacheKey = "providers:categories:v1"

// CachedProviderAdapter wraps a ProviderRepository with caching of category counts.
// Searches always go to the store.
type CachedProviderAdapter struct {
	adapter repositories.ProviderRepository
	cache   providers.CacheProvider
	ttl     time.Duration
}

// NewCachedProviderAdapter creates a new cached provider adapter
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider, ttl time.Duration) *CachedProviderAdapter {
	return &CachedProviderAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttl,
	}
}

// Search delegates to the wrapped repository
func (a *CachedProviderAdapter) Search(ctx context.Context, q *search.Query, limit int) ([]*entities.Provider, error) {
	return a.adapter.Search(ctx, q, limit)
}

// CategoryCounts returns cached counts when available
func (a *CachedProviderAdapter) CategoryCounts(ctx context.Context) ([]repositories.CategoryCount, error) {
	if cached, err := a.cache.Get(ctx, CategoryCountsCacheKey); err == nil {
		var counts []repositories.CategoryCount
		if err := json.Unmarshal(cached, &counts); err == nil {
			return counts, nil
		}
		log.Warn().Err(err).Str("key", CategoryCountsCacheKey).Msg("Failed to unmarshal cached category counts")
	}

	counts, err := a.adapter.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(counts); err == nil {
		if err := a.cache.Set(ctx, CategoryCountsCacheKey, data, int(a.ttl.Seconds())); err != nil {
			log.Warn().Err(err).Msg("Failed to cache category counts")
		}
	}
	return counts, nil
}

// Refresh recomputes the category counts and stores them in the cache
func (a *CachedProviderAdapter) Refresh(ctx context.Context) error {
	if err := a.cache.Delete(ctx, CategoryCountsCacheKey); err != nil {
		log.Warn().Err(err).Msg("Failed to evict category counts")
	}
	_, err := a.CategoryCounts(ctx)
	return err
}

// Ping delegates to the wrapped repository
func (a *CachedProviderAdapter) Ping(ctx context.Context) error {
	return a.adapter.Ping(ctx)
}
