package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/carefinder/internal/domain/providers"
)

// geocodeCacheKeyPrefix versions cached candidate lists
const geocodeCacheKeyPrefix = "geo:v3:search:"

// CachedGeolocationProvider wraps a GeolocationProvider with a response cache.
// Only successful lookups with at least one candidate are cached.
type CachedGeolocationProvider struct {
	inner providers.GeolocationProvider
	cache providers.CacheProvider
	ttl   time.Duration
}

// NewCachedGeolocationProvider creates a new cached geolocation provider
func NewCachedGeolocationProvider(inner providers.GeolocationProvider, cache providers.CacheProvider, ttl time.Duration) *CachedGeolocationProvider {
	return &CachedGeolocationProvider{inner: inner, cache: cache, ttl: ttl}
}

var _ providers.GeolocationProvider = (*CachedGeolocationProvider)(nil)

// GeocodeCacheKey returns the cache key for an address
func GeocodeCacheKey(address string) string {
	return geocodeCacheKeyPrefix + hashKey(strings.ToLower(strings.TrimSpace(address)))
}

// Search returns cached candidates when available
func (c *CachedGeolocationProvider) Search(ctx context.Context, address string) ([]providers.GeocodeCandidate, error) {
	key := GeocodeCacheKey(address)
	if cached, err := c.cache.Get(ctx, key); err == nil && len(cached) > 0 {
		var candidates []providers.GeocodeCandidate
		if err := json.Unmarshal(cached, &candidates); err == nil && len(candidates) > 0 {
			return candidates, nil
		}
	}

	candidates, err := c.inner.Search(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	if payload, err := json.Marshal(candidates); err == nil {
		if err := c.cache.Set(ctx, key, payload, int(c.ttl.Seconds())); err != nil {
			log.Warn().Err(err).Msg("Failed to cache geocode result")
		}
	}
	return candidates, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
