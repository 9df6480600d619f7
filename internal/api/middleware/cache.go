package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"

	"github.com/zatekoja/carefinder/internal/domain/providers"
	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// DefaultRouteConfigs are the cached GET routes. Paths match exactly.
var DefaultRouteConfigs = map[string]CacheConfig{
	"/api/search":       {TTLSeconds: 300, Enabled: true},
	"/api/nearby":       {TTLSeconds: 300, Enabled: true},
	"/api/geocode":      {TTLSeconds: 3600, Enabled: true},
	"/api/test-geocode": {TTLSeconds: 3600, Enabled: true},
}

// CacheMiddleware provides HTTP response caching
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
	metrics      *observability.Metrics
}

// NewCacheMiddleware creates a cache middleware over DefaultRouteConfigs
func NewCacheMiddleware(cache providers.CacheProvider, metrics *observability.Metrics) *CacheMiddleware {
	return NewCacheMiddlewareWithConfig(cache, metrics, DefaultRouteConfigs)
}

// NewCacheMiddlewareWithConfig creates a cache middleware with custom route configs
func NewCacheMiddlewareWithConfig(cache providers.CacheProvider, metrics *observability.Metrics, configs map[string]CacheConfig) *CacheMiddleware {
	return &CacheMiddleware{
		cache:        cache,
		routeConfigs: configs,
		metrics:      metrics,
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config, ok := m.routeConfigs[r.URL.Path]
		if !ok || !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		logger := observability.LoggerFromContext(ctx)
		cacheKey := CacheKey(r)

		if cached, err := m.cache.Get(ctx, cacheKey); err == nil {
			observability.RecordCacheHit(ctx, m.metrics, r.URL.Path)
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}

		observability.RecordCacheMiss(ctx, m.metrics, r.URL.Path)
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		// Only 200s are stored. A geocode with no match is a 200 and is stored too.
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(ctx, cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to cache response")
			}
		}
	})
}

// CacheKey derives the cache key of a request from its path and canonically
// ordered query
func CacheKey(r *http.Request) string {
	key := r.Method + ":" + r.URL.Path
	if r.URL.RawQuery != "" {
		// Encode sorts by key, so parameter order does not fragment the cache.
		values, err := url.ParseQuery(r.URL.RawQuery)
		if err == nil {
			key += "?" + values.Encode()
		} else {
			key += "?" + r.URL.RawQuery
		}
	}
	hash := sha256.Sum256([]byte(strings.ToLower(key)))
	return "http:cache:" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
