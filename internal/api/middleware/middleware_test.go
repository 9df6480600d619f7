package middleware_test

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/carefinder/internal/adapters/cache"
	"github.com/zatekoja/carefinder/internal/api/middleware"
	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	restricted := middleware.CORS([]string{"https://app.example.com"})(ok)

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	restricted.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	restricted.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	open := middleware.CORS(nil)(ok)
	preflight := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	preflight.Header.Set("Origin", "https://anywhere.example.com")
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, preflight)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func newCacheMiddleware(t *testing.T) (*middleware.CacheMiddleware, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return middleware.NewCacheMiddleware(cache.NewRedisAdapter(client, ""), nil), mr
}

func TestCacheMiddleware_HitAfterMiss(t *testing.T) {
	m, mr := newCacheMiddleware(t)
	var calls atomic.Int32
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1"}]`))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?lat=39&lng=-77", nil))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?lng=-77&lat=39", nil))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"), "parameter order does not matter")
	assert.Equal(t, `[{"id":"p1"}]`, rec.Body.String())
	assert.Equal(t, int32(1), calls.Load())

	key := middleware.CacheKey(httptest.NewRequest(http.MethodGet, "/api/search?lat=39&lng=-77", nil))
	assert.Equal(t, 300, int(mr.TTL(key).Seconds()))
}

func TestCacheMiddleware_SkipsErrorsAndUncachedRoutes(t *testing.T) {
	m, mr := newCacheMiddleware(t)
	failing := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"down"}`))
	}))

	rec := httptest.NewRecorder()
	failing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?lat=39&lng=-77", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, mr.Keys())

	rec = httptest.NewRecorder()
	m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, mr.Keys())
}

func TestCacheMiddleware_NilCachePassesThrough(t *testing.T) {
	m := middleware.NewCacheMiddleware(nil, nil)
	rec := httptest.NewRecorder()
	m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))
	assert.Equal(t, "[]", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestResponseOptimization_ETagAndHandlerCacheControl(t *testing.T) {
	h := middleware.ResponseOptimization(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600, stale-while-revalidate=86400")
		_, _ = w.Write([]byte(`[{"name":"Dental"}]`))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "public, max-age=3600, stale-while-revalidate=86400", rec.Header().Get("Cache-Control"))

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestCompression(t *testing.T) {
	h := middleware.Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello providers"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "hello providers", string(body))
}
