package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/carefinder/internal/adapters/database"
	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/repositories"
	"github.com/zatekoja/carefinder/internal/domain/search"
)

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Search(ctx context.Context, q *search.Query, limit int) ([]*entities.Provider, error) {
	args := m.Called(ctx, q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) CategoryCounts(ctx context.Context) ([]repositories.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.CategoryCount), args.Error(1)
}

func (m *MockProviderRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type memoryCache struct {
	data map[string][]byte
	ttls map[string]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("key not found")
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	c.data[key] = value
	c.ttls[key] = expirationSeconds
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

func TestCachedProviderAdapter_CategoryCounts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProviderRepository)
	cache := newMemoryCache()
	counts := []repositories.CategoryCount{{Name: "Pharmacy", Count: 3}}
	repo.On("CategoryCounts", ctx).Return(counts, nil).Once()

	adapter := database.NewCachedProviderAdapter(repo, cache, time.Hour)

	first, err := adapter.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, counts, first)
	assert.Equal(t, 3600, cache.ttls[database.CategoryCountsCacheKey])

	second, err := adapter.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, counts, second)

	repo.AssertNumberOfCalls(t, "CategoryCounts", 1)
}

func TestCachedProviderAdapter_CorruptEntryFallsThrough(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProviderRepository)
	cache := newMemoryCache()
	cache.data[database.CategoryCountsCacheKey] = []byte("{not json")
	counts := []repositories.CategoryCount{{Name: "Dental", Count: 1}}
	repo.On("CategoryCounts", ctx).Return(counts, nil)

	adapter := database.NewCachedProviderAdapter(repo, cache, time.Hour)
	got, err := adapter.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, counts, got)
}

func TestCachedProviderAdapter_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProviderRepository)
	cache := newMemoryCache()
	repo.On("CategoryCounts", ctx).Return(nil, errors.New("down"))

	adapter := database.NewCachedProviderAdapter(repo, cache, time.Hour)
	_, err := adapter.CategoryCounts(ctx)
	assert.Error(t, err)

	exists, _ := cache.Exists(ctx, database.CategoryCountsCacheKey)
	assert.False(t, exists)
}

func TestCachedProviderAdapter_Refresh(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProviderRepository)
	cache := newMemoryCache()
	stale := []repositories.CategoryCount{{Name: "Old", Count: 1}}
	fresh := []repositories.CategoryCount{{Name: "New", Count: 2}}
	repo.On("CategoryCounts", ctx).Return(stale, nil).Once()
	repo.On("CategoryCounts", ctx).Return(fresh, nil).Once()

	adapter := database.NewCachedProviderAdapter(repo, cache, time.Hour)
	_, err := adapter.CategoryCounts(ctx)
	require.NoError(t, err)

	require.NoError(t, adapter.Refresh(ctx))
	got, err := adapter.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}

func TestCachedProviderAdapter_SearchPassesThrough(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProviderRepository)
	q, err := search.Build(rockville, 10, search.Filters{})
	require.NoError(t, err)
	found := []*entities.Provider{{ID: "p1"}}
	repo.On("Search", ctx, q, 50).Return(found, nil)
	repo.On("Ping", ctx).Return(nil)

	adapter := database.NewCachedProviderAdapter(repo, newMemoryCache(), time.Hour)
	got, err := adapter.Search(ctx, q, 50)
	require.NoError(t, err)
	assert.Equal(t, found, got)
	assert.NoError(t, adapter.Ping(ctx))
}
