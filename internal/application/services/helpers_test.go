package services_test

import (
	"context"
	"sort"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/repositories"
	"github.com/zatekoja/carefinder/internal/domain/search"
	"github.com/zatekoja/carefinder/pkg/geo"
)

var rockville = geo.Point{Latitude: 39.084, Longitude: -77.1528}

// memoryRepository evaluates queries in memory and returns nearest first, like $near.
type memoryRepository struct {
	docs  []*entities.Provider
	calls int
}

func (r *memoryRepository) Search(_ context.Context, q *search.Query, limit int) ([]*entities.Provider, error) {
	r.calls++
	var out []*entities.Provider
	for _, doc := range r.docs {
		if q.Matches(doc) {
			out = append(out, doc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return distance(q.Near.Center, out[i]) < distance(q.Near.Center, out[j])
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepository) CategoryCounts(_ context.Context) ([]repositories.CategoryCount, error) {
	counts := map[string]int{}
	for _, doc := range r.docs {
		if doc.Processed && doc.Category != "" {
			counts[doc.Category]++
		}
	}
	out := make([]repositories.CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, repositories.CategoryCount{Name: name, Count: n})
	}
	return out, nil
}

func (r *memoryRepository) Ping(context.Context) error { return nil }

func distance(center geo.Point, p *entities.Provider) float64 {
	return geo.Haversine(center, geo.Point{Latitude: p.Location.Lat(), Longitude: p.Location.Lng()})
}

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

func provider(id string, lat, lng float64) *entities.Provider {
	return &entities.Provider{
		ID:        id,
		Name:      "Provider " + id,
		Category:  "Primary Care",
		Processed: true,
		Location:  entities.NewGeoPoint(lat, lng),
	}
}

func service(name string, free, discounted *bool) entities.ServiceEntry {
	return entities.ServiceEntry{Name: name, IsFree: free, IsDiscounted: discounted}
}
