package repositories

import (
	"context"

	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/search"
)

// ProviderRepository defines the read operations the search flow needs from the provider store
type ProviderRepository interface {
	// Search returns at most limit records matching q, nearest first
	Search(ctx context.Context, q *search.Query, limit int) ([]*entities.Provider, error)

	// CategoryCounts returns the number of records per raw Category value
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)

	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}

// ProviderIndexRepository defines write operations on a secondary search index (e.g. Typesense)
type ProviderIndexRepository interface {
	ProviderRepository

	// Index upserts a batch of records into the index
	Index(ctx context.Context, providers []*entities.Provider) error

	// Reset drops and recreates the index
	Reset(ctx context.Context) error
}

// ProviderSource streams every record from the system of record
type ProviderSource interface {
	// ForEachProvider calls fn for each stored record until fn returns an error
	ForEachProvider(ctx context.Context, fn func(*entities.Provider) error) error
}

// CategoryCount is the number of records sharing a Category value
type CategoryCount struct {
	Name  string `json:"name" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}
