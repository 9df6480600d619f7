package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/repositories"
	"github.com/zatekoja/carefinder/internal/domain/search"
	apperrors "github.com/zatekoja/carefinder/pkg/errors"
)

// authenticationFailed is the server error code for bad credentials
const authenticationFailed = 18

// ProviderAdapter implements the ProviderRepository interface on a MongoDB collection
type ProviderAdapter struct {
	collection   *mongo.Collection
	queryTimeout time.Duration
}

var (
	_ repositories.ProviderRepository = (*ProviderAdapter)(nil)
	_ repositories.ProviderSource     = (*ProviderAdapter)(nil)
)

// NewProviderAdapter creates a new provider adapter. A zero queryTimeout leaves deadlines to the caller.
func NewProviderAdapter(collection *mongo.Collection, queryTimeout time.Duration) *ProviderAdapter {
	return &ProviderAdapter{
		collection:   collection,
		queryTimeout: queryTimeout,
	}
}

// Search runs the compiled query and returns at most limit documents
func (a *ProviderAdapter) Search(ctx context.Context, q *search.Query, limit int) ([]*entities.Provider, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	cursor, err := a.collection.Find(ctx, CompileFilter(q), FindOptions(q, limit))
	if err != nil {
		return nil, classifyError("failed to search providers", err)
	}
	defer cursor.Close(ctx)

	providers := make([]*entities.Provider, 0, limit)
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, classifyError("failed to decode providers", err)
	}
	return providers, nil
}

// CategoryCounts groups processed records by Category
func (a *ProviderAdapter) CategoryCounts(ctx context.Context) ([]repositories.CategoryCount, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: string(search.FieldProcessed), Value: true},
			{Key: string(search.FieldCategory), Value: bson.D{
				{Key: "$exists", Value: true},
				{Key: "$nin", Value: bson.A{nil, ""}},
			}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + string(search.FieldCategory)},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := a.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, classifyError("failed to aggregate categories", err)
	}
	defer cursor.Close(ctx)

	var counts []repositories.CategoryCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, classifyError("failed to decode categories", err)
	}
	return counts, nil
}

// ForEachProvider streams every processed record with a location
func (a *ProviderAdapter) ForEachProvider(ctx context.Context, fn func(*entities.Provider) error) error {
	filter := bson.D{
		{Key: string(search.FieldProcessed), Value: true},
		{Key: string(search.FieldLocation), Value: bson.D{{Key: "$exists", Value: true}}},
	}
	cursor, err := a.collection.Find(ctx, filter)
	if err != nil {
		return classifyError("failed to scan providers", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p entities.Provider
		if err := cursor.Decode(&p); err != nil {
			return classifyError("failed to decode provider", err)
		}
		if err := fn(&p); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return classifyError("failed to scan providers", err)
	}
	return nil
}

// Ping checks that the primary is reachable
func (a *ProviderAdapter) Ping(ctx context.Context) error {
	if err := a.collection.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return classifyError("document store ping failed", err)
	}
	return nil
}

func (a *ProviderAdapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.queryTimeout)
}

// classifyError maps driver failures onto application error types
func classifyError(message string, err error) error {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorCode(authenticationFailed) {
		return apperrors.NewUnauthorizedError("document store authentication failed", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "authentication failed"), strings.Contains(msg, "auth error"):
		return apperrors.NewUnauthorizedError("document store authentication failed", err)
	case mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		errors.Is(err, context.DeadlineExceeded),
		strings.Contains(msg, "server selection"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"):
		return apperrors.NewUnavailableError("document store unavailable", err)
	default:
		return apperrors.NewInternalError(message, err)
	}
}
