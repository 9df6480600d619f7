package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/repositories"
	"github.com/zatekoja/carefinder/internal/domain/search"
	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
	"github.com/zatekoja/carefinder/pkg/geo"
)

// DefaultCandidateLimit caps the number of documents read from the store per search
const DefaultCandidateLimit = 50

// SearchRequest is a radius search around a point
type SearchRequest struct {
	Center   geo.Point
	RadiusKm float64
	Filters  search.Filters
}

// ProviderSearchService runs nearby searches: build the query, read candidates, rank them
type ProviderSearchService struct {
	repo           repositories.ProviderRepository
	processor      *ResultProcessor
	candidateLimit int
	metrics        *observability.Metrics
}

// NewProviderSearchService creates a new provider search service
func NewProviderSearchService(repo repositories.ProviderRepository, processor *ResultProcessor, candidateLimit int, metrics *observability.Metrics) *ProviderSearchService {
	if candidateLimit <= 0 {
		candidateLimit = DefaultCandidateLimit
	}
	if processor == nil {
		processor = NewResultProcessor(DefaultResultLimit)
	}
	return &ProviderSearchService{
		repo:           repo,
		processor:      processor,
		candidateLimit: candidateLimit,
		metrics:        metrics,
	}
}

// Search returns ranked providers within the radius that satisfy every filter
func (s *ProviderSearchService) Search(ctx context.Context, req SearchRequest) ([]entities.ProviderSearchResult, error) {
	ctx, span := observability.StartSpan(ctx, "ProviderSearchService.Search")
	defer span.End()

	q, err := search.Build(req.Center, req.RadiusKm, req.Filters)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	observability.SetSpanAttributes(span,
		attribute.Float64("search.lat", req.Center.Latitude),
		attribute.Float64("search.lng", req.Center.Longitude),
		attribute.Float64("search.radius_km", req.RadiusKm),
		attribute.Int("search.clauses", len(q.Clauses)),
	)

	start := time.Now()
	docs, err := s.repo.Search(ctx, q, s.candidateLimit)
	observability.RecordStoreMetric(ctx, s.metrics, "search", time.Since(start), err)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	results := s.processor.Process(req.Center, docs)
	observability.RecordSearchResults(ctx, s.metrics, len(results))
	span.SetAttributes(attribute.Int("search.results", len(results)))
	return results, nil
}
