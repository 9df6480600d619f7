package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/carefinder/internal/domain/providers"
	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/carefinder/pkg/errors"
)

// DefaultTestAddress is geocoded by the diagnostic endpoint when no address is given
const DefaultTestAddress = "1101 Wootton Pkwy suite 540, Rockville, MD 20852"

// CleanAddress keeps the first line of a pasted address, drops anything after a
// '⋅' separator and trims surrounding whitespace.
func CleanAddress(address string) string {
	if i := strings.IndexAny(address, "\r\n"); i >= 0 {
		address = address[:i]
	}
	if i := strings.Index(address, "⋅"); i >= 0 {
		address = address[:i]
	}
	return strings.TrimSpace(address)
}

// GeocodeResult is the best candidate for an address
type GeocodeResult struct {
	Query        string
	Best         providers.GeocodeCandidate
	TotalResults int
}

// GeocodingService resolves free-form addresses to coordinates
type GeocodingService struct {
	provider providers.GeolocationProvider
	metrics  *observability.Metrics
}

// NewGeocodingService creates a new geocoding service
func NewGeocodingService(provider providers.GeolocationProvider, metrics *observability.Metrics) *GeocodingService {
	return &GeocodingService{provider: provider, metrics: metrics}
}

// Geocode returns the first candidate for the cleaned address. A blank address is
// a validation error and no candidates is a not-found error.
func (s *GeocodingService) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	ctx, span := observability.StartSpan(ctx, "GeocodingService.Geocode")
	defer span.End()

	query := CleanAddress(address)
	if query == "" {
		return nil, apperrors.NewValidationError("address is required")
	}
	span.SetAttributes(attribute.Int("geocode.query_length", len(query)))

	candidates, err := s.provider.Search(ctx, query)
	if err != nil {
		observability.RecordGeocode(ctx, s.metrics, "error")
		observability.RecordError(span, err)
		return nil, err
	}
	if len(candidates) == 0 {
		observability.RecordGeocode(ctx, s.metrics, "not_found")
		return nil, apperrors.NewNotFoundError("address not found")
	}
	observability.RecordGeocode(ctx, s.metrics, "found")

	best := candidates[0]
	if best.FormattedAddress == "" {
		best.FormattedAddress = query
	}
	return &GeocodeResult{
		Query:        query,
		Best:         best,
		TotalResults: len(candidates),
	}, nil
}
