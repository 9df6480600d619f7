package providers

import (
	"context"
)

// GeolocationProvider defines the interface for geocoding services
type GeolocationProvider interface {
	// Search converts a free-form address into ranked candidates.
	// An address with no match returns an empty slice and a nil error.
	Search(ctx context.Context, address string) ([]GeocodeCandidate, error)
}

// GeocodeCandidate is one geocoding match
type GeocodeCandidate struct {
	Latitude         float64 `json:"lat"`
	Longitude        float64 `json:"lng"`
	FormattedAddress string  `json:"address"`
	Confidence       string  `json:"confidence,omitempty"`
	Type             string  `json:"type,omitempty"`
}
