package geolocation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/zatekoja/carefinder/internal/domain/providers"
	apperrors "github.com/zatekoja/carefinder/pkg/errors"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeolocationProvider implements the GeolocationProvider using the Google Geocoding API.
type GoogleGeolocationProvider struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewGoogleGeolocationProvider creates a new Google geolocation provider.
func NewGoogleGeolocationProvider(apiKey string) *GoogleGeolocationProvider {
	return NewGoogleGeolocationProviderWithOptions(apiKey, googleGeocodeURL, nil)
}

// NewGoogleGeolocationProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleGeolocationProviderWithOptions(apiKey, baseURL string, httpClient *http.Client) *GoogleGeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleGeolocationProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

var _ providers.GeolocationProvider = (*GoogleGeolocationProvider)(nil)

// Search geocodes a free-form address.
func (g *GoogleGeolocationProvider) Search(ctx context.Context, address string) ([]providers.GeocodeCandidate, error) {
	query := strings.TrimSpace(address)
	if query == "" {
		return nil, apperrors.NewValidationError("address is required")
	}
	if g.apiKey == "" {
		return nil, apperrors.NewUnauthorizedError("google maps api key is required", nil)
	}

	params := url.Values{}
	params.Set("address", query)
	params.Set("key", g.apiKey)

	var payload googleGeocodeResponse
	if err := getJSON(ctx, g.httpClient, "google geocoding", g.baseURL, params, &payload); err != nil {
		return nil, err
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []providers.GeocodeCandidate{}, nil
	case "REQUEST_DENIED":
		return nil, apperrors.NewUnauthorizedError("google geocoding rejected the api key", statusError(payload))
	default:
		return nil, apperrors.NewExternalError("google geocoding request failed", statusError(payload))
	}

	candidates := make([]providers.GeocodeCandidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		candidates = append(candidates, providers.GeocodeCandidate{
			Latitude:         r.Geometry.Location.Lat,
			Longitude:        r.Geometry.Location.Lng,
			FormattedAddress: r.FormattedAddress,
			Confidence:       r.Geometry.LocationType,
			Type:             firstType(r.Types),
		})
	}
	return candidates, nil
}

func statusError(payload googleGeocodeResponse) error {
	if payload.ErrorMessage != "" {
		return fmt.Errorf("%s - %s", payload.Status, payload.ErrorMessage)
	}
	return fmt.Errorf("%s", payload.Status)
}

func firstType(types []string) string {
	if len(types) == 0 {
		return ""
	}
	return types[0]
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress string         `json:"formatted_address"`
	Types            []string       `json:"types"`
	Geometry         googleGeometry `json:"geometry"`
}

type googleGeometry struct {
	Location     googleLocation `json:"location"`
	LocationType string         `json:"location_type"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
