package geolocation

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/zatekoja/carefinder/internal/domain/providers"
	apperrors "github.com/zatekoja/carefinder/pkg/errors"
)

const azureSearchAddressURL = "https://atlas.microsoft.com/search/address/json"

// AzureMapsProvider implements the GeolocationProvider using the Azure Maps Search Address API.
type AzureMapsProvider struct {
	subscriptionKey string
	httpClient      *http.Client
	baseURL         string
}

// NewAzureMapsProvider creates a new Azure Maps geolocation provider.
func NewAzureMapsProvider(subscriptionKey string) *AzureMapsProvider {
	return NewAzureMapsProviderWithOptions(subscriptionKey, azureSearchAddressURL, nil)
}

// NewAzureMapsProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewAzureMapsProviderWithOptions(subscriptionKey, baseURL string, httpClient *http.Client) *AzureMapsProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = azureSearchAddressURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &AzureMapsProvider{
		subscriptionKey: subscriptionKey,
		httpClient:      httpClient,
		baseURL:         baseURL,
	}
}

var _ providers.GeolocationProvider = (*AzureMapsProvider)(nil)

// Search geocodes a free-form address. Candidates keep the upstream ranking.
func (a *AzureMapsProvider) Search(ctx context.Context, address string) ([]providers.GeocodeCandidate, error) {
	query := strings.TrimSpace(address)
	if query == "" {
		return nil, apperrors.NewValidationError("address is required")
	}
	if a.subscriptionKey == "" {
		return nil, apperrors.NewUnauthorizedError("azure maps subscription key is required", nil)
	}

	params := url.Values{}
	params.Set("api-version", "1.0")
	params.Set("subscription-key", a.subscriptionKey)
	params.Set("query", query)

	var payload azureSearchResponse
	if err := getJSON(ctx, a.httpClient, "azure maps", a.baseURL, params, &payload); err != nil {
		return nil, err
	}

	candidates := make([]providers.GeocodeCandidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		formatted := r.Address.FreeformAddress
		if formatted == "" {
			formatted = query
		}
		candidates = append(candidates, providers.GeocodeCandidate{
			Latitude:         r.Position.Lat,
			Longitude:        r.Position.Lon,
			FormattedAddress: formatted,
			Confidence:       string(r.Confidence),
			Type:             r.Type,
		})
	}
	return candidates, nil
}

type azureSearchResponse struct {
	Results []azureSearchResult `json:"results"`
}

type azureSearchResult struct {
	Type       string        `json:"type"`
	Confidence flexString    `json:"confidence"`
	Position   azurePosition `json:"position"`
	Address    azureAddress  `json:"address"`
}

type azurePosition struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type azureAddress struct {
	FreeformAddress string `json:"freeformAddress"`
}
