package geolocation

import (
	"fmt"
	"net/http"

	"github.com/zatekoja/carefinder/internal/domain/providers"
	"github.com/zatekoja/carefinder/pkg/config"
)

// NewGeolocationProvider builds the configured provider. When cache is non-nil
// lookups are cached for cfg.CacheTTL.
func NewGeolocationProvider(cfg config.GeolocationConfig, cache providers.CacheProvider) (providers.GeolocationProvider, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		httpClient.Timeout = defaultHTTPTimeout
	}

	var provider providers.GeolocationProvider
	switch cfg.Provider {
	case "azure", "":
		provider = NewAzureMapsProviderWithOptions(cfg.APIKey, cfg.BaseURL, httpClient)
	case "google":
		provider = NewGoogleGeolocationProviderWithOptions(cfg.APIKey, cfg.BaseURL, httpClient)
	case "mock":
		return NewMockGeolocationProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported geolocation provider %q", cfg.Provider)
	}

	if cache != nil {
		provider = NewCachedGeolocationProvider(provider, cache, cfg.CacheTTL)
	}
	return provider, nil
}
