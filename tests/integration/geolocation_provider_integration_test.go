//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/carefinder/internal/adapters/cache"
	"github.com/zatekoja/carefinder/internal/adapters/providers/geolocation"
	"github.com/zatekoja/carefinder/internal/application/services"
	"github.com/zatekoja/carefinder/internal/domain/providers"
	"github.com/zatekoja/carefinder/pkg/config"
	apperrors "github.com/zatekoja/carefinder/pkg/errors"
)

func TestAzureMapsGeocoding(t *testing.T) {
	key := os.Getenv("TEST_AZURE_MAPS_KEY")
	if key == "" {
		t.Skip("Skipping integration test: TEST_AZURE_MAPS_KEY not set")
	}

	var cacheProvider providers.CacheProvider
	if redisClient := maybeTestRedisClient(t); redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient.Client(), "carefinder:test:")
	}

	provider, err := geolocation.NewGeolocationProvider(config.GeolocationConfig{
		Provider: "azure",
		APIKey:   key,
		Timeout:  10 * time.Second,
		CacheTTL: time.Hour,
	}, cacheProvider)
	require.NoError(t, err)

	svc := services.NewGeocodingService(provider, nil)
	ctx := context.Background()

	res, err := svc.Geocode(ctx, "1101 Wootton Pkwy, Rockville, MD 20852")
	require.NoError(t, err)
	assert.InDelta(t, 39.08, res.Best.Latitude, 0.05)
	assert.InDelta(t, -77.15, res.Best.Longitude, 0.05)

	_, err = svc.Geocode(ctx, "zzqxv plyth wrrnk 00000")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
