//go:build integration

package integration

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zatekoja/carefinder/internal/infrastructure/clients/mongodb"
	"github.com/zatekoja/carefinder/internal/infrastructure/clients/redis"
	"github.com/zatekoja/carefinder/pkg/config"
	"github.com/zatekoja/carefinder/pkg/geo"
)

var rockville = geo.Point{Latitude: 39.084, Longitude: -77.1528}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// newTestMongoClient connects to TEST_MONGODB_URI and skips the test when it is unset
func newTestMongoClient(t *testing.T) *mongodb.Client {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("Skipping integration test: TEST_MONGODB_URI not set")
	}
	cfg := &config.MongoConfig{
		URI:            uri,
		Database:       getEnv("TEST_MONGODB_DATABASE", "carefinder_test"),
		Collection:     getEnv("TEST_PROVIDERS_COLLECTION", "businesses"),
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   10 * time.Second,
	}

	client, err := mongodb.NewClient(cfg)
	require.NoError(t, err, "Failed to create mongo client")
	t.Cleanup(func() { _ = client.Close(context.Background()) })
	return client
}

func maybeTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	cfg := &config.RedisConfig{
		Host:     getEnv("TEST_REDIS_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_REDIS_PORT", 6379),
		Password: getEnv("TEST_REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("TEST_REDIS_DB", 0),
	}

	client, err := redis.NewClient(cfg)
	if err != nil {
		t.Logf("Redis unavailable: %v", err)
		return nil
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
