package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/carefinder/internal/domain/providers"
)

// RedisAdapter implements the CacheProvider interface using Redis
type RedisAdapter struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisAdapter creates a new Redis cache adapter. Keys are namespaced with prefix.
func NewRedisAdapter(client redis.UniversalClient, prefix string) *RedisAdapter {
	return &RedisAdapter{
		client: client,
		prefix: prefix,
	}
}

var _ providers.CacheProvider = (*RedisAdapter)(nil)

func (a *RedisAdapter) key(k string) string {
	return a.prefix + k
}

// Get retrieves a value from cache
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Get(ctx, a.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}
	return result, nil
}

// Set stores a value in cache with expiration. A non-positive expiration keeps the key forever.
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	var expiration time.Duration
	if expirationSeconds > 0 {
		expiration = time.Duration(expirationSeconds) * time.Second
	}
	if err := a.client.Set(ctx, a.key(key), value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

// Delete removes a value from cache
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Del(ctx, a.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

// Exists checks if a key exists in cache
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	result, err := a.client.Exists(ctx, a.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence in cache: %w", err)
	}
	return result > 0, nil
}
