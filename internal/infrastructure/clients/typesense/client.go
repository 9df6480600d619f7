package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"

	"github.com/zatekoja/carefinder/pkg/config"
	"github.com/zatekoja/carefinder/pkg/retry"
)

// Client represents a Typesense client bound to the provider collection
type Client struct {
	client     *typesense.Client
	collection string
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	return Connect(cfg, retry.DefaultConfig())
}

// Connect creates a new Typesense client and waits for a healthy server using policy
func Connect(cfg *config.TypesenseConfig, policy retry.Config) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.DoWithLog(
		context.Background(),
		policy,
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			ok, err := client.Health(ctx, 2*time.Second)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("typesense reported unhealthy")
			}
			return nil
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("Typesense connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("Successfully connected to Typesense")
	return &Client{client: client, collection: cfg.Collection}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// CollectionName returns the provider collection name
func (c *Client) CollectionName() string {
	return c.collection
}

// Ping checks server health
func (c *Client) Ping(ctx context.Context) error {
	ok, err := c.client.Health(ctx, 2*time.Second)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("typesense reported unhealthy")
	}
	return nil
}
