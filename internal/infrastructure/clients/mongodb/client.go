package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/zatekoja/carefinder/pkg/config"
	"github.com/zatekoja/carefinder/pkg/retry"
)

// Client represents a MongoDB (or Cosmos DB Mongo API) client bound to one database
type Client struct {
	client     *mongo.Client
	database   *mongo.Database
	collection string
}

// NewClient connects to the document store and pings it with exponential backoff retry
func NewClient(cfg *config.MongoConfig) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetRetryWrites(false)

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	err = retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		"MongoDB",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
			defer cancel()
			return client.Ping(ctx, readpref.Primary())
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("MongoDB connection attempt failed")
		},
	)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to connect to MongoDB after retries: %w", err)
	}

	log.Info().Str("database", cfg.Database).Msg("Successfully connected to MongoDB")
	return &Client{
		client:     client,
		database:   client.Database(cfg.Database),
		collection: cfg.Collection,
	}, nil
}

// Database returns the configured database
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Providers returns the provider collection
func (c *Client) Providers() *mongo.Collection {
	return c.database.Collection(c.collection)
}

// Ping verifies the connection to the primary
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
