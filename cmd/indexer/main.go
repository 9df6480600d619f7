package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/carefinder/internal/adapters/database"
	"github.com/zatekoja/carefinder/internal/adapters/search"
	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/repositories"
	domainsearch "github.com/zatekoja/carefinder/internal/domain/search"
	"github.com/zatekoja/carefinder/internal/infrastructure/clients/mongodb"
	"github.com/zatekoja/carefinder/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
	"github.com/zatekoja/carefinder/pkg/config"
	"github.com/zatekoja/carefinder/pkg/geo"
	"github.com/zatekoja/carefinder/pkg/utils"
)

// Sample query used to verify the geo index after reindexing.
var (
	sampleCenter   = geo.Point{Latitude: 39.084, Longitude: -77.1528}
	sampleRadiusKm = 50.0
)

const indexBatchSize = 100

type options struct {
	indexes   bool
	locations bool
	typesense bool
	reset     bool
}

func main() {
	var opts options
	var intervalFlag string
	flag.BoolVar(&opts.indexes, "indexes", true, "create the provider indexes on every collection")
	flag.BoolVar(&opts.locations, "reindex-locations", false, "drop and recreate location indexes and report counts")
	flag.BoolVar(&opts.typesense, "typesense", false, "sync processed providers into Typesense")
	flag.BoolVar(&opts.reset, "reset", false, "delete existing Typesense collection before syncing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for the Typesense sync (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger("carefinder-indexer", cfg.App.Env)

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}
	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil || interval <= 0 {
			log.Fatal().Str("interval", intervalValue).Msg("Interval must be a positive duration")
		}
	}
	if os.Getenv("RESET_TYPESENSE") == "true" {
		opts.reset = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongodb.NewClient(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Close(closeCtx)
	}()

	if opts.indexes || opts.locations {
		if err := maintainIndexes(ctx, mongoClient, cfg, opts); err != nil {
			log.Fatal().Err(err).Msg("Index maintenance failed")
		}
	}

	if !opts.typesense {
		return
	}

	for {
		if err := syncTypesense(ctx, mongoClient, cfg, opts.reset); err != nil {
			log.Error().Err(err).Msg("Typesense sync failed")
		}
		if interval <= 0 {
			return
		}
		opts.reset = false
		log.Info().Dur("next_run_in", interval).Msg("Typesense sync complete")
		select {
		case <-ctx.Done():
			log.Info().Msg("Indexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func maintainIndexes(ctx context.Context, client *mongodb.Client, cfg *config.Config, opts options) error {
	names, err := database.ListProviderCollections(ctx, client.Database())
	if err != nil {
		return err
	}
	log.Info().Int("collections", len(names)).Msg("Found collections")

	var withLocations int
	var totalLocated int64
	for _, name := range names {
		coll := client.Database().Collection(name)
		logger := log.With().Str("collection", name).Str("category", utils.HumanReadable(name)).Logger()

		if opts.indexes {
			created, err := database.EnsureIndexes(ctx, coll)
			if err != nil {
				logger.Error().Err(err).Int("created", len(created)).Msg("Some indexes could not be created")
			} else {
				logger.Info().Int("indexes", len(created)).Msg("Indexes ensured")
			}
		}

		if opts.locations {
			stats, err := database.ReindexLocations(ctx, coll)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to reindex locations")
				continue
			}
			if stats.Located == 0 {
				logger.Info().Msg("No location data, skipping")
				continue
			}
			withLocations++
			totalLocated += stats.Located
			logger.Info().
				Int64("total", stats.Total).
				Int64("processed", stats.Processed).
				Int64("located", stats.Located).
				Int64("processed_located", stats.ProcessedLocated).
				Msg("Location index recreated")
		}
	}

	if !opts.locations {
		return nil
	}
	log.Info().
		Int("collections_with_locations", withLocations).
		Int64("documents_with_locations", totalLocated).
		Int("collections_without_locations", len(names)-withLocations).
		Msg("Location reindex summary")

	return sampleQuery(ctx, database.NewProviderAdapter(client.Providers(), cfg.Mongo.QueryTimeout))
}

func sampleQuery(ctx context.Context, repo repositories.ProviderRepository) error {
	q, err := domainsearch.Build(sampleCenter, sampleRadiusKm, domainsearch.Filters{})
	if err != nil {
		return err
	}
	found, err := repo.Search(ctx, q, 5)
	if err != nil {
		log.Error().Err(err).Msg("Geospatial query test failed, check the location indexes")
		return err
	}
	event := log.Info().Int("found", len(found)).Float64("radius_km", sampleRadiusKm)
	if len(found) > 0 {
		event = event.Str("sample", found[0].Name)
	}
	event.Msg("Geospatial query test succeeded")
	return nil
}

func syncTypesense(ctx context.Context, client *mongodb.Client, cfg *config.Config, reset bool) error {
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}
	index := search.NewTypesenseAdapter(tsClient)
	if !reset {
		if err := index.InitSchema(ctx); err != nil {
			return err
		}
	}
	source := database.NewProviderAdapter(client.Providers(), 0)
	return syncIndex(ctx, source, index, reset)
}

// syncIndex copies every searchable provider from source into index in batches
func syncIndex(ctx context.Context, source repositories.ProviderSource, index repositories.ProviderIndexRepository, reset bool) error {
	if reset {
		log.Info().Msg("Resetting Typesense collection")
		if err := index.Reset(ctx); err != nil {
			return err
		}
	}

	batch := make([]*entities.Provider, 0, indexBatchSize)
	var indexed, skipped int
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := index.Index(ctx, batch); err != nil {
			return err
		}
		indexed += len(batch)
		batch = batch[:0]
		return nil
	}

	err := source.ForEachProvider(ctx, func(p *entities.Provider) error {
		if !p.Searchable() {
			skipped++
			return nil
		}
		batch = append(batch, p)
		if len(batch) == indexBatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	log.Info().Int("indexed", indexed).Int("skipped", skipped).Msg("Typesense sync finished")
	return nil
}
