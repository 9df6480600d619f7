package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/carefinder/internal/adapters/cache"
	"github.com/zatekoja/carefinder/internal/adapters/database"
	"github.com/zatekoja/carefinder/internal/adapters/providers/geolocation"
	"github.com/zatekoja/carefinder/internal/adapters/search"
	"github.com/zatekoja/carefinder/internal/api/handlers"
	"github.com/zatekoja/carefinder/internal/api/middleware"
	"github.com/zatekoja/carefinder/internal/api/routes"
	"github.com/zatekoja/carefinder/internal/application/services"
	"github.com/zatekoja/carefinder/internal/domain/providers"
	"github.com/zatekoja/carefinder/internal/domain/repositories"
	"github.com/zatekoja/carefinder/internal/infrastructure/clients/mongodb"
	"github.com/zatekoja/carefinder/internal/infrastructure/clients/redis"
	"github.com/zatekoja/carefinder/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
	"github.com/zatekoja/carefinder/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	mongoClient, err := mongodb.NewClient(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Close(ctx); err != nil {
			log.Error().Err(err).Msg("Error closing MongoDB client")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("MongoDB client initialized")

	deps := map[string]handlers.Pinger{"mongodb": mongoClient}

	// Redis is optional; every cache user accepts a nil provider.
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, running without cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient.Client(), "carefinder:")
			deps["redis"] = redisClient
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
		}
	}

	var providerRepo repositories.ProviderRepository = database.NewProviderAdapter(mongoClient.Providers(), cfg.Mongo.QueryTimeout)
	if cfg.Search.Backend == "typesense" {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Fatal().Err(err).Msg("SEARCH_BACKEND=typesense but Typesense is unreachable")
		}
		adapter := search.NewTypesenseAdapter(tsClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		}
		providerRepo = adapter
		deps["typesense"] = tsClient
		log.Info().Str("collection", tsClient.CollectionName()).Msg("Searching through Typesense")
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cached := database.NewCachedProviderAdapter(providerRepo, cacheProvider, cfg.Search.CategoryTTL)
		providerRepo = cached
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)

		warmer := services.NewCacheWarmingService(30 * time.Second)
		warmer.Register("categories", cached)
		warmer.StartPeriodicWarming(ctx, max(cfg.Search.CategoryTTL/2, time.Minute))
	}

	geoProvider, err := geolocation.NewGeolocationProvider(cfg.Geolocation, cacheProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize geolocation provider")
	}
	log.Info().Str("provider", cfg.Geolocation.Provider).Msg("Geolocation provider initialized")

	searchService := services.NewProviderSearchService(
		providerRepo,
		services.NewResultProcessor(cfg.Search.ResultLimit),
		cfg.Search.CandidateLimit,
		metrics,
	)
	categoryService := services.NewCategoryService(providerRepo, metrics)
	geocodingService := services.NewGeocodingService(geoProvider, metrics)

	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService, cfg.Search.DefaultRadiusKm),
		handlers.NewCategoryHandler(categoryService),
		handlers.NewGeolocationHandler(geocodingService),
		handlers.NewHealthHandler(deps, 2*time.Second),
		cacheMiddleware,
		cfg.App.AllowedOrigins,
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("backend", cfg.Search.Backend).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
