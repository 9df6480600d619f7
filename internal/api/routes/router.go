package routes

import (
	"net/http"

	"github.com/zatekoja/carefinder/internal/api/handlers"
	"github.com/zatekoja/carefinder/internal/api/middleware"
	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler      *handlers.SearchHandler
	categoryHandler    *handlers.CategoryHandler
	geolocationHandler *handlers.GeolocationHandler
	healthHandler      *handlers.HealthHandler

	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware may be nil.
func NewRouter(
	searchHandler *handlers.SearchHandler,
	categoryHandler *handlers.CategoryHandler,
	geolocationHandler *handlers.GeolocationHandler,
	healthHandler *handlers.HealthHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		searchHandler:      searchHandler,
		categoryHandler:    categoryHandler,
		geolocationHandler: geolocationHandler,
		healthHandler:      healthHandler,
		cacheMiddleware:    cacheMiddleware,
		allowedOrigins:     allowedOrigins,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Live)
	r.mux.HandleFunc("GET /health/ready", r.healthHandler.Ready)

	// Search endpoints
	r.mux.HandleFunc("GET /api/search", r.searchHandler.Search)
	r.mux.HandleFunc("GET /api/nearby", r.searchHandler.Search)

	// Category endpoints
	r.mux.HandleFunc("GET /api/categories", r.categoryHandler.ListCategories)

	// Geolocation endpoints
	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)
	r.mux.HandleFunc("GET /api/test-geocode", r.geolocationHandler.TestGeocode)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.RequestID(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORS(r.allowedOrigins)(handler)

	return handler
}
