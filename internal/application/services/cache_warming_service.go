package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Refresher recomputes a cached aggregate
type Refresher interface {
	Refresh(ctx context.Context) error
}

// CacheWarmingService keeps the category counts cache warm so the listing
// endpoint rarely pays for the aggregation
type CacheWarmingService struct {
	refreshers map[string]Refresher
	timeout    time.Duration
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(timeout time.Duration) *CacheWarmingService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CacheWarmingService{
		refreshers: make(map[string]Refresher),
		timeout:    timeout,
	}
}

// Register adds a named refresher. Registering a name twice replaces the first.
func (s *CacheWarmingService) Register(name string, r Refresher) {
	s.refreshers[name] = r
}

// WarmCache runs every refresher once. Failures are logged and counted, never fatal.
func (s *CacheWarmingService) WarmCache(ctx context.Context) int {
	log.Debug().Int("refreshers", len(s.refreshers)).Msg("Starting cache warming")

	failed := 0
	for name, r := range s.refreshers {
		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := r.Refresh(rctx)
		cancel()
		if err != nil {
			failed++
			log.Warn().Err(err).Str("cache", name).Msg("Failed to warm cache")
			continue
		}
		log.Debug().Str("cache", name).Msg("Cache warmed")
	}
	return failed
}

// StartPeriodicWarming warms once, then again every interval until ctx is done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	if failed := s.WarmCache(ctx); failed > 0 {
		log.Warn().Int("failed", failed).Msg("Initial cache warming incomplete")
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Stopping cache warming service")
				return
			case <-ticker.C:
				s.WarmCache(ctx)
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("Started periodic cache warming")
}
