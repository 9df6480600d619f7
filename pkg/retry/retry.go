package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig returns the policy used when connecting to backing services at startup
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

// LogFunc is called after each failed attempt that will be retried
type LogFunc func(attempt int, err error, nextDelay time.Duration)

// Do executes fn with exponential backoff until it succeeds, attempts run out or ctx ends
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return run(ctx, cfg, fn, nil)
}

// DoWithLog is Do with the service name prefixed to errors and logFn called between attempts
func DoWithLog(ctx context.Context, cfg Config, serviceName string, fn func() error, logFn LogFunc) error {
	if err := run(ctx, cfg, fn, logFn); err != nil {
		return fmt.Errorf("%s: %w", serviceName, err)
	}
	return nil
}

func run(ctx context.Context, cfg Config, fn func() error, logFn LogFunc) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := cfg.InitialDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return aborted(attempt-1, err, lastErr)
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		if logFn != nil {
			logFn(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return aborted(attempt, ctx.Err(), lastErr)
		case <-timer.C:
		}

		delay = next(delay, cfg)
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", attempts, lastErr)
}

func next(delay time.Duration, cfg Config) time.Duration {
	delay = time.Duration(float64(delay) * cfg.BackoffFactor)
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

func aborted(attempts int, ctxErr, lastErr error) error {
	if lastErr != nil {
		return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempts, ctxErr, lastErr)
	}
	return fmt.Errorf("retry aborted: %w", ctxErr)
}
