package source

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Errors returned by the retry decorator.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during backoff.
	ErrContextCancelled = errors.New("context cancelled")
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int

	// InitialBackoff is the initial backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns defaults tuned for interactive pagination:
// short waits, so a failed page resolves before the user gives up.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    250 * time.Millisecond,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Retry wraps a DataSource with exponential-backoff retries. Context
// cancellation aborts immediately and is never retried, so a paginator
// superseding the fetch is not delayed by backoff waits.
type Retry[T any] struct {
	next   DataSource[T]
	config RetryConfig
	logger zerolog.Logger
}

// NewRetry creates a retry decorator around next. Zero config fields fall
// back to the defaults.
func NewRetry[T any](next DataSource[T], config RetryConfig) *Retry[T] {
	defaults := DefaultRetryConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = defaults.InitialBackoff
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = defaults.MaxBackoff
	}
	if config.BackoffMultiplier <= 1 {
		config.BackoffMultiplier = defaults.BackoffMultiplier
	}

	return &Retry[T]{
		next:   next,
		config: config,
		logger: log.With().Str("component", "source-retry").Logger(),
	}
}

// FetchPage implements DataSource.
func (r *Retry[T]) FetchPage(ctx context.Context, page, pageSize int) ([]T, error) {
	var lastErr error
	backoff := r.config.InitialBackoff

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		items, err := r.next.FetchPage(ctx, page, pageSize)
		if err == nil {
			if attempt > 1 {
				r.logger.Info().
					Int("page", page).
					Int("attempt", attempt).
					Msg("Fetch succeeded after retry")
			}
			return items, nil
		}

		// Cancellation is supersession or shutdown, not a transient
		// failure; pass it through untouched.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		lastErr = err

		if attempt >= r.config.MaxAttempts {
			break
		}

		retriesTotal.Inc()

		// Add jitter (±20% randomness)
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))

		r.logger.Debug().
			Err(err).
			Int("page", page).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying page fetch after backoff")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(jitter):
		}

		backoff = time.Duration(float64(backoff) * r.config.BackoffMultiplier)
		if backoff > r.config.MaxBackoff {
			backoff = r.config.MaxBackoff
		}
	}

	retryExhaustedTotal.Inc()
	r.logger.Warn().
		Int("page", page).
		Int("max_attempts", r.config.MaxAttempts).
		Msg("Retry attempts exhausted")

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, r.config.MaxAttempts, lastErr)
}
