package source

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fastRetryConfig keeps test backoffs in the millisecond range.
func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	var calls atomic.Int64

	src := FetchFunc[int](func(ctx context.Context, page, pageSize int) ([]int, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("transient")
		}
		return []int{1, 2, 3}, nil
	})

	r := NewRetry[int](src, fastRetryConfig(3))

	items, err := r.FetchPage(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("len = %d, want 3", len(items))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestRetry_Exhausted(t *testing.T) {
	var calls atomic.Int64

	src := FetchFunc[int](func(ctx context.Context, page, pageSize int) ([]int, error) {
		calls.Add(1)
		return nil, errors.New("persistent")
	})

	r := NewRetry[int](src, fastRetryConfig(3))

	_, err := r.FetchPage(context.Background(), 0, 20)
	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("expected ErrRetryExhausted, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestRetry_CancellationNotRetried(t *testing.T) {
	var calls atomic.Int64

	src := FetchFunc[int](func(ctx context.Context, page, pageSize int) ([]int, error) {
		calls.Add(1)
		return nil, context.Canceled
	})

	r := NewRetry[int](src, fastRetryConfig(5))

	_, err := r.FetchPage(context.Background(), 0, 20)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("cancellation was retried: calls = %d, want 1", got)
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	src := FetchFunc[int](func(ctx context.Context, page, pageSize int) ([]int, error) {
		return nil, errors.New("transient")
	})

	r := NewRetry[int](src, RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Minute, // the test must not wait this out
		MaxBackoff:        time.Minute,
		BackoffMultiplier: 2.0,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := r.FetchPage(ctx, 0, 20)

	if !errors.Is(err, ErrContextCancelled) {
		t.Fatalf("expected ErrContextCancelled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("backoff ignored cancellation: took %s", elapsed)
	}
}

func TestNewRetry_AppliesDefaults(t *testing.T) {
	r := NewRetry[int](NewMemory(intRange(1)), RetryConfig{})

	defaults := DefaultRetryConfig()
	if r.config.MaxAttempts != defaults.MaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", r.config.MaxAttempts, defaults.MaxAttempts)
	}
	if r.config.InitialBackoff != defaults.InitialBackoff {
		t.Errorf("InitialBackoff = %s, want %s", r.config.InitialBackoff, defaults.InitialBackoff)
	}
	if r.config.BackoffMultiplier != defaults.BackoffMultiplier {
		t.Errorf("BackoffMultiplier = %f, want %f", r.config.BackoffMultiplier, defaults.BackoffMultiplier)
	}
}
