package source

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory serves pages from an in-memory slice. It stands in for a real
// backend in demos, examples, and tests; latency and per-page failures
// can be injected to exercise the paginator's error and cancellation
// paths.
type Memory[T any] struct {
	items []T
	delay time.Duration

	mu       sync.Mutex
	failures map[int]error
	calls    map[int]int
}

// NewMemory creates a source over the given items.
func NewMemory[T any](items []T) *Memory[T] {
	return &Memory[T]{
		items:    items,
		failures: make(map[int]error),
		calls:    make(map[int]int),
	}
}

// WithDelay makes every fetch take at least d, simulating backend
// latency. The delay is interruptible by context cancellation.
func (m *Memory[T]) WithDelay(d time.Duration) *Memory[T] {
	m.delay = d
	return m
}

// FailPage injects a one-shot failure: the next fetch of the given page
// returns err, subsequent fetches succeed again.
func (m *Memory[T]) FailPage(page int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[page] = err
}

// Calls returns how many times the given page has been fetched.
func (m *Memory[T]) Calls(page int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[page]
}

// Len returns the total number of items served.
func (m *Memory[T]) Len() int {
	return len(m.items)
}

// FetchPage implements DataSource.
func (m *Memory[T]) FetchPage(ctx context.Context, page, pageSize int) ([]T, error) {
	if page < 0 {
		return nil, fmt.Errorf("page must not be negative (got %d)", page)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive (got %d)", pageSize)
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls[page]++
	if err, ok := m.failures[page]; ok {
		delete(m.failures, page)
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	start := page * pageSize
	if start >= len(m.items) {
		return []T{}, nil
	}

	end := start + pageSize
	if end > len(m.items) {
		end = len(m.items)
	}

	out := make([]T, end-start)
	copy(out, m.items[start:end])
	return out, nil
}
