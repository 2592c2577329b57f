// Package testutil provides test doubles for pageflow.
package testutil

import (
	"context"
	"sync"
)

// scriptedPage is the configured response for a single page.
type scriptedPage[T any] struct {
	items []T
	err   error
}

// ScriptedSource is a DataSource whose responses are configured per page
// and whose fetches can be blocked until the test releases them, making
// concurrency interleavings deterministic.
//
// Pages without a scripted response return an empty slice, matching a
// source that has run out of data.
type ScriptedSource[T any] struct {
	mu       sync.Mutex
	pages    map[int]scriptedPage[T]
	calls    []int
	gates    map[int]chan struct{}
	honorCtx bool

	started chan int
}

// NewScriptedSource creates an empty scripted source.
func NewScriptedSource[T any]() *ScriptedSource[T] {
	return &ScriptedSource[T]{
		pages:   make(map[int]scriptedPage[T]),
		gates:   make(map[int]chan struct{}),
		started: make(chan int, 64),
	}
}

// SetPage scripts a successful response for a page.
func (s *ScriptedSource[T]) SetPage(page int, items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[page] = scriptedPage[T]{items: items}
}

// FailPage scripts a failing response for a page.
func (s *ScriptedSource[T]) FailPage(page int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[page] = scriptedPage[T]{err: err}
}

// Block makes fetches of the given page wait until Release is called.
func (s *ScriptedSource[T]) Block(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gates[page] = make(chan struct{})
}

// Release unblocks all current and future fetches of the given page.
func (s *ScriptedSource[T]) Release(page int) {
	s.mu.Lock()
	gate := s.gates[page]
	delete(s.gates, page)
	s.mu.Unlock()

	if gate != nil {
		close(gate)
	}
}

// HonorContext controls whether a blocked fetch returns ctx.Err when its
// context is cancelled. Default is false: the fetch keeps waiting for
// Release, simulating a source that ignores cancellation.
func (s *ScriptedSource[T]) HonorContext(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.honorCtx = v
}

// Started signals the page number of each fetch as it begins.
func (s *ScriptedSource[T]) Started() <-chan int {
	return s.started
}

// Calls returns the pages fetched so far, in invocation order.
func (s *ScriptedSource[T]) Calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many times the given page was fetched.
func (s *ScriptedSource[T]) CallCount(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.calls {
		if p == page {
			n++
		}
	}
	return n
}

// FetchPage implements the paginator's DataSource contract.
func (s *ScriptedSource[T]) FetchPage(ctx context.Context, page, pageSize int) ([]T, error) {
	s.mu.Lock()
	s.calls = append(s.calls, page)
	gate := s.gates[page]
	honor := s.honorCtx
	s.mu.Unlock()

	select {
	case s.started <- page:
	default:
	}

	if gate != nil {
		if honor {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else {
			<-gate
		}
	}

	s.mu.Lock()
	resp, ok := s.pages[page]
	s.mu.Unlock()

	if !ok {
		return []T{}, nil
	}
	if resp.err != nil {
		return nil, resp.err
	}

	items := make([]T, len(resp.items))
	copy(items, resp.items)
	return items, nil
}
