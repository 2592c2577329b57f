package observe

import "sync"

// Events is a one-shot event sink for events of type E.
// Each emitted event is consumed by at most one receiver; once read it is
// never redelivered. At most one event is pending at a time: emitting
// while an unconsumed event is pending replaces it (newest wins).
type Events[E any] struct {
	mu     sync.Mutex
	ch     chan E
	closed bool
}

// NewEvents creates an empty event sink.
func NewEvents[E any]() *Events[E] {
	return &Events[E]{
		ch: make(chan E, 1),
	}
}

// Emit queues an event for a single consumer. If no consumer is attached,
// the event waits for the next receive. A still-pending event is dropped
// in favor of the new one. Emit after Close is a no-op.
func (e *Events[E]) Emit(ev E) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	for {
		select {
		case e.ch <- ev:
			return
		default:
		}

		// Channel full: drop the stale pending event and retry.
		select {
		case <-e.ch:
		default:
		}
	}
}

// C returns the receive side of the sink. Receiving from it consumes the
// pending event permanently.
func (e *Events[E]) C() <-chan E {
	return e.ch
}

// Close closes the sink. A pending unconsumed event remains receivable
// until the channel is drained. Close is idempotent.
func (e *Events[E]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	close(e.ch)
}
