package observe

import "sync"

// Value is a broadcast holder for the latest value of type T.
// Subscribers receive the current value on subscribe, then every later
// value in publish order. The publisher never blocks: each subscriber is
// drained by its own goroutine from a private queue.
type Value[T any] struct {
	mu     sync.Mutex
	latest T
	set    bool
	subs   map[uint64]*valueSub[T]
	nextID uint64
	closed bool
}

// valueSub holds the per-subscriber delivery state.
// queue and closed are guarded by the parent Value's mutex.
type valueSub[T any] struct {
	out    chan T
	queue  []T
	wake   chan struct{}
	stop   chan struct{}
	closed bool
}

// NewValue creates an empty Value with no current value set.
func NewValue[T any]() *Value[T] {
	return &Value[T]{
		subs: make(map[uint64]*valueSub[T]),
	}
}

// Set publishes a new value. All active subscribers will receive it after
// any values published before it. Set after Close is a no-op.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}

	v.latest = val
	v.set = true

	for _, s := range v.subs {
		s.queue = append(s.queue, val)
		s.notify()
	}
}

// Get returns the most recently published value.
// The second return value is false if nothing has been published yet.
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.latest, v.set
}

// Subscribe registers a new subscriber and returns its receive channel
// together with a cancel function. If a value has already been published,
// it is replayed as the first delivery. The channel is closed when the
// Value is closed or the subscription is cancelled.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()

	if v.closed {
		v.mu.Unlock()
		ch := make(chan T)
		close(ch)
		return ch, func() {}
	}

	id := v.nextID
	v.nextID++

	s := &valueSub[T]{
		out:  make(chan T),
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
	if v.set {
		s.queue = append(s.queue, v.latest)
	}
	v.subs[id] = s
	v.mu.Unlock()

	go v.drain(s)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
			close(s.stop)
		})
	}

	return s.out, cancel
}

// Close marks the Value as closed. Subscriber channels are closed once
// their queued values have been delivered. Close is idempotent.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true

	for _, s := range v.subs {
		s.closed = true
		s.notify()
	}
}

// notify wakes the subscriber's drain goroutine without blocking.
func (s *valueSub[T]) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// drain delivers queued values to a single subscriber in publish order.
func (v *Value[T]) drain(s *valueSub[T]) {
	for {
		v.mu.Lock()
		if len(s.queue) > 0 {
			val := s.queue[0]
			s.queue = s.queue[1:]
			v.mu.Unlock()

			select {
			case s.out <- val:
			case <-s.stop:
				return
			}
			continue
		}

		closed := s.closed
		v.mu.Unlock()

		if closed {
			close(s.out)
			return
		}

		select {
		case <-s.wake:
		case <-s.stop:
			return
		}
	}
}
