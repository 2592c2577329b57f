// Package observe provides the two in-process notification primitives the
// paginator publishes through:
//
//   - Value: a broadcast holder for the latest value. Every subscriber
//     immediately receives the most recent value on subscribe, then every
//     later value in publish order. Publishing never blocks on slow
//     subscribers; each subscriber has its own ordered delivery queue.
//
//   - Events: a one-shot event sink. Each emitted event is consumed by at
//     most one receiver and is never redelivered. An event emitted with no
//     receiver attached waits for the next receive. When a new event
//     arrives while an unconsumed one is pending, the pending one is
//     replaced (newest wins).
//
// # Basic Usage
//
//	states := observe.NewValue[int]()
//	states.Set(1)
//
//	ch, cancel := states.Subscribe()
//	defer cancel()
//	v := <-ch // replays 1 immediately
//
//	errs := observe.NewEvents[error]()
//	errs.Emit(errors.New("boom"))
//	err := <-errs.C() // consumed exactly once
package observe
