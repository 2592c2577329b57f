// Package pager implements an incremental pagination controller: given a
// data source that fetches pages of items on demand, it drives page
// progression, accumulates results, and exposes the loading/error/
// completion state as an observable stream for a consumer to render.
//
// The controller is a single finite-state coordinator. A page-cursor
// change (including the startup value) triggers a fetch; fetch results
// merge into the accumulated state; overlapping loads are suppressed by
// a guard; a fetch superseded by a newer cursor is cancelled and its
// result discarded (latest wins).
//
// Example usage:
//
//	src := source.NewMemory(items)
//	p, err := pager.New[Item](src, pager.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//
//	states, cancel := p.Watch()
//	defer cancel()
//
//	go func() {
//		for err := range p.Errors() {
//			// surface to the user, e.g. as a toast
//			_ = err
//		}
//	}()
//
//	for st := range states {
//		render(st)
//		if !st.IsLoading && !st.MaximumReached {
//			p.LoadNextPage()
//		}
//	}
//
// The paginator never raises to its caller: fetch failures land in the
// state snapshot and on the one-shot error channel, and a panic in a
// dispatched unit of work is caught at its boundary and forwarded there
// as well.
package pager
