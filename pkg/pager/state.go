package pager

// State is an immutable snapshot of the paginator. Every transition
// produces a wholly new snapshot; a snapshot handed to a subscriber is
// never mutated afterwards.
type State[T any] struct {
	// IsLoading is true while a fetch is in flight.
	IsLoading bool `json:"is_loading"`

	// Items holds all items accumulated across pages so far. The length
	// is monotonically non-decreasing over the paginator's lifetime.
	Items []T `json:"items"`

	// Err is the message of the most recent failed load. A later
	// successful load clears it.
	Err string `json:"error,omitempty"`

	// MaximumReached is set once the page cursor meets the configured
	// maximum page bound. It is sticky: no further fetch is dispatched.
	MaximumReached bool `json:"maximum_reached"`

	// CurrentPage is the page index of the most recently completed load
	// (successful or failed).
	CurrentPage int `json:"current_page"`
}

// HasError reports whether the most recent completed load failed.
func (s State[T]) HasError() bool {
	return s.Err != ""
}

// mergeItems returns a new item slice with next appended. The base slice
// is copied so snapshots never share a growing backing array.
func mergeItems[T any](base, next []T) []T {
	merged := make([]T, len(base), len(base)+len(next))
	copy(merged, base)
	return append(merged, next...)
}
