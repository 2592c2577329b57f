package source

import "context"

// DataSource supplies a single page of items. Pages are 0-indexed; a page
// past the end of the data returns an empty slice, not an error.
type DataSource[T any] interface {
	FetchPage(ctx context.Context, page, pageSize int) ([]T, error)
}

// FetchFunc adapts a plain function to the DataSource interface.
type FetchFunc[T any] func(ctx context.Context, page, pageSize int) ([]T, error)

// FetchPage implements DataSource.
func (f FetchFunc[T]) FetchPage(ctx context.Context, page, pageSize int) ([]T, error) {
	return f(ctx, page, pageSize)
}
