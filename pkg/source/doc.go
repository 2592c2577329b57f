// Package source provides DataSource implementations and decorators for
// the pagination controller.
//
// A DataSource fetches one 0-indexed page of items at a time. The package
// ships:
//
//   - Memory: a slice-backed source with optional latency and failure
//     injection, for demos and tests
//   - Cached: a Redis-backed page cache decorator
//   - Retry: an exponential-backoff retry decorator
//   - FetchFunc: a function adapter
//
// Decorators compose from the inside out:
//
//	base := source.NewMemory(items)
//	cached, err := source.NewCached[Item](base, redisClient, source.CacheConfig{
//		Name: "catalog",
//		TTL:  5 * time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//	src := source.NewRetry[Item](cached, source.DefaultRetryConfig())
//
// All decorators abort on context cancellation so that a paginator
// superseding an in-flight fetch takes effect immediately.
package source
