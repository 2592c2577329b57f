package source

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for data source decorators.
var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageflow_source_cache_hits_total",
		Help: "Total number of page cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageflow_source_cache_misses_total",
		Help: "Total number of page cache misses",
	})

	cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pageflow_source_cache_errors_total",
		Help: "Total number of page cache operation errors",
	}, []string{"operation"}) // "get", "set", "decode", "delete"

	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageflow_source_retries_total",
		Help: "Total number of fetch retry attempts",
	})

	retryExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageflow_source_retry_exhausted_total",
		Help: "Total number of fetches that exhausted all retry attempts",
	})
)
