// Package metrics provides the Prometheus registry reference for pageflow.
// All metrics are defined in their respective packages (pager, source) to
// maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by pageflow.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Paginator Metrics (pkg/pager):
//   - pageflow_loads_total{result} (Counter): Page load attempts by result
//     (ok, error, superseded)
//   - pageflow_fetch_duration_seconds (Histogram): Data source fetch duration
//   - pageflow_load_suppressed_total{reason} (Counter): LoadNextPage calls
//     suppressed by the guard (loading, max_reached)
//   - pageflow_errors_total (Counter): Failures forwarded to the error channel
//
// Source Metrics (pkg/source):
//   - pageflow_source_cache_hits_total (Counter): Page cache hits
//   - pageflow_source_cache_misses_total (Counter): Page cache misses
//   - pageflow_source_cache_errors_total{operation} (Counter): Cache operation
//     errors (get, set, decode, delete)
//   - pageflow_source_retries_total (Counter): Fetch retry attempts
//   - pageflow_source_retry_exhausted_total (Counter): Fetches that exhausted
//     all retry attempts
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(pageflow_source_cache_hits_total[5m])) /
//   (sum(rate(pageflow_source_cache_hits_total[5m])) + sum(rate(pageflow_source_cache_misses_total[5m])))
//
//   # Fetch Error Rate
//   rate(pageflow_loads_total{result="error"}[5m]) / rate(pageflow_loads_total[5m])
//
//   # P95 Fetch Latency
//   histogram_quantile(0.95, rate(pageflow_fetch_duration_seconds_bucket[5m]))
//
//   # Supersession Rate (rapid user paging)
//   rate(pageflow_loads_total{result="superseded"}[5m])
