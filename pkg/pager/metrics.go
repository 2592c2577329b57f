package pager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for paginator operations.
var (
	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pageflow_loads_total",
		Help: "Total page load attempts by result (ok, error, superseded)",
	}, []string{"result"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pageflow_fetch_duration_seconds",
		Help:    "Data source fetch duration in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})

	loadsSuppressedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pageflow_load_suppressed_total",
		Help: "LoadNextPage calls suppressed by the guard, by reason",
	}, []string{"reason"})

	errorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageflow_errors_total",
		Help: "Total failures forwarded to the error channel",
	})
)
