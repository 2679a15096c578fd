// Package metrics holds the Prometheus collectors of the service. They are
// registered with the default registry when the package is loaded.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

var (
	// HTTPRequests counts served requests by route pattern, method and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPDuration observes request latency by route pattern and method.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// SnapshotDuration observes how long building a snapshot takes, loading included.
	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_duration_seconds",
			Help:      "Time to load inputs and compute a portfolio snapshot",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// SnapshotFailures counts failed snapshots by reason: load, integrity or compute.
	SnapshotFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_failures_total",
			Help:      "Total number of snapshot computations that failed",
		},
		[]string{"reason"},
	)

	// SnapshotMissingInputs reports the size of the data quality lists of the last snapshot.
	SnapshotMissingInputs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_missing_inputs",
			Help:      "Inputs missing from the last computed snapshot",
		},
		[]string{"kind"},
	)

	// QuoteFetches counts provider lookups by outcome: ok, not_found or error.
	QuoteFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_fetches_total",
			Help:      "Total number of quote provider lookups",
		},
		[]string{"status"},
	)
)
