package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Guide metrics.
var (
	// VoterGuidesTotal tracks the number of voter guides in storage. Updated
	// periodically by the worker.
	VoterGuidesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voter_guides_total",
			Help: "Total number of voter guides in the database",
		},
	)

	// GuideUpsertsTotal counts create-or-update operations by owner kind and
	// outcome (created, updated, rejected, failed).
	GuideUpsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voter_guide_upserts_total",
			Help: "Total number of voter guide upsert operations",
		},
		[]string{"owner_type", "outcome"},
	)

	// GuideRetrievesTotal counts alternate-key lookups by outcome
	// (found, not_found, ambiguous, failed).
	GuideRetrievesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voter_guide_retrieves_total",
			Help: "Total number of voter guide retrieve operations",
		},
		[]string{"outcome"},
	)

	// RefreshSweepDuration measures one cached-field refresh sweep over the
	// guide store.
	RefreshSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voter_guide_refresh_sweep_duration_seconds",
			Help:    "Time taken by one cached-field refresh sweep",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// RefreshedGuidesTotal counts guides touched by refresh sweeps, by result
	// (updated, unchanged, failed).
	RefreshedGuidesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voter_guide_refreshed_total",
			Help: "Total number of guides processed by refresh sweeps",
		},
		[]string{"result"},
	)
)

// Database metrics.
var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)
)

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQuery records the duration of a named database operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
