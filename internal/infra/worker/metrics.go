package worker

import (
	"voter-guides/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics provides Prometheus metrics for the maintenance worker. It
// embeds ConfigMetrics for configuration fallback tracking and adds sweep
// execution metrics:
//   - worker_sweep_runs_total{status}: sweep runs by outcome
//   - worker_sweep_duration_seconds: duration histogram of one sweep
//   - worker_sweep_guides_processed_total: guides touched across all sweeps
//   - worker_sweep_last_success_timestamp: unix time of the last clean sweep
type WorkerMetrics struct {
	*config.ConfigMetrics

	SweepRunsTotal            *prometheus.CounterVec
	SweepDurationSeconds      prometheus.Histogram
	SweepGuidesProcessedTotal prometheus.Counter
	SweepLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates a WorkerMetrics instance. Metrics register with
// the default Prometheus registry on creation via promauto.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		SweepRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_sweep_runs_total",
			Help: "Total number of maintenance sweep runs by status (success/failure)",
		}, []string{"status"}),

		SweepDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_sweep_duration_seconds",
			Help:    "Duration of one maintenance sweep in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		SweepGuidesProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_sweep_guides_processed_total",
			Help: "Total number of voter guides processed across all sweeps",
		}),

		SweepLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_sweep_last_success_timestamp",
			Help: "Unix timestamp of the last successful maintenance sweep",
		}),
	}
}

// MustRegister is a no-op kept for call-site symmetry; promauto already
// registered everything in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {}

// RecordSweepRun increments the sweep counter for the given status
// ("success" or "failure").
func (m *WorkerMetrics) RecordSweepRun(status string) {
	m.SweepRunsTotal.WithLabelValues(status).Inc()
}

// RecordSweepDuration observes the duration of one sweep in seconds.
func (m *WorkerMetrics) RecordSweepDuration(seconds float64) {
	m.SweepDurationSeconds.Observe(seconds)
}

// RecordGuidesProcessed adds the number of guides touched by one sweep.
func (m *WorkerMetrics) RecordGuidesProcessed(count int) {
	m.SweepGuidesProcessedTotal.Add(float64(count))
}

// RecordLastSuccess stamps the last successful sweep completion time.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.SweepLastSuccessTimestamp.SetToCurrentTime()
}
