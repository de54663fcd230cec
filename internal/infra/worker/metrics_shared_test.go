package worker

import "sync"

// promauto registers with the global registry, so every test shares one
// WorkerMetrics instance to avoid duplicate registration panics.
var (
	sharedMetricsOnce sync.Once
	sharedMetrics     *WorkerMetrics
)

func testMetrics() *WorkerMetrics {
	sharedMetricsOnce.Do(func() {
		sharedMetrics = NewWorkerMetrics()
	})
	return sharedMetrics
}
