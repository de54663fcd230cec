package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// One instance for the whole package; NewConfigMetrics registers with the
// default registry and a second "sweeptest" registration would panic.
var sweepTestMetrics = NewConfigMetrics("sweeptest")

func TestConfigMetricsCounters(t *testing.T) {
	m := sweepTestMetrics

	before := testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("cron_schedule"))
	m.RecordValidationError("cron_schedule")
	m.RecordValidationError("cron_schedule")
	m.RecordValidationError("sweep_timeout")
	assert.Equal(t, before+2, testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("cron_schedule")))

	fallbacksBefore := testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timezone"))
	m.RecordFallback("timezone", "default")
	assert.Equal(t, fallbacksBefore+1, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timezone")))
}

func TestConfigMetricsFallbackGauge(t *testing.T) {
	m := sweepTestMetrics

	m.SetFallbackActive("", true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FallbackActive))

	m.SetFallbackActive("", false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.FallbackActive))
}

func TestConfigMetricsLoadTimestamp(t *testing.T) {
	m := sweepTestMetrics

	m.RecordLoadTimestamp()
	require.Positive(t, testutil.ToFloat64(m.LoadTimestamp))
}
