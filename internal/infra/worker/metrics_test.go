package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSweepMetrics(t *testing.T) {
	m := testMetrics()

	before := testutil.ToFloat64(m.SweepRunsTotal.WithLabelValues("success"))
	m.RecordSweepRun("success")
	m.RecordSweepRun("failure")
	assert.Equal(t, before+1, testutil.ToFloat64(m.SweepRunsTotal.WithLabelValues("success")))

	processedBefore := testutil.ToFloat64(m.SweepGuidesProcessedTotal)
	m.RecordGuidesProcessed(42)
	assert.Equal(t, processedBefore+42, testutil.ToFloat64(m.SweepGuidesProcessedTotal))

	m.RecordSweepDuration(1.5)

	m.RecordLastSuccess()
	assert.Positive(t, testutil.ToFloat64(m.SweepLastSuccessTimestamp))
}
