package metrics

import "time"

// RecordGuideUpsert records one upsert operation. Outcome is one of
// "created", "updated", "rejected", or "failed".
func RecordGuideUpsert(ownerType, outcome string) {
	GuideUpsertsTotal.WithLabelValues(ownerType, outcome).Inc()
}

// RecordGuideRetrieve records one retrieve operation. Outcome is one of
// "found", "not_found", "ambiguous", or "failed".
func RecordGuideRetrieve(outcome string) {
	GuideRetrievesTotal.WithLabelValues(outcome).Inc()
}

// UpdateVoterGuidesTotal sets the store-size gauge. Called by the worker
// after counting the table.
func UpdateVoterGuidesTotal(count int64) {
	VoterGuidesTotal.Set(float64(count))
}

// RecordRefreshSweep records the duration of one cached-field refresh sweep.
func RecordRefreshSweep(duration time.Duration) {
	RefreshSweepDuration.Observe(duration.Seconds())
}

// RecordGuideRefreshed records one guide processed by a refresh sweep.
// Result is one of "updated", "unchanged", or "failed".
func RecordGuideRefreshed(result string) {
	RefreshedGuidesTotal.WithLabelValues(result).Inc()
}
