package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesRecorded(sport string)
	IncMatchesRejected(reason string)
	IncCommitConflicts()
	ObserveRecordDuration(duration float64)
	IncRolloverRuns()
	IncRolloverSkipped()
	IncRolloverGroupFailures()
	IncNotifSent()
	IncNotifFailed()
	SetStartupTime(duration float64)
}
