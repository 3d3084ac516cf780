package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesRecorded       *prometheus.CounterVec
	MatchesRejected       *prometheus.CounterVec
	CommitConflicts       prometheus.Counter
	RecordDuration        prometheus.Histogram
	RolloverRuns          prometheus.Counter
	RolloverSkipped       prometheus.Counter
	RolloverGroupFailures prometheus.Counter
	NotifSent             prometheus.Counter
	NotifFailed           prometheus.Counter
	StartupTimeSeconds    prometheus.Gauge
}
