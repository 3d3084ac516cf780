package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "officesports_matches_recorded_total",
			Help: "The total number of matches successfully recorded, per sport.",
		}, []string{"sport"}),
		MatchesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "officesports_matches_rejected_total",
			Help: "The total number of match submissions rejected, per reason.",
		}, []string{"reason"}),
		CommitConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "officesports_commit_conflicts_total",
			Help: "The total number of optimistic write conflicts hit while committing stats.",
		}),
		RecordDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "officesports_match_record_duration_seconds",
			Help:    "The duration of individual match recordings.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RolloverRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "officesports_rollover_runs_total",
			Help: "The total number of season rollover runs triggered.",
		}),
		RolloverSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "officesports_rollover_skipped_total",
			Help: "The total number of rollover runs skipped because the period was already finalized.",
		}),
		RolloverGroupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "officesports_rollover_group_failures_total",
			Help: "The total number of (sport, team) rollover groups that failed to commit.",
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "officesports_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "officesports_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "officesports_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesRecorded,
		s.MatchesRejected,
		s.CommitConflicts,
		s.RecordDuration,
		s.RolloverRuns,
		s.RolloverSkipped,
		s.RolloverGroupFailures,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesRecorded(sport string) {
	s.MatchesRecorded.WithLabelValues(sport).Inc()
}

func (s *Service) IncMatchesRejected(reason string) {
	s.MatchesRejected.WithLabelValues(reason).Inc()
}

func (s *Service) IncCommitConflicts() {
	s.CommitConflicts.Inc()
}

func (s *Service) ObserveRecordDuration(duration float64) {
	s.RecordDuration.Observe(duration)
}

func (s *Service) IncRolloverRuns() {
	s.RolloverRuns.Inc()
}

func (s *Service) IncRolloverSkipped() {
	s.RolloverSkipped.Inc()
}

func (s *Service) IncRolloverGroupFailures() {
	s.RolloverGroupFailures.Inc()
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
