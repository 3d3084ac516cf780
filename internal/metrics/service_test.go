package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestServiceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncMatchesRecorded("foosball")
	s.IncMatchesRecorded("foosball")
	s.IncMatchesRejected("validation")
	s.IncCommitConflicts()
	s.IncRolloverRuns()

	assert.Equal(t, 2.0, testutil.ToFloat64(s.MatchesRecorded.WithLabelValues("foosball")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MatchesRejected.WithLabelValues("validation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.CommitConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.RolloverRuns))
}
