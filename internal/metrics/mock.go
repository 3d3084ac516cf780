package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                    sync.Mutex
	matchesRecorded       map[string]int
	matchesRejected       map[string]int
	commitConflicts       int
	recordDurations       []float64
	rolloverRuns          int
	rolloverSkipped       int
	rolloverGroupFailures int
	notifSent             int
	notifFailed           int
	startupTime           float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		matchesRecorded: make(map[string]int),
		matchesRejected: make(map[string]int),
	}
}

func (m *Mock) IncMatchesRecorded(sport string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded[sport]++
}

func (m *Mock) IncMatchesRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRejected[reason]++
}

func (m *Mock) IncCommitConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitConflicts++
}

func (m *Mock) ObserveRecordDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordDurations = append(m.recordDurations, duration)
}

func (m *Mock) IncRolloverRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolloverRuns++
}

func (m *Mock) IncRolloverSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolloverSkipped++
}

func (m *Mock) IncRolloverGroupFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolloverGroupFailures++
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecorded returns the recorded-match count for a sport.
func (m *Mock) MatchesRecorded(sport string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded[sport]
}

// MatchesRejected returns the rejection count for a reason.
func (m *Mock) MatchesRejected(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRejected[reason]
}

// RolloverRuns returns the number of rollover runs observed.
func (m *Mock) RolloverRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rolloverRuns
}

// RolloverSkipped returns the number of skipped rollover runs observed.
func (m *Mock) RolloverSkipped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rolloverSkipped
}

// RolloverGroupFailures returns the number of failed rollover groups observed.
func (m *Mock) RolloverGroupFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rolloverGroupFailures
}

// NotifSent returns the number of sent notifications observed.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of failed notifications observed.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}

// CommitConflicts returns the number of commit conflicts observed.
func (m *Mock) CommitConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitConflicts
}
