package notifier

import (
	"sync"

	"github.com/oyvinddd/officesports-sub001/internal/ledger"
)

// MockNotifier is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	// Spies for method calls
	SendMatchRecordedFunc         func(result *MatchResult, dryRun bool) error
	SendSeasonResultsFunc         func(results []SeasonResult, dryRun bool) error
	SendLeaderboardFunc           func(sport ledger.Sport, entries []LeaderboardEntry, dryRun bool) error
	FormatLeaderboardResponseFunc func(sport ledger.Sport, entries []LeaderboardEntry) (any, error)

	// Call records
	SendMatchRecordedCalls []SendMatchRecordedCall
	SendSeasonResultsCalls []SendSeasonResultsCall
	SendLeaderboardCalls   []SendLeaderboardCall
}

// SendMatchRecordedCall holds the arguments for a call to SendMatchRecorded.
type SendMatchRecordedCall struct {
	Result *MatchResult
	DryRun bool
}

// SendSeasonResultsCall holds the arguments for a call to SendSeasonResults.
type SendSeasonResultsCall struct {
	Results []SeasonResult
	DryRun  bool
}

// SendLeaderboardCall holds the arguments for a call to SendLeaderboard.
type SendLeaderboardCall struct {
	Sport   ledger.Sport
	Entries []LeaderboardEntry
	DryRun  bool
}

// NewMock creates a new mock notifier.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendMatchRecorded(result *MatchResult, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchRecordedCalls = append(m.SendMatchRecordedCalls, SendMatchRecordedCall{Result: result, DryRun: dryRun})
	fn := m.SendMatchRecordedFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(result, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendSeasonResults(results []SeasonResult, dryRun bool) error {
	m.mu.Lock()
	m.SendSeasonResultsCalls = append(m.SendSeasonResultsCalls, SendSeasonResultsCall{Results: results, DryRun: dryRun})
	fn := m.SendSeasonResultsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(results, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendLeaderboard(sport ledger.Sport, entries []LeaderboardEntry, dryRun bool) error {
	m.mu.Lock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, SendLeaderboardCall{Sport: sport, Entries: entries, DryRun: dryRun})
	fn := m.SendLeaderboardFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(sport, entries, dryRun)
	}
	return nil
}

func (m *MockNotifier) FormatLeaderboardResponse(sport ledger.Sport, entries []LeaderboardEntry) (any, error) {
	m.mu.Lock()
	fn := m.FormatLeaderboardResponseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(sport, entries)
	}
	return map[string]any{"sport": sport, "entries": entries}, nil
}
