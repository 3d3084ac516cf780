package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/oyvinddd/officesports-sub001/internal/ledger"
)

// MockRecorder is a mock implementation of the Recorder interface for testing.
// It is safe for concurrent use.
type MockRecorder struct {
	mu sync.Mutex

	// Spies for method calls
	RecordMatchFunc func(ctx context.Context, sub *Submission, now time.Time) (*ledger.Match, *ledger.MatchOutcome, error)

	// Call records
	RecordMatchCalls []RecordMatchCall
}

// RecordMatchCall holds the arguments for a call to RecordMatch.
type RecordMatchCall struct {
	Sub *Submission
	Now time.Time
}

// NewMock creates a new mock recorder.
func NewMock() *MockRecorder {
	return &MockRecorder{}
}

func (m *MockRecorder) RecordMatch(ctx context.Context, sub *Submission, now time.Time) (*ledger.Match, *ledger.MatchOutcome, error) {
	m.mu.Lock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, RecordMatchCall{Sub: sub, Now: now})
	fn := m.RecordMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, sub, now)
	}
	match := &ledger.Match{
		ID:         "mock-match-id",
		RecordedAt: now.Unix(),
		Sport:      sub.Sport,
		TeamID:     sub.TeamID,
		WinnerIDs:  sub.WinnerIDs,
		LoserIDs:   sub.LoserIDs,
		Deltas:     map[string]int{},
	}
	return match, &ledger.MatchOutcome{Scores: map[string]ledger.ScoreChange{}, Streaks: map[string]int{}}, nil
}
