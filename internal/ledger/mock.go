package ledger

import (
	"context"
	"sync"
	"time"
)

// MockLedger is a mock implementation of the Ledger interface for testing.
// It is safe for concurrent use.
type MockLedger struct {
	mu sync.Mutex

	// Spies for method calls
	GetPlayerFunc         func(ctx context.Context, id string) (*Player, error)
	GetPlayersFunc        func(ctx context.Context, ids []string) ([]*Player, []string, error)
	ListPlayersFunc       func(ctx context.Context) ([]*Player, error)
	ListTeamsFunc         func(ctx context.Context) ([]*Team, error)
	GetSeasonFunc         func(ctx context.Context, period string, sport Sport, teamID string) (*Season, error)
	ListSeasonsFunc       func(ctx context.Context) ([]*Season, error)
	ApplyMatchOutcomeFunc func(ctx context.Context, sport Sport, winnerIDs, loserIDs []string) (*MatchOutcome, error)
	ResetScoresFunc       func(ctx context.Context, sport Sport, teamID string, toValue int) error
	CreditSeasonWinFunc   func(ctx context.Context, sport Sport, teamID, playerID string) error
	FinalizeSeasonFunc    func(ctx context.Context, period string, sport Sport, teamID, winnerID string, resetTo int, now time.Time) (*Season, error)

	// Call records
	ApplyMatchOutcomeCalls []ApplyMatchOutcomeCall
	ResetScoresCalls       []ResetScoresCall
	CreditSeasonWinCalls   []CreditSeasonWinCall
	FinalizeSeasonCalls    []FinalizeSeasonCall
}

// ApplyMatchOutcomeCall holds the arguments for a call to ApplyMatchOutcome.
type ApplyMatchOutcomeCall struct {
	Sport     Sport
	WinnerIDs []string
	LoserIDs  []string
}

// ResetScoresCall holds the arguments for a call to ResetScores.
type ResetScoresCall struct {
	Sport   Sport
	TeamID  string
	ToValue int
}

// CreditSeasonWinCall holds the arguments for a call to CreditSeasonWin.
type CreditSeasonWinCall struct {
	Sport    Sport
	TeamID   string
	PlayerID string
}

// FinalizeSeasonCall holds the arguments for a call to FinalizeSeason.
type FinalizeSeasonCall struct {
	Period   string
	Sport    Sport
	TeamID   string
	WinnerID string
	ResetTo  int
}

// NewMock creates a new mock instance.
func NewMock() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) GetPlayer(ctx context.Context, id string) (*Player, error) {
	m.mu.Lock()
	fn := m.GetPlayerFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return nil, ErrUnknownPlayer
}

func (m *MockLedger) GetPlayers(ctx context.Context, ids []string) ([]*Player, []string, error) {
	m.mu.Lock()
	fn := m.GetPlayersFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, ids)
	}
	return nil, nil, nil
}

func (m *MockLedger) ListPlayers(ctx context.Context) ([]*Player, error) {
	m.mu.Lock()
	fn := m.ListPlayersFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *MockLedger) ListTeams(ctx context.Context) ([]*Team, error) {
	m.mu.Lock()
	fn := m.ListTeamsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *MockLedger) GetSeason(ctx context.Context, period string, sport Sport, teamID string) (*Season, error) {
	m.mu.Lock()
	fn := m.GetSeasonFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, period, sport, teamID)
	}
	return nil, nil
}

func (m *MockLedger) ListSeasons(ctx context.Context) ([]*Season, error) {
	m.mu.Lock()
	fn := m.ListSeasonsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *MockLedger) ApplyMatchOutcome(ctx context.Context, sport Sport, winnerIDs, loserIDs []string) (*MatchOutcome, error) {
	m.mu.Lock()
	m.ApplyMatchOutcomeCalls = append(m.ApplyMatchOutcomeCalls, ApplyMatchOutcomeCall{Sport: sport, WinnerIDs: winnerIDs, LoserIDs: loserIDs})
	fn := m.ApplyMatchOutcomeFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, sport, winnerIDs, loserIDs)
	}
	return &MatchOutcome{Scores: map[string]ScoreChange{}, Streaks: map[string]int{}}, nil
}

func (m *MockLedger) ResetScores(ctx context.Context, sport Sport, teamID string, toValue int) error {
	m.mu.Lock()
	m.ResetScoresCalls = append(m.ResetScoresCalls, ResetScoresCall{Sport: sport, TeamID: teamID, ToValue: toValue})
	fn := m.ResetScoresFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, sport, teamID, toValue)
	}
	return nil
}

func (m *MockLedger) CreditSeasonWin(ctx context.Context, sport Sport, teamID, playerID string) error {
	m.mu.Lock()
	m.CreditSeasonWinCalls = append(m.CreditSeasonWinCalls, CreditSeasonWinCall{Sport: sport, TeamID: teamID, PlayerID: playerID})
	fn := m.CreditSeasonWinFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, sport, teamID, playerID)
	}
	return nil
}

func (m *MockLedger) FinalizeSeason(ctx context.Context, period string, sport Sport, teamID, winnerID string, resetTo int, now time.Time) (*Season, error) {
	m.mu.Lock()
	m.FinalizeSeasonCalls = append(m.FinalizeSeasonCalls, FinalizeSeasonCall{Period: period, Sport: sport, TeamID: teamID, WinnerID: winnerID, ResetTo: resetTo})
	fn := m.FinalizeSeasonFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, period, sport, teamID, winnerID, resetTo, now)
	}
	return &Season{ID: SeasonID(period, sport, teamID), Period: period, Sport: sport, TeamID: teamID, WinnerID: winnerID, RecordedAt: now.Unix()}, nil
}
