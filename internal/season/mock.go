package season

import (
	"context"
	"sync"
	"time"
)

// MockCoordinator is a mock implementation of the Coordinator interface for
// testing. It is safe for concurrent use.
type MockCoordinator struct {
	mu sync.Mutex

	// Spies for method calls
	RunFunc func(ctx context.Context, now time.Time, dryRun bool) (*Result, error)

	// Call records
	RunCalls []RunCall
}

// RunCall holds the arguments for a call to Run.
type RunCall struct {
	Now    time.Time
	DryRun bool
}

// NewMock creates a new mock coordinator.
func NewMock() *MockCoordinator {
	return &MockCoordinator{}
}

func (m *MockCoordinator) Run(ctx context.Context, now time.Time, dryRun bool) (*Result, error) {
	m.mu.Lock()
	m.RunCalls = append(m.RunCalls, RunCall{Now: now, DryRun: dryRun})
	fn := m.RunFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, now, dryRun)
	}
	return &Result{State: StateSkipped, Period: now.Format("2006-01")}, nil
}
