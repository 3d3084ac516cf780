package season

import (
	"github.com/oyvinddd/officesports-sub001/internal/ledger"
	"github.com/oyvinddd/officesports-sub001/internal/metrics"
	"github.com/oyvinddd/officesports-sub001/internal/notifier"
	"github.com/oyvinddd/officesports-sub001/internal/pubsub"
)

// State describes where a rollover run ended up.
type State string

const (
	StateIdle       State = "idle"
	StateCollecting State = "collecting"
	StateCommitting State = "committing"
	// StateDone means at least one group was finalized or attempted.
	StateDone State = "done"
	// StateSkipped means every group was already finalized or had nothing
	// to finalize.
	StateSkipped State = "skipped"
)

// Winner is one finalized group's season winner.
type Winner struct {
	Sport    ledger.Sport `json:"sport"`
	TeamID   string       `json:"team_id"`
	PlayerID string       `json:"player_id"`
	Score    int          `json:"score"`
}

// GroupFailure records a group whose finalization failed. Failures are
// isolated; other groups still commit.
type GroupFailure struct {
	Sport  ledger.Sport
	TeamID string
	Err    error
}

// Result summarizes one rollover run.
type Result struct {
	State    State
	Period   string
	Winners  []Winner
	Failures []GroupFailure
}

// Config carries the coordinator's rollover policy.
type Config struct {
	// Sports to roll over per team.
	Sports []ledger.Sport
	// ResetScore is the score every member starts the next season with.
	ResetScore int
}

type coordinator struct {
	ledger   ledger.Ledger
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
	notifier notifier.Notifier
	cfg      Config
}
