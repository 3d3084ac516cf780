package recorder

import (
	"fmt"
	"strings"

	"github.com/oyvinddd/officesports-sub001/internal/ledger"
	"github.com/oyvinddd/officesports-sub001/internal/metrics"
	"github.com/oyvinddd/officesports-sub001/internal/notifier"
	"github.com/oyvinddd/officesports-sub001/internal/pubsub"
	"github.com/oyvinddd/officesports-sub001/internal/store"
)

// Submission is a decided match as reported by a client. TeamID is optional;
// when empty it is derived from the participants.
type Submission struct {
	Sport     ledger.Sport `json:"sport" msgpack:"sport"`
	WinnerIDs []string     `json:"winner_ids" msgpack:"winner_ids"`
	LoserIDs  []string     `json:"loser_ids" msgpack:"loser_ids"`
	TeamID    string       `json:"team_id,omitempty" msgpack:"team_id,omitempty"`
}

// BlackoutPolicy blocks match recording inside a daily window, e.g. outside
// office hours. Exempt players may still record as long as every participant
// is exempt.
type BlackoutPolicy struct {
	Enabled   bool
	Start     string // "HH:MM"
	End       string // "HH:MM", may be before Start for windows spanning midnight
	ExemptIDs []string
}

// Config carries the recorder's validation policy.
type Config struct {
	Sports   []ledger.Sport
	Blackout BlackoutPolicy
}

// Rejection reasons used as metric labels.
const (
	ReasonUnknownSport  = "unknown_sport"
	ReasonParticipants  = "invalid_participants"
	ReasonBlackout      = "blackout"
	ReasonUnknownPlayer = "unknown_player"
	ReasonConflict      = "conflict"
)

// ValidationError reports a malformed submission. Nothing was written.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s", e.Message)
}

// PolicyError reports a well-formed submission blocked by recording policy.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string {
	return e.Message
}

// NotFoundError reports referenced players that do not exist.
type NotFoundError struct {
	IDs []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown players: %s", strings.Join(e.IDs, ", "))
}

type recorder struct {
	ledger   ledger.Ledger
	docs     store.DocumentStore
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
	notifier notifier.Notifier
	cfg      Config
}
