package ledger

import (
	"context"
	"time"
)

// Ledger owns the consistency contract for player aggregates. Every mutation
// goes through one optimistic transaction spanning exactly the players it
// touches; conflicts are retried with a fresh read-modify-write cycle up to
// a bounded attempt count before surfacing ErrTransientConflict.
type Ledger interface {
	// Read path.
	GetPlayer(ctx context.Context, id string) (*Player, error)
	GetPlayers(ctx context.Context, ids []string) ([]*Player, []string, error)
	ListPlayers(ctx context.Context) ([]*Player, error)
	ListTeams(ctx context.Context) ([]*Team, error)
	GetSeason(ctx context.Context, period string, sport Sport, teamID string) (*Season, error)
	ListSeasons(ctx context.Context) ([]*Season, error)

	// ApplyMatchOutcome bootstraps missing Stats entries, recomputes rating
	// deltas from the scores read inside the transaction attempt, and
	// commits score, matches-played and win-streak updates for all
	// participants atomically.
	ApplyMatchOutcome(ctx context.Context, sport Sport, winnerIDs, loserIDs []string) (*MatchOutcome, error)

	// ResetScores sets the sport score of every member of the team back to
	// toValue. Matches played, season wins and win streaks are untouched.
	ResetScores(ctx context.Context, sport Sport, teamID string, toValue int) error

	// CreditSeasonWin increments the player's season-win counter by one.
	CreditSeasonWin(ctx context.Context, sport Sport, teamID, playerID string) error

	// FinalizeSeason commits one rollover group as a single atomic unit:
	// the winner's season-win credit, the immutable season record, and the
	// team's score reset. Returns ErrSeasonFinalized when the record
	// already exists.
	FinalizeSeason(ctx context.Context, period string, sport Sport, teamID, winnerID string, resetTo int, now time.Time) (*Season, error)
}
