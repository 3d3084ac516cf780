package ledger

import (
	"errors"

	"github.com/oyvinddd/officesports-sub001/internal/rating"
	"github.com/oyvinddd/officesports-sub001/internal/store"
)

// Collection names in the document store. The ledger owns the players
// collection; matches and seasons are append-only history.
const (
	CollectionPlayers = "players"
	CollectionTeams   = "teams"
	CollectionMatches = "matches"
	CollectionSeasons = "seasons"
)

// Sport identifies one of the configured office sports.
type Sport string

const (
	SportFoosball    Sport = "foosball"
	SportTableTennis Sport = "table-tennis"
)

// Stats holds a player's aggregate for a single sport. Score is the live
// Elo rating; MatchesPlayed and SeasonWins only ever grow; WinStreak resets
// to zero on any loss.
type Stats struct {
	Score         int `json:"score"`
	MatchesPlayed int `json:"matches_played"`
	SeasonWins    int `json:"season_wins"`
	WinStreak     int `json:"win_streak"`
}

// Player is the long-lived mutable aggregate. Stats entries are created
// lazily the first time a player appears in a match for a sport.
type Player struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Nickname string           `json:"nickname,omitempty"`
	Emoji    string           `json:"emoji,omitempty"`
	TeamID   string           `json:"team_id,omitempty"`
	Stats    map[Sport]*Stats `json:"stats,omitempty"`
}

// Team is read-only from the ledger's perspective; membership is managed
// elsewhere and expressed through Player.TeamID.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Match is an immutable record of one decided match, including the rating
// delta each participant received.
type Match struct {
	ID         string         `json:"id,omitempty"`
	RecordedAt int64          `json:"recorded_at"`
	Sport      Sport          `json:"sport"`
	TeamID     string         `json:"team_id,omitempty"`
	WinnerIDs  []string       `json:"winner_ids"`
	LoserIDs   []string       `json:"loser_ids"`
	Deltas     map[string]int `json:"deltas"`
}

// Season is the immutable record of one finalized (sport, team, period)
// group. Its id is deterministic so a period can be finalized at most once.
type Season struct {
	ID         string `json:"id"`
	Period     string `json:"period"`
	Sport      Sport  `json:"sport"`
	TeamID     string `json:"team_id"`
	WinnerID   string `json:"winner_id"`
	RecordedAt int64  `json:"recorded_at"`
}

// SeasonID builds the deterministic document id for a season record.
func SeasonID(period string, sport Sport, teamID string) string {
	return period + "|" + string(sport) + "|" + teamID
}

// ScoreChange reports how one player's score moved inside a committed match.
type ScoreChange struct {
	Old   int `json:"old"`
	New   int `json:"new"`
	Delta int `json:"delta"`
}

// MatchOutcome is the result of one committed ApplyMatchOutcome call.
type MatchOutcome struct {
	Scores  map[string]ScoreChange
	Streaks map[string]int
}

var (
	// ErrTransientConflict is returned when the bounded commit retry budget
	// is exhausted. Nothing has been written; the whole submission may be
	// retried.
	ErrTransientConflict = errors.New("ledger: commit conflict retry budget exhausted")
	// ErrUnknownPlayer is returned when a referenced player document does
	// not exist. No stats are touched.
	ErrUnknownPlayer = errors.New("ledger: unknown player")
	// ErrSeasonFinalized is returned by FinalizeSeason when the season
	// record for the group already exists.
	ErrSeasonFinalized = errors.New("ledger: season already finalized")
)

// Config carries the ledger's rating policy knobs.
type Config struct {
	// InitialScore seeds a player's first Stats entry for a sport.
	InitialScore int
	// FloorScoreAtZero clamps persisted scores at zero when enabled.
	FloorScoreAtZero bool
	// MaxCommitAttempts bounds the optimistic-conflict retry loop.
	MaxCommitAttempts uint64
}

// ledger is the sole writer of player aggregates.
type ledger struct {
	docs   store.DocumentStore
	engine *rating.Engine
	cfg    Config
}
