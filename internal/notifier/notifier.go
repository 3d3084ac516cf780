// Package notifier defines the interface for sending notifications about
// recorded matches, leaderboards and season results.
package notifier

import "github.com/oyvinddd/officesports-sub001/internal/ledger"

// PlayerResult describes how a single player came out of a match.
type PlayerResult struct {
	Name      string
	Emoji     string
	OldScore  int
	NewScore  int
	Delta     int
	WinStreak int
}

// MatchResult describes a recorded match, ready for formatting.
type MatchResult struct {
	Sport   ledger.Sport
	Winners []PlayerResult
	Losers  []PlayerResult
}

// SeasonResult describes a finalized season for one sport within one team.
type SeasonResult struct {
	Period      string
	Sport       ledger.Sport
	TeamName    string
	WinnerName  string
	WinnerEmoji string
	WinnerScore int
	SeasonWins  int
}

// LeaderboardEntry is a single row of a sport leaderboard.
type LeaderboardEntry struct {
	Rank          int
	Name          string
	Nickname      string
	Emoji         string
	Score         int
	MatchesPlayed int
	SeasonWins    int
}

// Notifier defines the interface for sending notifications.
// This allows for different notification implementations (e.g., Slack, email).
type Notifier interface {
	SendMatchRecorded(result *MatchResult, dryRun bool) error
	SendSeasonResults(results []SeasonResult, dryRun bool) error
	SendLeaderboard(sport ledger.Sport, entries []LeaderboardEntry, dryRun bool) error
	// FormatLeaderboardResponse formats a leaderboard for a slash command response.
	FormatLeaderboardResponse(sport ledger.Sport, entries []LeaderboardEntry) (any, error)
}
