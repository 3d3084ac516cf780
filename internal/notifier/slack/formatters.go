package slack

import (
	"fmt"
	"strings"

	"github.com/oyvinddd/officesports-sub001/internal/ledger"
	"github.com/oyvinddd/officesports-sub001/internal/notifier"
	"github.com/slack-go/slack"
)

func sportEmoji(sport ledger.Sport) string {
	switch sport {
	case ledger.SportFoosball:
		return "⚽️"
	case ledger.SportTableTennis:
		return "🏓"
	default:
		return "🏅"
	}
}

func sportTitle(sport ledger.Sport) string {
	switch sport {
	case ledger.SportFoosball:
		return "Foosball"
	case ledger.SportTableTennis:
		return "Table Tennis"
	default:
		return string(sport)
	}
}

// formatMatchRecorded creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatMatchRecorded(result *notifier.MatchResult) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header - The Header block itself provides bolding. No asterisks needed.
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s Match recorded! %s", sportEmoji(result.Sport), sportEmoji(result.Sport)), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Winners
	var winnerLines []string
	for _, p := range result.Winners {
		winnerLines = append(winnerLines, fmt.Sprintf("• %s %s: %d → %d (+%d)", p.Emoji, p.Name, p.OldScore, p.NewScore, p.Delta))
	}
	winnersText := "Winners:\n" + strings.Join(winnerLines, "\n")
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", winnersText, true, false), nil, nil))

	// Losers
	var loserLines []string
	for _, p := range result.Losers {
		loserLines = append(loserLines, fmt.Sprintf("• %s %s: %d → %d (%d)", p.Emoji, p.Name, p.OldScore, p.NewScore, p.Delta))
	}
	losersText := "Losers:\n" + strings.Join(loserLines, "\n")
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", losersText, true, false), nil, nil))

	// Context - win streaks worth shouting about.
	var contextElements []slack.MixedElement
	for _, p := range result.Winners {
		if p.WinStreak >= 3 {
			contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("🔥 %s is on a %d match win streak!", p.Name, p.WinStreak), true, false))
		}
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatSeasonResults creates the Slack message announcing finalized seasons.
func (s *Notifier) formatSeasonResults(results []notifier.SeasonResult) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🏆 Season results are in! 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(results) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No seasons were finalized this time around.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, result := range results {
		resultText := fmt.Sprintf("%s %s — %s\nWinner: %s %s with %d points (%d season wins total)",
			sportEmoji(result.Sport),
			sportTitle(result.Sport),
			result.TeamName,
			result.WinnerEmoji,
			result.WinnerName,
			result.WinnerScore,
			result.SeasonWins,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), nil, nil))
	}

	// Context
	contextText := fmt.Sprintf("Period: %s • Scores have been reset. Good luck next season!", results[0].Period)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display a sport leaderboard.
func (s *Notifier) formatLeaderboard(sport ledger.Sport, entries []notifier.LeaderboardEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s %s Leaderboard %s", sportEmoji(sport), sportTitle(sport), sportEmoji(sport)), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No scores yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, entry := range entries {
		var medal string
		switch entry.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		entryText := fmt.Sprintf("%d. %s %s %s\n> Score: %d | Matches: %d | Season wins: %d",
			entry.Rank,
			medal,
			entry.Emoji,
			entry.Name,
			entry.Score,
			entry.MatchesPlayed,
			entry.SeasonWins,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", entryText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
