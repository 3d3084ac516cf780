// Package season finalizes monthly seasons: it picks a winner per
// (sport, team) group, credits the win, writes the immutable season record
// and resets scores for the next season.
package season

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oyvinddd/officesports-sub001/internal/ledger"
	"github.com/oyvinddd/officesports-sub001/internal/metrics"
	"github.com/oyvinddd/officesports-sub001/internal/notifier"
	"github.com/oyvinddd/officesports-sub001/internal/pubsub"
)

// New creates a new Coordinator.
func New(lgr ledger.Ledger, m metrics.Metrics, ps pubsub.PubSubClient, n notifier.Notifier, cfg Config) Coordinator {
	return &coordinator{
		ledger:   lgr,
		metrics:  m,
		pubsub:   ps,
		notifier: n,
		cfg:      cfg,
	}
}

// group is one (sport, team) unit of work with its resolved winner.
type group struct {
	sport  ledger.Sport
	team   *ledger.Team
	winner *ledger.Player
}

func (c *coordinator) Run(ctx context.Context, now time.Time, dryRun bool) (*Result, error) {
	period := now.Format("2006-01")
	c.metrics.IncRolloverRuns()
	log.Info("Running season rollover", "period", period, "dryRun", dryRun)

	pending, err := c.collectPending(ctx, period)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		c.metrics.IncRolloverSkipped()
		log.Info("Season rollover skipped, nothing to finalize", "period", period)
		return &Result{State: StateSkipped, Period: period}, nil
	}

	result := &Result{State: StateDone, Period: period}
	var announcements []notifier.SeasonResult
	for _, g := range pending {
		winner := Winner{
			Sport:    g.sport,
			TeamID:   g.team.ID,
			PlayerID: g.winner.ID,
			Score:    g.winner.Stats[g.sport].Score,
		}
		if dryRun {
			log.Info("[Dry Run] Would finalize season", "period", period, "sport", g.sport, "team", g.team.ID, "winner", g.winner.ID)
			result.Winners = append(result.Winners, winner)
			continue
		}

		season, err := c.ledger.FinalizeSeason(ctx, period, g.sport, g.team.ID, g.winner.ID, c.cfg.ResetScore, now)
		if err != nil {
			if errors.Is(err, ledger.ErrSeasonFinalized) {
				// Lost a race against a concurrent run; the group is done.
				log.Info("Season already finalized", "period", period, "sport", g.sport, "team", g.team.ID)
				continue
			}
			c.metrics.IncRolloverGroupFailures()
			log.Error("Failed to finalize season group", "error", err, "period", period, "sport", g.sport, "team", g.team.ID)
			result.Failures = append(result.Failures, GroupFailure{Sport: g.sport, TeamID: g.team.ID, Err: err})
			continue
		}

		result.Winners = append(result.Winners, winner)
		announcements = append(announcements, notifier.SeasonResult{
			Period:      period,
			Sport:       g.sport,
			TeamName:    g.team.Name,
			WinnerName:  g.winner.Name,
			WinnerEmoji: g.winner.Emoji,
			WinnerScore: winner.Score,
			SeasonWins:  g.winner.Stats[g.sport].SeasonWins + 1,
		})
		if c.pubsub != nil {
			if err := c.pubsub.SendMessage(string(pubsub.EventSeasonFinalized), season); err != nil {
				log.Error("Failed to publish season-finalized event", "error", err, "seasonID", season.ID)
			}
		}
	}

	if len(announcements) > 0 && c.notifier != nil {
		if err := c.notifier.SendSeasonResults(announcements, dryRun); err != nil {
			log.Error("Failed to send season results notification", "error", err, "period", period)
		}
	}

	log.Info("Season rollover finished", "period", period, "finalized", len(result.Winners), "failed", len(result.Failures))
	return result, nil
}

// collectPending resolves every (sport, team) group that still needs
// finalization for the period, together with its winner.
func (c *coordinator) collectPending(ctx context.Context, period string) ([]group, error) {
	teams, err := c.ledger.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	players, err := c.ledger.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	byTeam := make(map[string][]*ledger.Player)
	for _, p := range players {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
	}

	var pending []group
	for _, team := range teams {
		for _, sport := range c.cfg.Sports {
			existing, err := c.ledger.GetSeason(ctx, period, sport, team.ID)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				continue
			}
			winner := pickWinner(byTeam[team.ID], sport)
			if winner == nil {
				// Nobody played this sport here; nothing to finalize.
				continue
			}
			pending = append(pending, group{sport: sport, team: team, winner: winner})
		}
	}
	return pending, nil
}

// pickWinner returns the member with the strictly highest score for the
// sport. Ties break towards the lexicographically lowest player id so the
// choice is deterministic.
func pickWinner(members []*ledger.Player, sport ledger.Sport) *ledger.Player {
	candidates := make([]*ledger.Player, 0, len(members))
	for _, p := range members {
		if p.Stats[sport] != nil && p.Stats[sport].MatchesPlayed > 0 {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		si, sj := candidates[i].Stats[sport].Score, candidates[j].Stats[sport].Score
		if si != sj {
			return si > sj
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0]
}
