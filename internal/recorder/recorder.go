// Package recorder turns match submissions into committed rating updates and
// immutable match records.
package recorder

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oyvinddd/officesports-sub001/internal/ledger"
	"github.com/oyvinddd/officesports-sub001/internal/metrics"
	"github.com/oyvinddd/officesports-sub001/internal/notifier"
	"github.com/oyvinddd/officesports-sub001/internal/pubsub"
	"github.com/oyvinddd/officesports-sub001/internal/store"
)

// New creates a new Recorder backed by the ledger for rating commits and the
// document store for the immutable match history.
func New(lgr ledger.Ledger, docs store.DocumentStore, m metrics.Metrics, ps pubsub.PubSubClient, n notifier.Notifier, cfg Config) Recorder {
	return &recorder{
		ledger:   lgr,
		docs:     docs,
		metrics:  m,
		pubsub:   ps,
		notifier: n,
		cfg:      cfg,
	}
}

func (r *recorder) RecordMatch(ctx context.Context, sub *Submission, now time.Time) (*ledger.Match, *ledger.MatchOutcome, error) {
	started := time.Now()

	if err := r.validateSport(sub.Sport); err != nil {
		r.metrics.IncMatchesRejected(ReasonUnknownSport)
		return nil, nil, err
	}
	if err := validateParticipants(sub.WinnerIDs, sub.LoserIDs); err != nil {
		r.metrics.IncMatchesRejected(ReasonParticipants)
		return nil, nil, err
	}
	participants := append(append([]string{}, sub.WinnerIDs...), sub.LoserIDs...)
	if err := r.checkBlackout(now, participants); err != nil {
		r.metrics.IncMatchesRejected(ReasonBlackout)
		return nil, nil, err
	}

	players, missing, err := r.ledger.GetPlayers(ctx, participants)
	if err != nil {
		return nil, nil, err
	}
	if len(missing) > 0 {
		r.metrics.IncMatchesRejected(ReasonUnknownPlayer)
		return nil, nil, &NotFoundError{IDs: missing}
	}

	outcome, err := r.ledger.ApplyMatchOutcome(ctx, sub.Sport, sub.WinnerIDs, sub.LoserIDs)
	if err != nil {
		if errors.Is(err, ledger.ErrTransientConflict) {
			r.metrics.IncCommitConflicts()
			r.metrics.IncMatchesRejected(ReasonConflict)
		}
		return nil, nil, err
	}

	deltas := make(map[string]int, len(outcome.Scores))
	for id, change := range outcome.Scores {
		deltas[id] = change.Delta
	}
	match := &ledger.Match{
		RecordedAt: now.Unix(),
		Sport:      sub.Sport,
		TeamID:     resolveTeamID(sub, players),
		WinnerIDs:  sub.WinnerIDs,
		LoserIDs:   sub.LoserIDs,
		Deltas:     deltas,
	}
	id, err := r.docs.Append(ctx, ledger.CollectionMatches, match)
	if err != nil {
		// Scores are already committed at this point; the history record is
		// the only thing missing.
		log.Error("Failed to append match record", "error", err, "sport", sub.Sport)
		return nil, outcome, err
	}
	match.ID = id

	r.metrics.IncMatchesRecorded(string(sub.Sport))
	r.metrics.ObserveRecordDuration(time.Since(started).Seconds())
	log.Info("Recorded match", "matchID", match.ID, "sport", match.Sport, "winners", match.WinnerIDs, "losers", match.LoserIDs)

	if r.pubsub != nil {
		if err := r.pubsub.SendMessage(string(pubsub.EventMatchRecorded), match); err != nil {
			log.Error("Failed to publish match-recorded event", "error", err, "matchID", match.ID)
		}
	}
	if r.notifier != nil {
		result := buildMatchResult(sub, players, outcome)
		if err := r.notifier.SendMatchRecorded(result, false); err != nil {
			log.Error("Failed to send match notification", "error", err, "matchID", match.ID)
		}
	}

	return match, outcome, nil
}

func (r *recorder) validateSport(sport ledger.Sport) error {
	for _, s := range r.cfg.Sports {
		if s == sport {
			return nil
		}
	}
	return &ValidationError{Reason: ReasonUnknownSport, Message: "unknown sport: " + string(sport)}
}

func validateParticipants(winnerIDs, loserIDs []string) error {
	if len(winnerIDs) == 0 || len(loserIDs) == 0 {
		return &ValidationError{Reason: ReasonParticipants, Message: "both sides need at least one player"}
	}
	seen := make(map[string]bool, len(winnerIDs)+len(loserIDs))
	for _, id := range winnerIDs {
		if seen[id] {
			return &ValidationError{Reason: ReasonParticipants, Message: "player listed twice: " + id}
		}
		seen[id] = true
	}
	for _, id := range loserIDs {
		if seen[id] {
			return &ValidationError{Reason: ReasonParticipants, Message: "player listed twice: " + id}
		}
		seen[id] = true
	}
	return nil
}

// checkBlackout blocks recording inside the configured daily window unless
// every participant is exempt. A window whose end is before its start spans
// midnight.
func (r *recorder) checkBlackout(now time.Time, participants []string) error {
	policy := r.cfg.Blackout
	if !policy.Enabled {
		return nil
	}
	start, errS := time.Parse("15:04", policy.Start)
	end, errE := time.Parse("15:04", policy.End)
	if errS != nil || errE != nil {
		log.Warn("Ignoring malformed blackout window", "start", policy.Start, "end", policy.End)
		return nil
	}
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	nowMin := now.Hour()*60 + now.Minute()

	var inWindow bool
	if startMin <= endMin {
		inWindow = nowMin >= startMin && nowMin < endMin
	} else {
		inWindow = nowMin >= startMin || nowMin < endMin
	}
	if !inWindow {
		return nil
	}

	exempt := make(map[string]bool, len(policy.ExemptIDs))
	for _, id := range policy.ExemptIDs {
		exempt[id] = true
	}
	for _, id := range participants {
		if !exempt[id] {
			return &PolicyError{Message: "match recording is blocked between " + policy.Start + " and " + policy.End}
		}
	}
	return nil
}

func resolveTeamID(sub *Submission, players []*ledger.Player) string {
	if sub.TeamID != "" {
		return sub.TeamID
	}
	for _, p := range players {
		if p.TeamID != "" {
			return p.TeamID
		}
	}
	return ""
}

func buildMatchResult(sub *Submission, players []*ledger.Player, outcome *ledger.MatchOutcome) *notifier.MatchResult {
	byID := make(map[string]*ledger.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	side := func(ids []string) []notifier.PlayerResult {
		results := make([]notifier.PlayerResult, 0, len(ids))
		for _, id := range ids {
			change := outcome.Scores[id]
			result := notifier.PlayerResult{
				OldScore:  change.Old,
				NewScore:  change.New,
				Delta:     change.Delta,
				WinStreak: outcome.Streaks[id],
			}
			if p, ok := byID[id]; ok {
				result.Name = p.Name
				result.Emoji = p.Emoji
			}
			results = append(results, result)
		}
		return results
	}
	return &notifier.MatchResult{
		Sport:   sub.Sport,
		Winners: side(sub.WinnerIDs),
		Losers:  side(sub.LoserIDs),
	}
}
