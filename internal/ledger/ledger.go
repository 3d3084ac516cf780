package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oyvinddd/officesports-sub001/internal/rating"
	"github.com/oyvinddd/officesports-sub001/internal/store"
	"github.com/sethvargo/go-retry"
)

// New creates a new Ledger on top of the document store.
func New(docs store.DocumentStore, engine *rating.Engine, cfg Config) Ledger {
	if cfg.MaxCommitAttempts == 0 {
		cfg.MaxCommitAttempts = 3
	}
	return &ledger{
		docs:   docs,
		engine: engine,
		cfg:    cfg,
	}
}

func playerKey(id string) store.Key {
	return store.Key{Collection: CollectionPlayers, ID: id}
}

func (l *ledger) GetPlayer(ctx context.Context, id string) (*Player, error) {
	raw, err := l.docs.Get(ctx, CollectionPlayers, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		return nil, err
	}
	return unmarshalPlayer(id, raw)
}

// GetPlayers resolves a set of player ids. Unknown ids are not an error
// here; they are reported back so the caller can reject the whole request.
func (l *ledger) GetPlayers(ctx context.Context, ids []string) ([]*Player, []string, error) {
	players := make([]*Player, 0, len(ids))
	var missing []string
	for _, id := range ids {
		p, err := l.GetPlayer(ctx, id)
		if err != nil {
			if errors.Is(err, ErrUnknownPlayer) {
				missing = append(missing, id)
				continue
			}
			return nil, nil, err
		}
		players = append(players, p)
	}
	return players, missing, nil
}

func (l *ledger) ListPlayers(ctx context.Context) ([]*Player, error) {
	docs, err := l.docs.List(ctx, CollectionPlayers)
	if err != nil {
		return nil, err
	}
	players := make([]*Player, 0, len(docs))
	for id, raw := range docs {
		p, err := unmarshalPlayer(id, raw)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (l *ledger) ListTeams(ctx context.Context) ([]*Team, error) {
	docs, err := l.docs.List(ctx, CollectionTeams)
	if err != nil {
		return nil, err
	}
	teams := make([]*Team, 0, len(docs))
	for id, raw := range docs {
		var t Team
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal team %s: %w", id, err)
		}
		t.ID = id
		teams = append(teams, &t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

// GetSeason returns the season record for the group, or nil when the period
// has not been finalized for it yet.
func (l *ledger) GetSeason(ctx context.Context, period string, sport Sport, teamID string) (*Season, error) {
	raw, err := l.docs.Get(ctx, CollectionSeasons, SeasonID(period, sport, teamID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var season Season
	if err := json.Unmarshal(raw, &season); err != nil {
		return nil, fmt.Errorf("failed to unmarshal season record: %w", err)
	}
	return &season, nil
}

func (l *ledger) ListSeasons(ctx context.Context) ([]*Season, error) {
	docs, err := l.docs.List(ctx, CollectionSeasons)
	if err != nil {
		return nil, err
	}
	seasons := make([]*Season, 0, len(docs))
	for id, raw := range docs {
		var season Season
		if err := json.Unmarshal(raw, &season); err != nil {
			return nil, fmt.Errorf("failed to unmarshal season %s: %w", id, err)
		}
		seasons = append(seasons, &season)
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].ID < seasons[j].ID })
	return seasons, nil
}

func (l *ledger) ApplyMatchOutcome(ctx context.Context, sport Sport, winnerIDs, loserIDs []string) (*MatchOutcome, error) {
	ids := make([]string, 0, len(winnerIDs)+len(loserIDs))
	ids = append(ids, winnerIDs...)
	ids = append(ids, loserIDs...)

	keys := make([]store.Key, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(id)
	}

	var outcome *MatchOutcome
	err := l.withConflictRetry(ctx, func(ctx context.Context) error {
		return l.docs.Update(ctx, keys, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
			players := make(map[string]*Player, len(ids))
			for _, id := range ids {
				raw := current[playerKey(id)]
				if raw == nil {
					return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
				}
				p, err := unmarshalPlayer(id, raw)
				if err != nil {
					return nil, err
				}
				players[id] = p
			}

			// Deltas are computed from the scores read in this very
			// attempt; a retry after a conflict recomputes them from the
			// fresh scores.
			winners := make([]rating.PlayerScore, len(winnerIDs))
			for i, id := range winnerIDs {
				winners[i] = rating.PlayerScore{PlayerID: id, Score: l.statsFor(players[id], sport).Score}
			}
			losers := make([]rating.PlayerScore, len(loserIDs))
			for i, id := range loserIDs {
				losers[i] = rating.PlayerScore{PlayerID: id, Score: l.statsFor(players[id], sport).Score}
			}
			deltas := l.engine.ComputeDeltas(winners, losers)

			result := &MatchOutcome{
				Scores:  make(map[string]ScoreChange, len(ids)),
				Streaks: make(map[string]int, len(ids)),
			}
			for _, id := range winnerIDs {
				s := l.statsFor(players[id], sport)
				old := s.Score
				s.Score = l.applyDelta(old, deltas[id])
				s.MatchesPlayed++
				s.WinStreak++
				result.Scores[id] = ScoreChange{Old: old, New: s.Score, Delta: deltas[id]}
				result.Streaks[id] = s.WinStreak
			}
			for _, id := range loserIDs {
				s := l.statsFor(players[id], sport)
				old := s.Score
				s.Score = l.applyDelta(old, deltas[id])
				s.MatchesPlayed++
				s.WinStreak = 0
				result.Scores[id] = ScoreChange{Old: old, New: s.Score, Delta: deltas[id]}
				result.Streaks[id] = 0
			}

			updated, err := marshalPlayers(players)
			if err != nil {
				return nil, err
			}
			outcome = result
			return updated, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (l *ledger) ResetScores(ctx context.Context, sport Sport, teamID string, toValue int) error {
	memberIDs, err := l.teamMemberIDs(ctx, teamID)
	if err != nil {
		return err
	}
	if len(memberIDs) == 0 {
		log.Debug("No members to reset", "teamID", teamID, "sport", sport)
		return nil
	}

	return l.withConflictRetry(ctx, func(ctx context.Context) error {
		return l.docs.Update(ctx, playerKeys(memberIDs), func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
			players, err := resetTeamScores(current, memberIDs, sport, toValue)
			if err != nil {
				return nil, err
			}
			return marshalPlayers(players)
		})
	})
}

func (l *ledger) CreditSeasonWin(ctx context.Context, sport Sport, teamID, playerID string) error {
	return l.withConflictRetry(ctx, func(ctx context.Context) error {
		return l.docs.Update(ctx, []store.Key{playerKey(playerID)}, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
			raw := current[playerKey(playerID)]
			if raw == nil {
				return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
			}
			p, err := unmarshalPlayer(playerID, raw)
			if err != nil {
				return nil, err
			}
			l.statsFor(p, sport).SeasonWins++
			return marshalPlayers(map[string]*Player{playerID: p})
		})
	})
}

// FinalizeSeason is the rollover's per-group commit: the season-win credit,
// the immutable season record and the team score reset land in one store
// transaction, or none of them do.
func (l *ledger) FinalizeSeason(ctx context.Context, period string, sport Sport, teamID, winnerID string, resetTo int, now time.Time) (*Season, error) {
	memberIDs, err := l.teamMemberIDs(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !contains(memberIDs, winnerID) {
		memberIDs = append(memberIDs, winnerID)
	}

	seasonKey := store.Key{Collection: CollectionSeasons, ID: SeasonID(period, sport, teamID)}
	keys := append(playerKeys(memberIDs), seasonKey)

	var season *Season
	err = l.withConflictRetry(ctx, func(ctx context.Context) error {
		return l.docs.Update(ctx, keys, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
			if current[seasonKey] != nil {
				return nil, fmt.Errorf("%w: %s", ErrSeasonFinalized, seasonKey.ID)
			}

			players, err := resetTeamScores(current, memberIDs, sport, resetTo)
			if err != nil {
				return nil, err
			}
			winner := players[winnerID]
			if winner == nil {
				return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, winnerID)
			}
			l.statsFor(winner, sport).SeasonWins++

			record := &Season{
				ID:         seasonKey.ID,
				Period:     period,
				Sport:      sport,
				TeamID:     teamID,
				WinnerID:   winnerID,
				RecordedAt: now.Unix(),
			}
			updated, err := marshalPlayers(players)
			if err != nil {
				return nil, err
			}
			recordJSON, err := json.Marshal(record)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal season record: %w", err)
			}
			updated[seasonKey] = recordJSON
			season = record
			return updated, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return season, nil
}

// withConflictRetry repeats the full read-modify-write cycle on optimistic
// conflicts, up to the configured attempt budget. Any other error aborts
// immediately.
func (l *ledger) withConflictRetry(ctx context.Context, op func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(l.cfg.MaxCommitAttempts, retry.NewConstant(25*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if errors.Is(err, store.ErrConflict) {
			log.Debug("Commit conflict, retrying with fresh reads", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, store.ErrConflict) {
		return fmt.Errorf("%w: %v", ErrTransientConflict, err)
	}
	return err
}

// statsFor returns the player's stats entry for the sport, bootstrapping it
// with the configured initial score on first use.
func (l *ledger) statsFor(p *Player, sport Sport) *Stats {
	if p.Stats == nil {
		p.Stats = make(map[Sport]*Stats)
	}
	s, ok := p.Stats[sport]
	if !ok {
		s = &Stats{Score: l.cfg.InitialScore}
		p.Stats[sport] = s
	}
	return s
}

func (l *ledger) applyDelta(score, delta int) int {
	next := score + delta
	if l.cfg.FloorScoreAtZero && next < 0 {
		return 0
	}
	return next
}

func (l *ledger) teamMemberIDs(ctx context.Context, teamID string) ([]string, error) {
	players, err := l.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, p := range players {
		if p.TeamID == teamID {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

// resetTeamScores sets the sport score of every member that already has a
// stats entry for it. Members who never played the sport are left without
// one; counters and streaks are never touched here.
func resetTeamScores(current map[store.Key]json.RawMessage, memberIDs []string, sport Sport, toValue int) (map[string]*Player, error) {
	players := make(map[string]*Player, len(memberIDs))
	for _, id := range memberIDs {
		raw := current[playerKey(id)]
		if raw == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		p, err := unmarshalPlayer(id, raw)
		if err != nil {
			return nil, err
		}
		if s, ok := p.Stats[sport]; ok {
			s.Score = toValue
		}
		players[id] = p
	}
	return players, nil
}

func playerKeys(ids []string) []store.Key {
	keys := make([]store.Key, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(id)
	}
	return keys
}

func unmarshalPlayer(id string, raw json.RawMessage) (*Player, error) {
	var p Player
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player %s: %w", id, err)
	}
	p.ID = id
	return &p, nil
}

func marshalPlayers(players map[string]*Player) (map[store.Key]json.RawMessage, error) {
	updated := make(map[store.Key]json.RawMessage, len(players))
	for id, p := range players {
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal player %s: %w", id, err)
		}
		updated[playerKey(id)] = data
	}
	return updated, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
