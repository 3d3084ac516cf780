package season_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/oyvinddd/officesports-sub001/internal/database"
	"github.com/oyvinddd/officesports-sub001/internal/ledger"
	"github.com/oyvinddd/officesports-sub001/internal/metrics"
	"github.com/oyvinddd/officesports-sub001/internal/notifier"
	"github.com/oyvinddd/officesports-sub001/internal/pubsub"
	"github.com/oyvinddd/officesports-sub001/internal/rating"
	"github.com/oyvinddd/officesports-sub001/internal/season"
	"github.com/oyvinddd/officesports-sub001/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCoordinator struct {
	coordinator season.Coordinator
	ledger      ledger.Ledger
	docs        store.DocumentStore
	metrics     *metrics.Mock
	pubsub      *pubsub.MockPubSubClient
	notifier    *notifier.MockNotifier
}

func setupTestCoordinator(t *testing.T) (*testCoordinator, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	docs := store.New(db)
	lgr := ledger.New(docs, rating.NewEngine(32), ledger.Config{
		InitialScore:      1200,
		FloorScoreAtZero:  true,
		MaxCommitAttempts: 3,
	})
	tc := &testCoordinator{
		ledger:   lgr,
		docs:     docs,
		metrics:  metrics.NewMock(),
		pubsub:   &pubsub.MockPubSubClient{},
		notifier: notifier.NewMock(),
	}
	tc.coordinator = season.New(lgr, tc.metrics, tc.pubsub, tc.notifier, season.Config{
		Sports:     []ledger.Sport{ledger.SportFoosball, ledger.SportTableTennis},
		ResetScore: 1200,
	})
	return tc, dbTeardown
}

func seedDoc(t *testing.T, docs store.DocumentStore, collection, id string, doc any) {
	t.Helper()
	key := store.Key{Collection: collection, ID: id}
	err := docs.Update(context.Background(), []store.Key{key}, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return map[store.Key]json.RawMessage{key: data}, nil
	})
	require.NoError(t, err)
}

func seedOffice(t *testing.T, docs store.DocumentStore) {
	t.Helper()
	seedDoc(t, docs, ledger.CollectionTeams, "t1", &ledger.Team{ID: "t1", Name: "Oslo Office"})
	seedDoc(t, docs, ledger.CollectionPlayers, "a", &ledger.Player{ID: "a", Name: "Alice", TeamID: "t1", Stats: map[ledger.Sport]*ledger.Stats{
		ledger.SportFoosball: {Score: 1300, MatchesPlayed: 10, SeasonWins: 1},
	}})
	seedDoc(t, docs, ledger.CollectionPlayers, "b", &ledger.Player{ID: "b", Name: "Bob", TeamID: "t1", Stats: map[ledger.Sport]*ledger.Stats{
		ledger.SportFoosball: {Score: 1250, MatchesPlayed: 12},
	}})
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 5, 0, 0, time.UTC)

	t.Run("finalizes pending groups and announces winners", func(t *testing.T) {
		tc, teardown := setupTestCoordinator(t)
		defer teardown()
		seedOffice(t, tc.docs)

		result, err := tc.coordinator.Run(ctx, now, false)
		require.NoError(t, err)

		assert.Equal(t, season.StateDone, result.State)
		assert.Equal(t, "2026-09", result.Period)
		require.Len(t, result.Winners, 1, "only foosball has players")
		assert.Equal(t, "a", result.Winners[0].PlayerID)
		assert.Equal(t, 1300, result.Winners[0].Score)
		assert.Empty(t, result.Failures)

		// The season record exists and scores are reset.
		record, err := tc.ledger.GetSeason(ctx, "2026-09", ledger.SportFoosball, "t1")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "a", record.WinnerID)

		a, err := tc.ledger.GetPlayer(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 1200, a.Stats[ledger.SportFoosball].Score)
		assert.Equal(t, 2, a.Stats[ledger.SportFoosball].SeasonWins)

		b, err := tc.ledger.GetPlayer(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, 1200, b.Stats[ledger.SportFoosball].Score)
		assert.Equal(t, 0, b.Stats[ledger.SportFoosball].SeasonWins)

		// Announcement and event.
		require.Len(t, tc.notifier.SendSeasonResultsCalls, 1)
		announced := tc.notifier.SendSeasonResultsCalls[0].Results
		require.Len(t, announced, 1)
		assert.Equal(t, "Alice", announced[0].WinnerName)
		assert.Equal(t, "Oslo Office", announced[0].TeamName)
		assert.Equal(t, 2, announced[0].SeasonWins)

		require.Len(t, tc.pubsub.SendMessageCalls, 1)
		assert.Equal(t, "season-finalized", tc.pubsub.SendMessageCalls[0].Topic)

		assert.Equal(t, 1, tc.metrics.RolloverRuns())
	})

	t.Run("second run for the same period is a no-op", func(t *testing.T) {
		tc, teardown := setupTestCoordinator(t)
		defer teardown()
		seedOffice(t, tc.docs)

		_, err := tc.coordinator.Run(ctx, now, false)
		require.NoError(t, err)

		second, err := tc.coordinator.Run(ctx, now, false)
		require.NoError(t, err)
		assert.Equal(t, season.StateSkipped, second.State)
		assert.Empty(t, second.Winners)
		assert.Equal(t, 1, tc.metrics.RolloverSkipped())

		// No double credit.
		a, err := tc.ledger.GetPlayer(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 2, a.Stats[ledger.SportFoosball].SeasonWins)
		require.Len(t, tc.notifier.SendSeasonResultsCalls, 1, "no second announcement")
	})

	t.Run("a new period finalizes again", func(t *testing.T) {
		tc, teardown := setupTestCoordinator(t)
		defer teardown()
		seedOffice(t, tc.docs)

		_, err := tc.coordinator.Run(ctx, now, false)
		require.NoError(t, err)

		// Another month of matches.
		_, err = tc.ledger.ApplyMatchOutcome(ctx, ledger.SportFoosball, []string{"b"}, []string{"a"})
		require.NoError(t, err)

		october := time.Date(2026, 10, 1, 0, 5, 0, 0, time.UTC)
		result, err := tc.coordinator.Run(ctx, october, false)
		require.NoError(t, err)
		assert.Equal(t, season.StateDone, result.State)
		require.Len(t, result.Winners, 1)
		assert.Equal(t, "b", result.Winners[0].PlayerID)
	})

	t.Run("breaks score ties towards the lowest player id", func(t *testing.T) {
		tc, teardown := setupTestCoordinator(t)
		defer teardown()
		seedDoc(t, tc.docs, ledger.CollectionTeams, "t1", &ledger.Team{ID: "t1", Name: "Oslo Office"})
		seedDoc(t, tc.docs, ledger.CollectionPlayers, "zed", &ledger.Player{ID: "zed", Name: "Zed", TeamID: "t1", Stats: map[ledger.Sport]*ledger.Stats{
			ledger.SportFoosball: {Score: 1250, MatchesPlayed: 5},
		}})
		seedDoc(t, tc.docs, ledger.CollectionPlayers, "amy", &ledger.Player{ID: "amy", Name: "Amy", TeamID: "t1", Stats: map[ledger.Sport]*ledger.Stats{
			ledger.SportFoosball: {Score: 1250, MatchesPlayed: 5},
		}})

		result, err := tc.coordinator.Run(ctx, now, false)
		require.NoError(t, err)
		require.Len(t, result.Winners, 1)
		assert.Equal(t, "amy", result.Winners[0].PlayerID)
	})

	t.Run("skips entirely when nobody played", func(t *testing.T) {
		tc, teardown := setupTestCoordinator(t)
		defer teardown()
		seedDoc(t, tc.docs, ledger.CollectionTeams, "t1", &ledger.Team{ID: "t1", Name: "Oslo Office"})
		seedDoc(t, tc.docs, ledger.CollectionPlayers, "a", &ledger.Player{ID: "a", Name: "Alice", TeamID: "t1"})

		result, err := tc.coordinator.Run(ctx, now, false)
		require.NoError(t, err)
		assert.Equal(t, season.StateSkipped, result.State)
		assert.Equal(t, 1, tc.metrics.RolloverSkipped())
	})

	t.Run("dry run reports winners without committing", func(t *testing.T) {
		tc, teardown := setupTestCoordinator(t)
		defer teardown()
		seedOffice(t, tc.docs)

		result, err := tc.coordinator.Run(ctx, now, true)
		require.NoError(t, err)
		assert.Equal(t, season.StateDone, result.State)
		require.Len(t, result.Winners, 1)
		assert.Equal(t, "a", result.Winners[0].PlayerID)

		record, err := tc.ledger.GetSeason(ctx, "2026-09", ledger.SportFoosball, "t1")
		require.NoError(t, err)
		assert.Nil(t, record, "dry run must not write the season record")

		a, err := tc.ledger.GetPlayer(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 1300, a.Stats[ledger.SportFoosball].Score, "dry run must not reset scores")
		assert.Empty(t, tc.pubsub.SendMessageCalls)
	})
}

func TestRun_FailureIsolation(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 5, 0, 0, time.UTC)

	// Stateful mock: two teams, one of which fails to finalize on the first
	// run and succeeds on the second.
	newLedgerMock := func() *ledger.MockLedger {
		finalized := map[string]*ledger.Season{}
		failOnce := map[string]bool{"t2": true}

		m := ledger.NewMock()
		m.ListTeamsFunc = func(ctx context.Context) ([]*ledger.Team, error) {
			return []*ledger.Team{{ID: "t1", Name: "Oslo"}, {ID: "t2", Name: "Bergen"}}, nil
		}
		m.ListPlayersFunc = func(ctx context.Context) ([]*ledger.Player, error) {
			return []*ledger.Player{
				{ID: "a", Name: "Alice", TeamID: "t1", Stats: map[ledger.Sport]*ledger.Stats{ledger.SportFoosball: {Score: 1300, MatchesPlayed: 3}}},
				{ID: "b", Name: "Bob", TeamID: "t2", Stats: map[ledger.Sport]*ledger.Stats{ledger.SportFoosball: {Score: 1280, MatchesPlayed: 4}}},
			}, nil
		}
		m.GetSeasonFunc = func(ctx context.Context, period string, sport ledger.Sport, teamID string) (*ledger.Season, error) {
			return finalized[ledger.SeasonID(period, sport, teamID)], nil
		}
		m.FinalizeSeasonFunc = func(ctx context.Context, period string, sport ledger.Sport, teamID, winnerID string, resetTo int, now time.Time) (*ledger.Season, error) {
			if failOnce[teamID] {
				failOnce[teamID] = false
				return nil, errors.New("write timed out")
			}
			s := &ledger.Season{ID: ledger.SeasonID(period, sport, teamID), Period: period, Sport: sport, TeamID: teamID, WinnerID: winnerID, RecordedAt: now.Unix()}
			finalized[s.ID] = s
			return s, nil
		}
		return m
	}

	lgr := newLedgerMock()
	m := metrics.NewMock()
	coordinator := season.New(lgr, m, &pubsub.MockPubSubClient{}, notifier.NewMock(), season.Config{
		Sports:     []ledger.Sport{ledger.SportFoosball},
		ResetScore: 1200,
	})

	// First run: t1 commits, t2 fails, the run itself still succeeds.
	first, err := coordinator.Run(ctx, now, false)
	require.NoError(t, err)
	assert.Equal(t, season.StateDone, first.State)
	require.Len(t, first.Winners, 1)
	assert.Equal(t, "t1", first.Winners[0].TeamID)
	require.Len(t, first.Failures, 1)
	assert.Equal(t, "t2", first.Failures[0].TeamID)
	assert.Equal(t, 1, m.RolloverGroupFailures())

	// Second run: only the failed group is retried.
	second, err := coordinator.Run(ctx, now, false)
	require.NoError(t, err)
	assert.Equal(t, season.StateDone, second.State)
	require.Len(t, second.Winners, 1)
	assert.Equal(t, "t2", second.Winners[0].TeamID)
	assert.Empty(t, second.Failures)
	require.Len(t, lgr.FinalizeSeasonCalls, 3, "t1 once, t2 twice")
}
