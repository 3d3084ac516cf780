package rating_test

import (
	"testing"

	"github.com/oyvinddd/officesports-sub001/internal/rating"
	"github.com/stretchr/testify/assert"
)

func TestComputeDeltas(t *testing.T) {
	engine := rating.NewEngine(32)

	t.Run("even 1v1 swings half the K-factor", func(t *testing.T) {
		deltas := engine.ComputeDeltas(
			[]rating.PlayerScore{{PlayerID: "a", Score: 1200}},
			[]rating.PlayerScore{{PlayerID: "b", Score: 1200}},
		)

		assert.Equal(t, 16, deltas["a"])
		assert.Equal(t, -16, deltas["b"])
	})

	t.Run("favourite winning gains less than underdog winning", func(t *testing.T) {
		favouriteWins := engine.ComputeDeltas(
			[]rating.PlayerScore{{PlayerID: "a", Score: 1400}},
			[]rating.PlayerScore{{PlayerID: "b", Score: 1200}},
		)
		underdogWins := engine.ComputeDeltas(
			[]rating.PlayerScore{{PlayerID: "b", Score: 1200}},
			[]rating.PlayerScore{{PlayerID: "a", Score: 1400}},
		)

		assert.Less(t, favouriteWins["a"], underdogWins["b"])
		assert.Positive(t, favouriteWins["a"])
	})

	t.Run("team matches rate the side averages with equal member deltas", func(t *testing.T) {
		deltas := engine.ComputeDeltas(
			[]rating.PlayerScore{{PlayerID: "a", Score: 1100}, {PlayerID: "b", Score: 1300}},
			[]rating.PlayerScore{{PlayerID: "c", Score: 1250}, {PlayerID: "d", Score: 1150}},
		)

		// Both side averages are 1200, so this is an even match.
		assert.Equal(t, 16, deltas["a"])
		assert.Equal(t, 16, deltas["b"])
		assert.Equal(t, -16, deltas["c"])
		assert.Equal(t, -16, deltas["d"])
	})

	t.Run("sides are zero-sum", func(t *testing.T) {
		cases := []struct {
			name                       string
			winnerScore, loserScore int
		}{
			{"even", 1200, 1200},
			{"favourite wins", 1500, 1100},
			{"underdog wins", 900, 1600},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				deltas := engine.ComputeDeltas(
					[]rating.PlayerScore{{PlayerID: "w", Score: tc.winnerScore}},
					[]rating.PlayerScore{{PlayerID: "l", Score: tc.loserScore}},
				)
				assert.Equal(t, 0, deltas["w"]+deltas["l"])
				assert.GreaterOrEqual(t, deltas["w"], 0)
			})
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		winners := []rating.PlayerScore{{PlayerID: "a", Score: 1234}}
		losers := []rating.PlayerScore{{PlayerID: "b", Score: 1187}}

		first := engine.ComputeDeltas(winners, losers)
		for range 10 {
			assert.Equal(t, first, engine.ComputeDeltas(winners, losers))
		}
	})
}
