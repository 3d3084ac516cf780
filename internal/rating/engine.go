// Package rating computes Elo rating deltas for match outcomes. It is pure
// arithmetic: no I/O, no clock, identical inputs always yield identical
// deltas, which is what makes commit retries safe to recompute.
package rating

import "math"

// PlayerScore pairs a player with their score at the time of computation.
type PlayerScore struct {
	PlayerID string
	Score    int
}

// Engine computes rating deltas with a fixed K-factor.
type Engine struct {
	k float64
}

// NewEngine creates an Engine with the given K-factor.
func NewEngine(kFactor int) *Engine {
	return &Engine{k: float64(kFactor)}
}

// ComputeDeltas returns the per-player rating delta for a decided match.
// Team matches are rated at the side level: the expected outcome is derived
// from the average score of each side, and every member of a side receives
// the same delta. The winning side's delta is round(K * (1 - expected)) and
// the losing side's is its negation, so the sides always sum to zero.
func (e *Engine) ComputeDeltas(winners, losers []PlayerScore) map[string]int {
	winnerAvg := sideAverage(winners)
	loserAvg := sideAverage(losers)

	expectedWinner := 1 / (1 + math.Pow(10, (loserAvg-winnerAvg)/400))
	sideDelta := int(math.Round(e.k * (1 - expectedWinner)))

	deltas := make(map[string]int, len(winners)+len(losers))
	for _, p := range winners {
		deltas[p.PlayerID] = sideDelta
	}
	for _, p := range losers {
		deltas[p.PlayerID] = -sideDelta
	}
	return deltas
}

func sideAverage(side []PlayerScore) float64 {
	if len(side) == 0 {
		return 0
	}
	sum := 0
	for _, p := range side {
		sum += p.Score
	}
	return float64(sum) / float64(len(side))
}
