package mclearn

import (
	"math"

	"github.com/timpalpant/go-mclearn/tictactoe"
)

// MoveStats accumulates the outcomes of playing one move from one position.
type MoveStats struct {
	Uses        int
	TotalReward float64
}

// AverageReward returns TotalReward / Uses, or 0 for an unused move.
func (m MoveStats) AverageReward() float64 {
	if m.Uses == 0 {
		return 0
	}

	return m.TotalReward / float64(m.Uses)
}

// PositionStats holds the learned statistics for one exact board state.
type PositionStats struct {
	TotalGames int
	Wins       int
	Losses     int
	Draws      int

	// Moves is indexed by board cell.
	Moves [tictactoe.NumCells]MoveStats
}

// record adds one observation of reward for move, from the point of view
// of the player who made it.
func (ps *PositionStats) record(move int, reward float64) {
	ps.TotalGames++
	switch {
	case reward > 0:
		ps.Wins++
	case reward < 0:
		ps.Losses++
	default:
		ps.Draws++
	}

	ps.Moves[move].Uses++
	ps.Moves[move].TotalReward += reward
}

// value scores move with an upper-confidence style bonus that favors
// promising moves that have been tried less. ok is false for moves that
// have never been played from this position.
func (ps *PositionStats) value(move int, confidenceWeight float64) (v float64, ok bool) {
	m := ps.Moves[move]
	if m.Uses <= 0 {
		return 0, false
	}

	n := float64(m.Uses)
	confidence := math.Sqrt(n) / (1 + n)
	return m.AverageReward() + confidenceWeight*confidence, true
}

// bestMove returns the highest valued move among legal. Ties go to the
// earliest entry of legal.
func (ps *PositionStats) bestMove(legal []int, confidenceWeight float64) (int, bool) {
	best, found := 0, false
	bestValue := math.Inf(-1)
	for _, move := range legal {
		v, ok := ps.value(move, confidenceWeight)
		if ok && v > bestValue {
			best, bestValue, found = move, v, true
		}
	}

	return best, found
}

// Valid reports whether ps holds no negative counts or non-finite rewards.
func (ps *PositionStats) Valid() bool {
	if ps.TotalGames < 0 || ps.Wins < 0 || ps.Losses < 0 || ps.Draws < 0 {
		return false
	}

	for _, m := range ps.Moves {
		if m.Uses < 0 || math.IsNaN(m.TotalReward) || math.IsInf(m.TotalReward, 0) {
			return false
		}
	}

	return true
}
