package mclearn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timpalpant/go-mclearn/tictactoe"
)

func newTestLearner(seed uint64) *Learner {
	params := DefaultParams()
	params.Seed = seed
	return New("test", nil, params)
}

func playGame(t *testing.T, moves ...int) *tictactoe.Game {
	t.Helper()
	g := tictactoe.NewGame()
	for _, m := range moves {
		require.True(t, g.MakeMove(m), "move %d should be legal on\n%v", m, g.Board())
	}

	return g
}

func learn(t *testing.T, l *Learner, moves ...int) {
	t.Helper()
	g := playGame(t, moves...)
	result, over := g.Result()
	require.True(t, over)
	l.LearnFromGame(g.History(), result)
}

func TestExplorationRate(t *testing.T) {
	cases := []struct {
		games       int
		temperature float64
		expected    float64
	}{
		{0, 0, 1.0},
		{1, 0, 0.7},
		{4, 0, 0.7},
		{5, 0, 0.4},
		{9, 0, 0.4},
		{10, 0, 0.2},
		{19, 0, 0.2},
		{20, 0, 0.1},
		{10000, 0, 0.1},
		{10000, 0.1, 0.2},
		{1, 0.5, 1.0},
		{0, 0.3, 1.0},
	}

	for _, c := range cases {
		require.InDelta(t, c.expected, ExplorationRate(c.games, c.temperature), 1e-9,
			"games=%d temperature=%v", c.games, c.temperature)
	}
}

func TestLearnFromGame_TopRowWin(t *testing.T) {
	l := newTestLearner(1)
	g := playGame(t, 0, 3, 1, 4, 2)
	history := g.History()
	l.LearnFromGame(history, tictactoe.PlayerAWins)

	stats := l.Stats()
	require.Equal(t, 1, stats.TotalGames)
	require.Equal(t, 1, stats.GamesPlayed)
	require.Equal(t, 1, stats.Wins)
	require.Equal(t, 0, stats.Losses)
	require.Equal(t, len(history), stats.UniquePositions)

	for _, rec := range history {
		ps, ok := l.Lookup(rec.Before)
		require.True(t, ok)

		for move, m := range ps.Moves {
			if move != rec.Move {
				require.Zero(t, m.Uses)
			}
		}

		m := ps.Moves[rec.Move]
		if rec.Player == tictactoe.PlayerA {
			// Base update plus the half-weight winner bonus.
			require.Equal(t, 2, m.Uses)
			require.InDelta(t, 1.5, m.TotalReward, 1e-9)
			require.Equal(t, 2, ps.Wins)
			require.Greater(t, m.AverageReward(), 0.0)
		} else {
			require.Equal(t, 1, m.Uses)
			require.InDelta(t, -1.0, m.TotalReward, 1e-9)
			require.Equal(t, 1, ps.Losses)
			require.Less(t, m.AverageReward(), 0.0)
		}
	}
}

func TestLearnFromGame_Draw(t *testing.T) {
	l := newTestLearner(1)
	learn(t, l, 0, 1, 2, 4, 3, 5, 7, 6, 8)

	require.Equal(t, 1, l.Stats().Draws)
	require.Equal(t, 9, l.Stats().UniquePositions)
	ps, ok := l.Lookup(tictactoe.Board{})
	require.True(t, ok)
	require.Equal(t, MoveStats{Uses: 1}, ps.Moves[0])
	require.Equal(t, 1, ps.Draws)
}

func TestLearnFromGame_UniquePositions(t *testing.T) {
	l := newTestLearner(1)
	learn(t, l, 0, 3, 1, 4, 2)
	learn(t, l, 0, 3, 1, 4, 2)
	require.Equal(t, 5, l.Stats().UniquePositions)

	// Shares the first three positions.
	learn(t, l, 0, 3, 4, 1, 8)
	require.Equal(t, 7, l.Stats().UniquePositions)
}

func TestLearnFromGame_InvalidatesCache(t *testing.T) {
	l := newTestLearner(7)
	for i := 0; i < 20; i++ {
		learn(t, l, 0, 3, 1, 4, 2)
	}

	// X to move with the top row open at 2.
	board := playGame(t, 0, 3, 1, 4).Board()
	move, ok := l.LearnedMove(board, 0)
	require.True(t, ok)
	require.Equal(t, 2, move)
	cached, ok := l.bestMoves.Get(board)
	require.True(t, ok)
	require.Equal(t, 2, cached)

	// X misses the top row and O completes the middle row.
	learn(t, l, 0, 3, 1, 4, 8, 5)
	_, ok = l.bestMoves.Get(board)
	require.False(t, ok, "updating a position must drop its cached move")
}

func TestGetMove_NoLegalMoves(t *testing.T) {
	l := newTestLearner(1)
	full := playGame(t, 0, 1, 2, 4, 3, 5, 7, 6, 8).Board()

	_, ok := l.GetMove(full, 0.1)
	require.False(t, ok)
	_, ok = l.LearnedMove(full, 0)
	require.False(t, ok)
}

func TestGetMove_AlwaysLegal(t *testing.T) {
	l := newTestLearner(3)
	l.QuickSelfLearn(100)

	tictactoe.VisitPositions(tictactoe.NewGame(), func(b tictactoe.Board, _ tictactoe.Player) {
		if b.Winner() != tictactoe.Empty {
			return
		}

		move, ok := l.GetMove(b, 0)
		if b.Full() {
			require.False(t, ok)
			return
		}

		require.True(t, ok)
		require.True(t, b.IsLegal(move), "illegal move %d on\n%v", move, b)
	})
}

func TestGetMove_ExploresWithoutExperience(t *testing.T) {
	l := newTestLearner(5)
	seen := make(map[int]int)
	for i := 0; i < 200; i++ {
		move, ok := l.GetMove(tictactoe.Board{}, 0)
		require.True(t, ok)
		seen[move]++
	}

	require.Greater(t, len(seen), 1, "must not exploit with no games played")
	_, ok := l.bestMoves.Get(tictactoe.Board{})
	require.False(t, ok)
}

func TestGetMove_PrefersCompletingMove(t *testing.T) {
	l := newTestLearner(11)

	// X X .
	// O O .
	// . . .
	// X wins by completing the top row; anything else lets O complete the
	// middle row.
	for i := 0; i < 25; i++ {
		learn(t, l, 0, 3, 1, 4, 2)
	}
	alternatives := []int{6, 7, 8}
	for i := 0; i < 25; i++ {
		learn(t, l, 0, 3, 1, 4, alternatives[i%len(alternatives)], 5)
	}
	require.Equal(t, 50, l.Stats().TotalGames)
	require.InDelta(t, 0.1, ExplorationRate(l.Stats().TotalGames, 0), 1e-9)

	board := playGame(t, 0, 3, 1, 4).Board()
	ps, ok := l.Lookup(board)
	require.True(t, ok)
	require.InDelta(t, 0.75, ps.Moves[2].AverageReward(), 1e-9)
	require.InDelta(t, -1.0, ps.Moves[6].AverageReward(), 1e-9)

	n := 500
	completing := 0
	for i := 0; i < n; i++ {
		move, ok := l.GetMove(board, 0)
		require.True(t, ok)
		require.True(t, board.IsLegal(move))
		if move == 2 {
			completing++
		}
	}

	// Exploitation always picks 2, and exploration picks it 1 time in 5.
	require.Greater(t, completing, n*8/10)
}

func TestLearnedMove_TieBreaksByEnumerationOrder(t *testing.T) {
	l := newTestLearner(1)
	board := tictactoe.Board{}
	ps := l.lookupOrInsert(board)
	ps.record(6, 1)
	ps.record(2, 1)

	move, ok := l.LearnedMove(board, 0)
	require.True(t, ok)
	require.Equal(t, 2, move)
}

func TestLearnedMove_NoTriedMoveFallsBackToRandom(t *testing.T) {
	l := newTestLearner(1)
	board := tictactoe.Board{}
	board[0] = tictactoe.PlayerA
	board[4] = tictactoe.PlayerB
	l.lookupOrInsert(board)

	for i := 0; i < 20; i++ {
		move, ok := l.LearnedMove(board, 0)
		require.True(t, ok)
		require.True(t, board.IsLegal(move))
	}

	_, ok := l.bestMoves.Get(board)
	require.False(t, ok)
}

func TestQuickSelfLearn(t *testing.T) {
	params := DefaultParams()
	params.Seed = 9
	params.ProgressInterval = 20

	var reports []SelfLearnProgress
	params.Progress = func(p SelfLearnProgress) { reports = append(reports, p) }
	l := New("self", nil, params)

	final := l.QuickSelfLearn(50)
	require.Equal(t, 50, final.Completed)
	require.Equal(t, 50, final.TotalGames)

	require.Len(t, reports, 3)
	require.Equal(t, 20, reports[0].Completed)
	require.Equal(t, 40, reports[1].Completed)
	require.Equal(t, 50, reports[2].Completed)
	require.Equal(t, 50, reports[2].Total)

	stats := l.Stats()
	require.Equal(t, 50, stats.TotalGames)
	require.Equal(t, 50, stats.Wins+stats.Losses+stats.Draws)
	require.Equal(t, final.UniquePositions, stats.UniquePositions)

	ps, ok := l.Lookup(tictactoe.Board{})
	require.True(t, ok)
	// PlayerA moves first in every game and gets a bonus update for each win.
	require.Equal(t, 50+stats.Wins, ps.TotalGames)
}

func TestEvaluate(t *testing.T) {
	l := newTestLearner(21)
	l.QuickSelfLearn(500)
	before := l.Stats()

	res := l.Evaluate(100, 0, tictactoe.PlayerA)
	require.Equal(t, 100, res.Games())
	require.Equal(t, before, l.Stats(), "evaluation must not learn")

	require.Zero(t, l.Evaluate(10, 0, tictactoe.Empty).Games())
}

func TestReset(t *testing.T) {
	l := newTestLearner(1)
	l.QuickSelfLearn(10)
	l.Reset()

	require.Equal(t, Stats{PlayerID: "test"}, l.Stats())
	_, ok := l.Lookup(tictactoe.Board{})
	require.False(t, ok)
}
