package mclearn

import (
	"github.com/timpalpant/go-mclearn/tictactoe"
)

// moveCache memoizes the best move computed for a position. Entries must be
// invalidated whenever the statistics of their position change.
type moveCache map[tictactoe.Board]int

func (m moveCache) Get(b tictactoe.Board) (int, bool) {
	move, ok := m[b]
	return move, ok
}

func (m moveCache) Put(b tictactoe.Board, move int) {
	m[b] = move
}

func (m moveCache) Invalidate(b tictactoe.Board) {
	delete(m, b)
}
