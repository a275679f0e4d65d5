// Package tictactoe implements the 3x3 tic-tac-toe state machine that the
// learner is trained against. It tracks the board, the side to move, win and
// draw detection, and the full move history of the current game.
package tictactoe

import (
	"strings"

	"github.com/pkg/errors"
)

// NumCells is the number of cells on the board.
const NumCells = 9

// Player identifies the owner of a cell or the side to move.
type Player int8

const (
	Empty   Player = 0
	PlayerA Player = 1
	PlayerB Player = -1
)

// Opponent returns the other side. Empty has no opponent.
func (p Player) Opponent() Player {
	return -p
}

// String implements fmt.Stringer.
func (p Player) String() string {
	switch p {
	case PlayerA:
		return "X"
	case PlayerB:
		return "O"
	}

	return "."
}

func parsePlayer(c byte) (Player, bool) {
	switch c {
	case 'X':
		return PlayerA, true
	case 'O':
		return PlayerB, true
	case '.':
		return Empty, true
	}

	return Empty, false
}

// Board is the exact 9-cell configuration, indexed row-major from the
// top-left corner. Boards are comparable and are used directly as map keys.
type Board [NumCells]Player

var winLines = [...][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// LegalMoves returns the indices of the empty cells in ascending order.
func (b Board) LegalMoves() []int {
	moves := make([]int, 0, NumCells)
	for i, p := range b {
		if p == Empty {
			moves = append(moves, i)
		}
	}

	return moves
}

// IsLegal reports whether position is on the board and empty.
func (b Board) IsLegal(position int) bool {
	return position >= 0 && position < NumCells && b[position] == Empty
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, p := range b {
		if p == Empty {
			return false
		}
	}

	return true
}

// Winner returns the owner of a complete line, or Empty if there is none.
func (b Board) Winner() Player {
	for _, line := range winLines {
		p := b[line[0]]
		if p != Empty && b[line[1]] == p && b[line[2]] == p {
			return p
		}
	}

	return Empty
}

// Key returns the 9-character encoding of the board, e.g. "XO..X...O".
func (b Board) Key() string {
	var sb strings.Builder
	sb.Grow(NumCells)
	for _, p := range b {
		sb.WriteString(p.String())
	}

	return sb.String()
}

// String implements fmt.Stringer, rendering the board as three rows.
func (b Board) String() string {
	key := b.Key()
	return key[0:3] + "\n" + key[3:6] + "\n" + key[6:9]
}

// ParseBoard is the inverse of Board.Key.
func ParseBoard(key string) (Board, error) {
	var b Board
	if len(key) != NumCells {
		return b, errors.Errorf("invalid board key %q: expected %d cells, got %d", key, NumCells, len(key))
	}

	for i := 0; i < NumCells; i++ {
		p, ok := parsePlayer(key[i])
		if !ok {
			return b, errors.Errorf("invalid board key %q: unexpected cell %q at %d", key, key[i], i)
		}

		b[i] = p
	}

	return b, nil
}

// Result is the outcome of a finished game. Its value equals the reward
// to PlayerA: +1 for a PlayerA win, -1 for a PlayerB win and 0 for a draw.
type Result int8

const (
	Draw        Result = 0
	PlayerAWins Result = 1
	PlayerBWins Result = -1
)

// ResultFor converts the winner of a finished game (Empty for a draw) to a Result.
func ResultFor(winner Player) Result {
	return Result(winner)
}

// Winner returns the winning player, or Empty for a draw.
func (r Result) Winner() Player {
	return Player(r)
}

// String implements fmt.Stringer.
func (r Result) String() string {
	switch r {
	case PlayerAWins:
		return "X wins"
	case PlayerBWins:
		return "O wins"
	}

	return "draw"
}

// MoveRecord is one entry of a game's history.
type MoveRecord struct {
	Player Player
	Move   int
	// Before is the board as it was before Move was played.
	Before Board
}

// Game is the state machine for a single game. The zero value is not ready
// for use; call NewGame.
type Game struct {
	board   Board
	current Player
	over    bool
	winner  Player
	history []MoveRecord
}

// NewGame returns a game in its initial state, with PlayerA to move.
func NewGame() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// Reset clears the board and history and returns the fresh board.
func (g *Game) Reset() Board {
	g.board = Board{}
	g.current = PlayerA
	g.over = false
	g.winner = Empty
	g.history = nil
	return g.board
}

// Board returns a copy of the current board.
func (g *Game) Board() Board {
	return g.board
}

// CurrentPlayer returns the side to move. After the game ends it is the
// side that made the last move.
func (g *Game) CurrentPlayer() Player {
	return g.current
}

// IsOver reports whether the game has reached a terminal state.
func (g *Game) IsOver() bool {
	return g.over
}

// Winner returns the winner of a finished game, or Empty for a draw or a
// game still in progress.
func (g *Game) Winner() Player {
	return g.winner
}

// Result returns the outcome of the game and whether the game is over.
func (g *Game) Result() (Result, bool) {
	return ResultFor(g.winner), g.over
}

// History returns a copy of the moves played so far.
func (g *Game) History() []MoveRecord {
	return append([]MoveRecord(nil), g.history...)
}

// LegalMoves returns the empty cells of the board.
func (g *Game) LegalMoves() []int {
	return g.board.LegalMoves()
}

// MakeMove places the current player's mark at position. It returns false
// and leaves the game untouched if the cell is occupied, out of range, or
// the game is already over.
func (g *Game) MakeMove(position int) bool {
	if g.over || !g.board.IsLegal(position) {
		return false
	}

	g.history = append(g.history, MoveRecord{
		Player: g.current,
		Move:   position,
		Before: g.board,
	})

	g.board[position] = g.current
	if winner := g.board.Winner(); winner != Empty {
		g.over = true
		g.winner = winner
		return true
	}

	if g.board.Full() {
		g.over = true
		g.winner = Empty
		return true
	}

	g.current = g.current.Opponent()
	return true
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	clone := *g
	clone.history = g.History()
	return &clone
}
