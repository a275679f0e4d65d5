package mclearn

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/go-mclearn/tictactoe"
)

// ErrNoMemory is returned by a MemoryStore when nothing has been saved
// for the requested player.
var ErrNoMemory = errors.New("no stored memory for player")

// Memory is the complete persistent state of one learner.
type Memory struct {
	PlayerID string

	// TotalGames drives the exploration schedule.
	TotalGames  int
	GamesPlayed int
	// Wins, Losses and Draws are counted from PlayerA's point of view.
	Wins            int
	Losses          int
	Draws           int
	UniquePositions int

	Positions map[tictactoe.Board]*PositionStats
}

// NewMemory returns an empty memory for the given player.
func NewMemory(playerID string) *Memory {
	return &Memory{
		PlayerID:  playerID,
		Positions: make(map[tictactoe.Board]*PositionStats),
	}
}

// Clone returns a deep copy of m.
func (m *Memory) Clone() *Memory {
	clone := *m
	clone.Positions = make(map[tictactoe.Board]*PositionStats, len(m.Positions))
	for b, ps := range m.Positions {
		psCopy := *ps
		clone.Positions[b] = &psCopy
	}

	return &clone
}

// MemoryStore persists learner memories, one per player ID.
type MemoryStore interface {
	// Load returns the memory saved for playerID, or an error whose
	// cause is ErrNoMemory if there is none.
	Load(playerID string) (*Memory, error)
	// Save replaces the stored memory for m.PlayerID.
	Save(m *Memory) error
}
