package mclearn

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-mclearn/tictactoe"
)

// LoadMemory decodes a Memory written by Memory.MarshalTo.
func LoadMemory(r io.Reader) (*Memory, error) {
	dec := gob.NewDecoder(r)

	var m Memory
	header := []interface{}{
		&m.PlayerID,
		&m.TotalGames,
		&m.GamesPlayed,
		&m.Wins,
		&m.Losses,
		&m.Draws,
		&m.UniquePositions,
	}

	for _, field := range header {
		if err := dec.Decode(field); err != nil {
			return nil, errors.Wrap(err, "decoding memory header")
		}
	}

	var nPositions int64
	if err := dec.Decode(&nPositions); err != nil {
		return nil, errors.Wrap(err, "decoding position count")
	}

	if nPositions < 0 {
		return nil, errors.Errorf("invalid position count %d", nPositions)
	}

	m.Positions = make(map[tictactoe.Board]*PositionStats)
	for i := int64(0); i < nPositions; i++ {
		var key string
		if err := dec.Decode(&key); err != nil {
			return nil, errors.Wrapf(err, "decoding key of position %d", i)
		}

		b, err := tictactoe.ParseBoard(key)
		if err != nil {
			return nil, err
		}

		var ps PositionStats
		if err := dec.Decode(&ps); err != nil {
			return nil, errors.Wrapf(err, "decoding position %s", key)
		}

		if !ps.Valid() {
			return nil, errors.Errorf("corrupt statistics for position %s", key)
		}

		m.Positions[b] = &ps
	}

	return &m, nil
}

// MarshalTo encodes m to w as a gob stream.
func (m *Memory) MarshalTo(w io.Writer) error {
	enc := gob.NewEncoder(w)

	header := []interface{}{
		m.PlayerID,
		m.TotalGames,
		m.GamesPlayed,
		m.Wins,
		m.Losses,
		m.Draws,
		m.UniquePositions,
	}

	for _, field := range header {
		if err := enc.Encode(field); err != nil {
			return errors.Wrap(err, "encoding memory header")
		}
	}

	if err := enc.Encode(int64(len(m.Positions))); err != nil {
		return errors.Wrap(err, "encoding position count")
	}

	for b, ps := range m.Positions {
		if err := enc.Encode(b.Key()); err != nil {
			return errors.Wrapf(err, "encoding key of position %s", b.Key())
		}

		if err := enc.Encode(ps); err != nil {
			return errors.Wrapf(err, "encoding position %s", b.Key())
		}
	}

	return nil
}
