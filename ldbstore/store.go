package ldbstore

import (
	"bytes"
	"encoding/gob"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/timpalpant/go-mclearn"
	"github.com/timpalpant/go-mclearn/tictactoe"
)

const (
	metaPrefix     = "meta:"
	positionPrefix = "pos:"
)

// header holds the aggregate counters of a memory.
type header struct {
	TotalGames      int
	GamesPlayed     int
	Wins            int
	Losses          int
	Draws           int
	UniquePositions int
}

// Store is an mclearn.MemoryStore backed by a LevelDB database.
type Store struct {
	path string

	db    *leveldb.DB
	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

// New opens (creating if necessary) the LevelDB database at path.
func New(path string, opts *opt.Options) (*Store, error) {
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening leveldb at %s", path)
	}

	return &Store{
		path:  path,
		db:    db,
		wOpts: &opt.WriteOptions{Sync: true},
	}, nil
}

// Close implements io.Closer.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load implements mclearn.MemoryStore.
func (s *Store) Load(playerID string) (*mclearn.Memory, error) {
	if err := checkPlayerID(playerID); err != nil {
		return nil, err
	}

	buf, err := s.db.Get(metaKey(playerID), s.rOpts)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, errors.Wrapf(mclearn.ErrNoMemory, "%s in %s", playerID, s.path)
		}

		return nil, errors.Wrapf(err, "reading header of %s", playerID)
	}

	var h header
	if err := decode(buf, &h); err != nil {
		return nil, errors.Wrapf(err, "decoding header of %s", playerID)
	}

	m := mclearn.NewMemory(playerID)
	m.TotalGames = h.TotalGames
	m.GamesPlayed = h.GamesPlayed
	m.Wins = h.Wins
	m.Losses = h.Losses
	m.Draws = h.Draws
	m.UniquePositions = h.UniquePositions

	prefix := positionKeyPrefix(playerID)
	iter := s.db.NewIterator(util.BytesPrefix(prefix), s.rOpts)
	defer iter.Release()
	for iter.Next() {
		boardKey := string(iter.Key()[len(prefix):])
		b, err := tictactoe.ParseBoard(boardKey)
		if err != nil {
			return nil, err
		}

		var ps mclearn.PositionStats
		if err := decode(iter.Value(), &ps); err != nil {
			return nil, errors.Wrapf(err, "decoding position %s of %s", boardKey, playerID)
		}

		if !ps.Valid() {
			return nil, errors.Errorf("corrupt statistics for position %s of %s", boardKey, playerID)
		}

		m.Positions[b] = &ps
	}

	if err := iter.Error(); err != nil {
		return nil, errors.Wrapf(err, "iterating positions of %s", playerID)
	}

	glog.V(1).Infof("Read %d positions of %s from %s", len(m.Positions), playerID, s.path)
	return m, nil
}

// Save implements mclearn.MemoryStore. Positions that are no longer part of
// m are removed, and the whole memory is written in a single batch.
func (s *Store) Save(m *mclearn.Memory) error {
	if err := checkPlayerID(m.PlayerID); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	prefix := positionKeyPrefix(m.PlayerID)
	iter := s.db.NewIterator(util.BytesPrefix(prefix), s.rOpts)
	for iter.Next() {
		boardKey := string(iter.Key()[len(prefix):])
		b, err := tictactoe.ParseBoard(boardKey)
		if _, ok := m.Positions[b]; err != nil || !ok {
			batch.Delete(append([]byte(nil), iter.Key()...))
		}
	}

	iter.Release()
	if err := iter.Error(); err != nil {
		return errors.Wrapf(err, "iterating positions of %s", m.PlayerID)
	}

	h := header{
		TotalGames:      m.TotalGames,
		GamesPlayed:     m.GamesPlayed,
		Wins:            m.Wins,
		Losses:          m.Losses,
		Draws:           m.Draws,
		UniquePositions: m.UniquePositions,
	}

	buf, err := encode(h)
	if err != nil {
		return errors.Wrapf(err, "encoding header of %s", m.PlayerID)
	}
	batch.Put(metaKey(m.PlayerID), buf)

	for b, ps := range m.Positions {
		buf, err := encode(ps)
		if err != nil {
			return errors.Wrapf(err, "encoding position %s of %s", b.Key(), m.PlayerID)
		}

		batch.Put(positionKey(m.PlayerID, b), buf)
	}

	if err := s.db.Write(batch, s.wOpts); err != nil {
		return errors.Wrapf(err, "writing memory of %s", m.PlayerID)
	}

	glog.V(1).Infof("Wrote %d positions of %s to %s", len(m.Positions), m.PlayerID, s.path)
	return nil
}

// Players returns the IDs of all players with a stored memory.
func (s *Store) Players() ([]string, error) {
	var result []string
	iter := s.db.NewIterator(util.BytesPrefix([]byte(metaPrefix)), s.rOpts)
	defer iter.Release()
	for iter.Next() {
		result = append(result, string(iter.Key()[len(metaPrefix):]))
	}

	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "listing players")
	}

	return result, nil
}

func metaKey(playerID string) []byte {
	return []byte(metaPrefix + playerID)
}

func positionKeyPrefix(playerID string) []byte {
	return []byte(positionPrefix + playerID + "/")
}

func positionKey(playerID string, b tictactoe.Board) []byte {
	return append(positionKeyPrefix(playerID), b.Key()...)
}

func checkPlayerID(playerID string) error {
	if playerID == "" || strings.Contains(playerID, "/") {
		return errors.Errorf("invalid player id %q", playerID)
	}

	return nil
}

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decode(buf []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(buf)).Decode(v)
}
