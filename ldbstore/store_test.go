package ldbstore

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/go-mclearn"
	"github.com/timpalpant/go-mclearn/tictactoe"
)

func newTestStore(t *testing.T) *Store {
	tmpDir, err := os.MkdirTemp("", "mclearn-test-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := New(tmpDir, &opt.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestParams() mclearn.Params {
	params := mclearn.DefaultParams()
	params.Seed = 42
	return params
}

func TestStore_MissingPlayer(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("nobody")
	require.Error(t, err)
	require.Equal(t, mclearn.ErrNoMemory, errors.Cause(err))

	l := mclearn.New("nobody", store, newTestParams())
	require.Equal(t, 0, l.Stats().TotalGames)
	loaded, err := l.LoadMemory()
	require.NoError(t, err)
	require.False(t, loaded)
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	l := mclearn.New("fast_player", store, newTestParams())
	l.QuickSelfLearn(200)
	require.NoError(t, l.SaveMemory())

	reloaded := mclearn.New("fast_player", store, newTestParams())
	require.Equal(t, l.Stats(), reloaded.Stats())

	want, err := store.Load("fast_player")
	require.NoError(t, err)
	require.Len(t, want.Positions, l.Stats().UniquePositions)
	for b := range want.Positions {
		expected, ok := l.Lookup(b)
		require.True(t, ok)
		got, ok := reloaded.Lookup(b)
		require.True(t, ok)
		require.Equal(t, expected, got, "position\n%v", b)
	}
}

func TestStore_SaveReplacesPositions(t *testing.T) {
	store := newTestStore(t)

	l := mclearn.New("p1", store, newTestParams())
	l.QuickSelfLearn(50)
	require.NoError(t, l.SaveMemory())

	l.Reset()
	g := tictactoe.NewGame()
	for _, m := range []int{0, 3, 1, 4, 2} {
		require.True(t, g.MakeMove(m))
	}
	result, _ := g.Result()
	l.LearnFromGame(g.History(), result)
	require.NoError(t, l.SaveMemory())

	m, err := store.Load("p1")
	require.NoError(t, err)
	require.Len(t, m.Positions, 5)
	require.Equal(t, 1, m.TotalGames)
	require.Equal(t, 5, m.UniquePositions)
}

func TestStore_Players(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []string{"alice", "bob"} {
		l := mclearn.New(id, store, newTestParams())
		l.QuickSelfLearn(5)
		require.NoError(t, l.SaveMemory())
	}

	players, err := store.Players()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"alice", "bob"}, players)

	alice, err := store.Load("alice")
	require.NoError(t, err)
	require.Equal(t, 5, alice.TotalGames)
}

func TestStore_InvalidPlayerID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("a/b")
	require.Error(t, err)
	require.Error(t, store.Save(mclearn.NewMemory("")))
}
