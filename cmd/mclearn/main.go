// Command mclearn trains a tic-tac-toe learner by random self-play,
// measures it against a random opponent and saves its memory.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/go-mclearn"
	"github.com/timpalpant/go-mclearn/ldbstore"
	"github.com/timpalpant/go-mclearn/tictactoe"
)

var (
	playerID    = flag.String("player", "fast_player", "Identity the learner's memory is stored under")
	storeKind   = flag.String("store", "file", "Memory store: file or leveldb")
	dir         = flag.String("dir", ".", "Directory for memory files or the LevelDB database")
	train       = flag.Int("train", 100, "Number of random self-play games to learn from")
	eval        = flag.Int("eval", 0, "Number of evaluation games against a random opponent, per side")
	temperature = flag.Float64("temperature", 0.1, "Exploration added on top of the learner's schedule")
	seed        = flag.Uint64("seed", 0, "Random seed (0 seeds from the clock)")
	list        = flag.Bool("list", false, "List the players stored in the LevelDB database and exit")
)

func openStore() (mclearn.MemoryStore, io.Closer, error) {
	switch *storeKind {
	case "file":
		return mclearn.NewFileStore(*dir), nil, nil
	case "leveldb":
		store, err := ldbstore.New(*dir, &opt.Options{})
		if err != nil {
			return nil, nil, err
		}

		return store, store, nil
	}

	return nil, nil, errors.Errorf("unknown store %q", *storeKind)
}

func main() {
	flag.Parse()
	defer glog.Flush()

	store, closer, err := openStore()
	if err != nil {
		glog.Exit(err)
	}

	if closer != nil {
		defer closer.Close()
	}

	if *list {
		ldb, ok := store.(*ldbstore.Store)
		if !ok {
			glog.Exit("-list requires -store=leveldb")
		}

		players, err := ldb.Players()
		if err != nil {
			glog.Exit(err)
		}

		for _, p := range players {
			fmt.Println(p)
		}

		return
	}

	params := mclearn.DefaultParams()
	params.Seed = *seed
	params.Progress = func(p mclearn.SelfLearnProgress) {
		glog.Infof("Self-play %d/%d games (%v): %d total games, %d positions",
			p.Completed, p.Total, p.Elapsed, p.TotalGames, p.UniquePositions)
	}

	learner := mclearn.New(*playerID, store, params)
	if *train > 0 {
		learner.QuickSelfLearn(*train)
	}

	if *eval > 0 {
		for _, side := range []tictactoe.Player{tictactoe.PlayerA, tictactoe.PlayerB} {
			res := learner.Evaluate(*eval, *temperature, side)
			fmt.Printf("as %v: %d wins, %d losses, %d draws (%.1f%% not lost)\n", side,
				res.Wins, res.Losses, res.Draws, 100*float64(res.Wins+res.Draws)/float64(res.Games()))
		}
	}

	if err := learner.SaveMemory(); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}

	stats := learner.Stats()
	fmt.Printf("%s: %d games (%d X wins, %d O wins, %d draws), %d positions\n",
		stats.PlayerID, stats.TotalGames, stats.Wins, stats.Losses, stats.Draws, stats.UniquePositions)
}
