// Package mclearn implements a tabular Monte Carlo value learner for
// tic-tac-toe.
//
// The learner keeps visit counts and accumulated rewards for every move
// played from every exact board state it has seen. States are not
// canonicalized under board symmetry. Statistics are written only by
// LearnFromGame, and moves are chosen by an exploration schedule that
// decays with total experience.
//
// A Learner is not safe for concurrent use.
package mclearn

import (
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-mclearn/internal/sampling"
	"github.com/timpalpant/go-mclearn/tictactoe"
)

// Stats are the aggregate counters of a Learner.
type Stats struct {
	PlayerID        string
	TotalGames      int
	GamesPlayed     int
	Wins            int
	Losses          int
	Draws           int
	UniquePositions int
}

type Learner struct {
	params Params
	store  MemoryStore
	rng    *rand.Rand

	mem       *Memory
	bestMoves moveCache
}

// New creates a learner for playerID and restores its memory from store.
// store may be nil, in which case the learner cannot be saved. A missing
// memory starts the learner empty; any other load failure is logged and
// also leaves the learner empty.
func New(playerID string, store MemoryStore, params Params) *Learner {
	l := &Learner{
		params:    params,
		store:     store,
		rng:       rand.New(rand.NewSource(params.seed())),
		mem:       NewMemory(playerID),
		bestMoves: make(moveCache),
	}

	if store != nil {
		if _, err := l.LoadMemory(); err != nil {
			glog.Warningf("Starting %s with an empty memory: %v", playerID, err)
		}
	}

	return l
}

// PlayerID returns the identity the learner's memory is stored under.
func (l *Learner) PlayerID() string {
	return l.mem.PlayerID
}

// Stats returns the learner's aggregate counters.
func (l *Learner) Stats() Stats {
	return Stats{
		PlayerID:        l.mem.PlayerID,
		TotalGames:      l.mem.TotalGames,
		GamesPlayed:     l.mem.GamesPlayed,
		Wins:            l.mem.Wins,
		Losses:          l.mem.Losses,
		Draws:           l.mem.Draws,
		UniquePositions: l.mem.UniquePositions,
	}
}

// Lookup returns a copy of the statistics recorded for board.
func (l *Learner) Lookup(board tictactoe.Board) (PositionStats, bool) {
	ps, ok := l.mem.Positions[board]
	if !ok {
		return PositionStats{}, false
	}

	return *ps, true
}

// Reset discards all learned statistics and counters.
func (l *Learner) Reset() {
	l.mem = NewMemory(l.mem.PlayerID)
	l.bestMoves = make(moveCache)
}

// GetMove returns a legal move for board, exploring with a probability
// derived from the learner's total experience plus temperature. It returns
// false if board has no empty cell.
func (l *Learner) GetMove(board tictactoe.Board, temperature float64) (int, bool) {
	return l.LearnedMove(board, ExplorationRate(l.mem.TotalGames, temperature))
}

// LearnedMove selects a move for board with the given exploration rate.
//
// A uniformly random legal move is returned with probability explorationRate,
// or always if board has never been seen. Otherwise the move with the best
// average reward plus confidence bonus is chosen among the moves tried from
// board. The cached best move is reused while it remains valid.
func (l *Learner) LearnedMove(board tictactoe.Board, explorationRate float64) (int, bool) {
	legal := board.LegalMoves()
	if len(legal) == 0 {
		return 0, false
	}

	ps, seen := l.mem.Positions[board]
	if !seen || l.rng.Float64() < explorationRate {
		return sampling.Uniform(legal, l.rng)
	}

	if move, ok := l.bestMoves.Get(board); ok && board.IsLegal(move) && l.rng.Float64() > explorationRate/2 {
		return move, true
	}

	if move, ok := ps.bestMove(legal, l.params.ConfidenceWeight); ok {
		l.bestMoves.Put(board, move)
		return move, true
	}

	return sampling.Uniform(legal, l.rng)
}

// LearnFromGame updates the statistics with a completed game. Every move is
// credited +1 if its player won, -1 if they lost and 0 for a draw. The
// winner's moves are credited a second time, scaled by Params.WinBonus.
// Records with an out of range move are skipped.
func (l *Learner) LearnFromGame(history []tictactoe.MoveRecord, result tictactoe.Result) {
	l.mem.TotalGames++
	l.mem.GamesPlayed++
	switch result {
	case tictactoe.PlayerAWins:
		l.mem.Wins++
	case tictactoe.PlayerBWins:
		l.mem.Losses++
	default:
		l.mem.Draws++
	}

	aReward := float64(result)
	for i, rec := range history {
		if rec.Move < 0 || rec.Move >= tictactoe.NumCells {
			glog.Warningf("Skipping move %d of game %d: invalid cell %d", i, l.mem.TotalGames, rec.Move)
			continue
		}

		reward := aReward
		if rec.Player == tictactoe.PlayerB {
			reward = -aReward
		}

		l.recordExperience(rec.Before, rec.Move, reward)
		if result != tictactoe.Draw && rec.Player == result.Winner() {
			l.recordExperience(rec.Before, rec.Move, reward*l.params.WinBonus)
		}
	}

	glog.V(2).Infof("Learned from game %d (%v, %d moves): %d positions",
		l.mem.TotalGames, result, len(history), l.mem.UniquePositions)
}

func (l *Learner) recordExperience(board tictactoe.Board, move int, reward float64) {
	ps := l.lookupOrInsert(board)
	ps.record(move, reward)
	l.bestMoves.Invalidate(board)
}

// lookupOrInsert returns the statistics for board, creating an empty entry
// the first time board is seen.
func (l *Learner) lookupOrInsert(board tictactoe.Board) *PositionStats {
	ps, ok := l.mem.Positions[board]
	if !ok {
		ps = &PositionStats{}
		l.mem.Positions[board] = ps
		l.mem.UniquePositions++
	}

	return ps
}

// QuickSelfLearn plays n games in which both sides choose uniformly random
// legal moves, and learns from each of them. The learned policy is not used.
func (l *Learner) QuickSelfLearn(n int) SelfLearnProgress {
	start := time.Now()
	progress := SelfLearnProgress{Total: n}
	report := func() {
		progress.Elapsed = time.Since(start)
		progress.TotalGames = l.mem.TotalGames
		progress.UniquePositions = l.mem.UniquePositions
		if l.params.Progress != nil {
			l.params.Progress(progress)
		}
	}

	game := tictactoe.NewGame()
	for i := 0; i < n; i++ {
		game.Reset()
		for !game.IsOver() {
			move, ok := sampling.Uniform(game.LegalMoves(), l.rng)
			if !ok {
				break
			}

			game.MakeMove(move)
		}

		result, _ := game.Result()
		l.LearnFromGame(game.History(), result)

		progress.Completed = i + 1
		if l.params.ProgressInterval > 0 && progress.Completed%l.params.ProgressInterval == 0 && progress.Completed < n {
			report()
		}
	}

	report()
	glog.V(1).Infof("Self-play of %d games finished in %v: %d total games, %d positions",
		n, progress.Elapsed, progress.TotalGames, progress.UniquePositions)
	return progress
}

// SaveMemory writes the learner's statistics and counters to its store.
func (l *Learner) SaveMemory() error {
	if l.store == nil {
		return errors.Errorf("learner %s has no memory store", l.mem.PlayerID)
	}

	if err := l.store.Save(l.mem.Clone()); err != nil {
		return errors.Wrapf(err, "saving memory of %s", l.mem.PlayerID)
	}

	glog.Infof("Saved memory of %s: %d games, %d positions",
		l.mem.PlayerID, l.mem.GamesPlayed, l.mem.UniquePositions)
	return nil
}

// LoadMemory replaces the learner's statistics with those in its store and
// clears the best-move cache. It returns false with a nil error if nothing
// is stored yet. On any other failure the learner keeps its current state.
func (l *Learner) LoadMemory() (bool, error) {
	if l.store == nil {
		return false, errors.Errorf("learner %s has no memory store", l.mem.PlayerID)
	}

	m, err := l.store.Load(l.mem.PlayerID)
	if err != nil {
		if errors.Cause(err) == ErrNoMemory {
			glog.Infof("No memory stored for %s, starting from scratch", l.mem.PlayerID)
			return false, nil
		}

		return false, errors.Wrapf(err, "loading memory of %s", l.mem.PlayerID)
	}

	if m.PlayerID == "" {
		m.PlayerID = l.mem.PlayerID
	}

	if m.Positions == nil {
		m.Positions = make(map[tictactoe.Board]*PositionStats)
	}

	l.mem = m
	l.bestMoves = make(moveCache)
	glog.Infof("Loaded memory of %s: %d games, %d positions",
		l.mem.PlayerID, l.mem.TotalGames, l.mem.UniquePositions)
	return true, nil
}
