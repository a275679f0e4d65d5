package mclearn

import (
	"github.com/golang/glog"

	"github.com/timpalpant/go-mclearn/internal/sampling"
	"github.com/timpalpant/go-mclearn/tictactoe"
)

// EvalResult counts outcomes from the learner's point of view.
type EvalResult struct {
	Wins   int
	Losses int
	Draws  int
}

func (r EvalResult) Games() int {
	return r.Wins + r.Losses + r.Draws
}

// Evaluate plays games against an opponent that moves uniformly at random,
// with the learner playing side. The learner's statistics are not updated.
func (l *Learner) Evaluate(games int, temperature float64, side tictactoe.Player) EvalResult {
	var result EvalResult
	if side != tictactoe.PlayerA && side != tictactoe.PlayerB {
		return result
	}

	game := tictactoe.NewGame()
	for i := 0; i < games; i++ {
		game.Reset()
		for !game.IsOver() {
			var move int
			var ok bool
			if game.CurrentPlayer() == side {
				move, ok = l.GetMove(game.Board(), temperature)
			} else {
				move, ok = sampling.Uniform(game.LegalMoves(), l.rng)
			}

			if !ok {
				break
			}

			game.MakeMove(move)
		}

		switch game.Winner() {
		case side:
			result.Wins++
		case tictactoe.Empty:
			result.Draws++
		default:
			result.Losses++
		}
	}

	glog.V(1).Infof("%s as %v vs random: %d wins, %d losses, %d draws",
		l.mem.PlayerID, side, result.Wins, result.Losses, result.Draws)
	return result
}
