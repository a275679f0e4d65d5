package mclearn

import (
	"time"
)

// SelfLearnProgress is reported periodically while QuickSelfLearn runs.
type SelfLearnProgress struct {
	Completed int // Self-play games finished in this batch.
	Total     int // Self-play games requested in this batch.
	Elapsed   time.Duration

	TotalGames      int // Lifetime games learned from.
	UniquePositions int
}

// Params are the configuration options for a Learner.
// DefaultParams returns the values the learner was tuned with.
type Params struct {
	// Weight of the sqrt(n)/(1+n) confidence bonus added to a move's
	// average reward during move selection.
	ConfidenceWeight float64
	// Fraction of the reward applied a second time to each of the
	// winner's moves.
	WinBonus float64
	// Seed for the learner's random source. Zero seeds from the clock.
	Seed uint64

	// Progress, if non-nil, is called every ProgressInterval self-play
	// games and once when QuickSelfLearn finishes.
	Progress         func(SelfLearnProgress)
	ProgressInterval int
}

func DefaultParams() Params {
	return Params{
		ConfidenceWeight: 0.1,
		WinBonus:         0.5,
		ProgressInterval: 20,
	}
}

// ExplorationRate returns the probability of playing a uniformly random
// move after totalGames games of experience. The staged schedule decays from
// 1.0 to a floor of 0.1; temperature is added on top and the sum is capped at 1.0.
func ExplorationRate(totalGames int, temperature float64) float64 {
	var rate float64
	switch {
	case totalGames <= 0:
		rate = 1.0
	case totalGames < 5:
		rate = 0.7
	case totalGames < 10:
		rate = 0.4
	case totalGames < 20:
		rate = 0.2
	default:
		rate = 0.1
	}

	rate += temperature
	if rate > 1.0 {
		rate = 1.0
	}

	return rate
}

func (p Params) seed() uint64 {
	if p.Seed != 0 {
		return p.Seed
	}

	return uint64(time.Now().UnixNano())
}
