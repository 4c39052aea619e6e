package elo

import (
	"math"
)

// KFactor is the maximum rating swing for a single match.
const KFactor = 60

type Result struct {
	WinnerRating int
	LoserRating  int
	WinnerDelta  int
	LoserDelta   int // zero or negative
}

// Change is the value shown to players as "+N".
func (r Result) Change() int {
	if r.WinnerDelta < 0 {
		return -r.WinnerDelta
	}
	return r.WinnerDelta
}

// ExpectedScore returns the probability that a player rated a beats one rated b:
// E = 1 / (1 + 10^((b - a) / 400))
func ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// ApplyResult computes both new ratings after winnerRating beats loserRating.
// The two deltas are rounded independently, so at exact half-point boundaries
// WinnerDelta != -LoserDelta.
func ApplyResult(winnerRating, loserRating int) Result {
	winnerExpected := ExpectedScore(float64(winnerRating), float64(loserRating))
	loserExpected := ExpectedScore(float64(loserRating), float64(winnerRating))

	winnerDelta, loserDelta := deltas(winnerExpected, loserExpected)

	return Result{
		WinnerRating: winnerRating + winnerDelta,
		LoserRating:  loserRating + loserDelta,
		WinnerDelta:  winnerDelta,
		LoserDelta:   loserDelta,
	}
}

func deltas(winnerExpected, loserExpected float64) (int, int) {
	winner := roundHalfUp(KFactor * (1 - winnerExpected))
	loser := roundHalfUp(KFactor * (0 - loserExpected))
	return winner, loser
}

// roundHalfUp rounds .5 towards positive infinity (-7.5 -> -7, 7.5 -> 8).
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
