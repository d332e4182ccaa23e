package game

import "math"

const (
	guesserBase      = 200
	guesserTimeBonus = 300
	drawerBase       = 50
	drawerTimeBonus  = 100
	orderPenalty     = 0.15
)

// TimeRatio is the fraction of the turn still left, within [0, 1].
func TimeRatio(timeRemaining, timePerTurn int) float64 {
	if timePerTurn <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, float64(timeRemaining)/float64(timePerTurn)))
}

// OrderBonus shrinks by 15% per earlier correct guesser; from the 8th on it
// is zero.
func OrderBonus(rank int) float64 {
	if rank < 1 {
		rank = 1
	}
	return math.Max(0, 1-float64(rank-1)*orderPenalty)
}

// GuesserPoints scores the rank-th (1-based) correct guess of a turn.
func GuesserPoints(timeRatio float64, rank int) int {
	return int(math.Round((guesserBase + guesserTimeBonus*timeRatio) * OrderBonus(rank)))
}

// DrawerPoints is what the drawer earns for each correct guess.
func DrawerPoints(timeRatio float64) int {
	return int(math.Round(drawerBase + drawerTimeBonus*timeRatio))
}
