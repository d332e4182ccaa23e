package game

import "time"

const (
	MinRounds          = 3
	MaxRounds          = 30
	MinTimePerTurn     = 15
	MaxTimePerTurn     = 90
	DefaultRounds      = 10
	DefaultTimePerTurn = 60
	MaxPlayers         = 10
	MinPlayersToStart  = 2
)

type Settings struct {
	TotalRounds  int
	TimePerTurn  int // seconds
	Championship bool
}

// Overrides carries the optional fields of create_room / start_game.
type Overrides struct {
	TotalRounds  *int
	TimePerTurn  *int
	Championship *bool
}

func DefaultSettings() Settings {
	return Settings{TotalRounds: DefaultRounds, TimePerTurn: DefaultTimePerTurn}
}

// Apply layers the set fields of ov over s and clamps the result.
func (s Settings) Apply(ov Overrides) Settings {
	if ov.TotalRounds != nil {
		s.TotalRounds = *ov.TotalRounds
	}
	if ov.TimePerTurn != nil {
		s.TimePerTurn = *ov.TimePerTurn
	}
	if ov.Championship != nil {
		s.Championship = *ov.Championship
	}
	return s.Clamped()
}

func (s Settings) Clamped() Settings {
	s.TotalRounds = clamp(s.TotalRounds, MinRounds, MaxRounds)
	s.TimePerTurn = clamp(s.TimePerTurn, MinTimePerTurn, MaxTimePerTurn)
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Timing holds the one-shot delays between turns.
type Timing struct {
	StartDelay  time.Duration // game_started -> first turn
	DecisiveGap time.Duration // everyone guessed, or nobody did
	PartialGap  time.Duration // some but not all guessed
}

func DefaultTiming() Timing {
	return Timing{
		StartDelay:  3 * time.Second,
		DecisiveGap: 3 * time.Second,
		PartialGap:  5 * time.Second,
	}
}
