package game

import "strings"

// LetterCount is the word length ignoring spaces.
func LetterCount(word string) int {
	n := 0
	for _, r := range word {
		if r != ' ' {
			n++
		}
	}
	return n
}

// DueTiers reports how many hint tiers have fired after elapsed seconds of a
// turn lasting timePerTurn seconds. Words longer than 3 letters get a tier at
// the halfway mark, longer than 5 a second one with a quarter left.
func DueTiers(word string, timePerTurn, elapsed int) int {
	letters := LetterCount(word)
	total := float64(timePerTurn)
	at := float64(elapsed)

	due := 0
	if letters > 3 && at >= total-0.5*total {
		due++
	}
	if letters > 5 && at >= total-0.25*total {
		due++
	}
	return due
}

// Mask renders the word with the first revealed letters visible, every other
// letter as '_' and each space as a double space.
func Mask(word string, revealed int) string {
	var b strings.Builder
	shown := 0
	for _, r := range word {
		switch {
		case r == ' ':
			b.WriteString("  ")
		case shown < revealed:
			b.WriteRune(r)
			shown++
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
