package game

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

type Verdict int

const (
	VerdictMiss Verdict = iota
	VerdictClose
	VerdictCorrect
)

const minCloseGuessLen = 3

// Normalize trims outer whitespace and case-folds. Inner whitespace and
// punctuation are kept.
func Normalize(s string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// Evaluate compares a raw guess against the secret word.
func Evaluate(guess, word string) Verdict {
	g, w := Normalize(guess), Normalize(word)
	if g == "" || w == "" {
		return VerdictMiss
	}
	if g == w {
		return VerdictCorrect
	}
	if strings.Contains(w, g) && utf8.RuneCountInString(g) >= minCloseGuessLen {
		return VerdictClose
	}
	if strings.Contains(g, w) {
		return VerdictClose
	}
	return VerdictMiss
}
