package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name  string
		guess string
		word  string
		want  Verdict
	}{
		{name: "exact", guess: "Calculator", word: "Calculator", want: VerdictCorrect},
		{name: "case and outer space ignored", guess: "  cALCulator ", word: "Calculator", want: VerdictCorrect},
		{name: "inner space significant", guess: "icecream", word: "ice cream", want: VerdictMiss},
		{name: "punctuation significant", guess: "king!", word: "King", want: VerdictClose},
		{name: "substring of word long enough", guess: "calc", word: "Calculator", want: VerdictClose},
		{name: "substring of word too short", guess: "ca", word: "Calculator", want: VerdictMiss},
		{name: "guess contains word", guess: "a king", word: "King", want: VerdictClose},
		{name: "unrelated", guess: "queen", word: "King", want: VerdictMiss},
		{name: "multi word exact", guess: "Ice Cream", word: "ice cream", want: VerdictCorrect},
		{name: "empty guess", guess: "   ", word: "King", want: VerdictMiss},
		{name: "accented upper case", guess: "ÉCLAIR", word: "éclair", want: VerdictCorrect},
		{name: "decomposed accent", guess: "e\u0301clair", word: "\u00e9clair", want: VerdictCorrect},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.guess, tc.word))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hot dog", Normalize("  Hot Dog\t"))
	assert.Equal(t, "", Normalize(" \n "))
}
