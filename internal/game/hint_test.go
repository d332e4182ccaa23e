package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	cases := []struct {
		word     string
		revealed int
		want     string
	}{
		{word: "King", revealed: 0, want: "____"},
		{word: "King", revealed: 1, want: "K___"},
		{word: "Calculator", revealed: 2, want: "Ca________"},
		{word: "ice cream", revealed: 0, want: "___  _____"},
		{word: "ice cream", revealed: 4, want: "ice  c____"},
		{word: "ox", revealed: 5, want: "ox"},
	}

	for _, tc := range cases {
		t.Run(tc.word, func(t *testing.T) {
			assert.Equal(t, tc.want, Mask(tc.word, tc.revealed))
		})
	}
}

func TestMask_ShapeFollowsWord(t *testing.T) {
	for _, word := range []string{"King", "hot dog", "a b c", "Calculator"} {
		for revealed := 0; revealed <= LetterCount(word); revealed++ {
			hint := Mask(word, revealed)
			spaces := strings.Count(word, " ")
			assert.Equal(t, len(word)+spaces, len(hint), "word=%q revealed=%d", word, revealed)
			assert.Equal(t, LetterCount(word)-revealed, strings.Count(hint, "_"))
			assert.Equal(t, spaces, strings.Count(hint, "  "))
		}
	}
}

func TestDueTiers(t *testing.T) {
	firstFire := func(word string, tier int) int {
		for elapsed := 0; elapsed <= 40; elapsed++ {
			if DueTiers(word, 40, elapsed) >= tier {
				return elapsed
			}
		}
		return -1
	}

	assert.Equal(t, 20, firstFire("King", 1))
	assert.Equal(t, -1, firstFire("King", 2), "four letters only get one tier")

	assert.Equal(t, 20, firstFire("Calculator", 1))
	assert.Equal(t, 30, firstFire("Calculator", 2))

	assert.Equal(t, -1, firstFire("Cat", 1), "three letters get no hint")
	assert.Equal(t, 20, firstFire("ice cream", 1))
	assert.Equal(t, -1, firstFire("ice ox", 2), "spaces do not count toward length")
}
