// Package words provides the drawing-word catalog: a built-in list, a
// newline-delimited file, or a Postgres table.
package words

import "slices"

var builtin = []string{
	"apple", "banana", "bicycle", "bridge", "butterfly", "cactus", "calculator",
	"camera", "candle", "castle", "cat", "chair", "clock", "cloud", "crown",
	"diamond", "dinosaur", "dog", "dragon", "drum", "elephant", "envelope",
	"fish", "flower", "giraffe", "guitar", "hammer", "helicopter", "house",
	"igloo", "island", "kangaroo", "key", "king", "kite", "ladder", "lamp",
	"lighthouse", "lion", "mountain", "mushroom", "octopus", "owl", "penguin",
	"piano", "pizza", "pyramid", "rainbow", "robot", "rocket", "sandwich",
	"scissors", "snowman", "spider", "sun", "telescope", "tent", "tiger",
	"toothbrush", "tree", "umbrella", "volcano", "whale", "windmill",
	"hot dog", "ice cream", "fire truck", "palm tree", "roller coaster",
	"swimming pool", "traffic light", "birthday cake",
}

// Default returns a copy of the built-in catalog.
func Default() []string { return slices.Clone(builtin) }
