package game

import "math/rand"

// WordBank hands out words for one game without repeating any of them until
// the whole catalog has been drawn.
type WordBank struct {
	catalog []string
	used    map[string]struct{}
	rng     *rand.Rand
}

func NewWordBank(catalog []string, rng *rand.Rand) *WordBank {
	seen := make(map[string]struct{}, len(catalog))
	words := make([]string, 0, len(catalog))
	for _, w := range catalog {
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return &WordBank{
		catalog: words,
		used:    make(map[string]struct{}, len(words)),
		rng:     rng,
	}
}

// Next picks uniformly among unused words. Once everything has been used the
// history is cleared and the pick is made from the full catalog.
func (b *WordBank) Next() (string, bool) {
	if len(b.catalog) == 0 {
		return "", false
	}

	available := make([]string, 0, len(b.catalog)-len(b.used))
	for _, w := range b.catalog {
		if _, ok := b.used[w]; !ok {
			available = append(available, w)
		}
	}
	if len(available) == 0 {
		clear(b.used)
		available = b.catalog
	}

	word := available[b.rng.Intn(len(available))]
	b.used[word] = struct{}{}
	return word, true
}

func (b *WordBank) Reset() { clear(b.used) }

func (b *WordBank) Used() int { return len(b.used) }

func (b *WordBank) Size() int { return len(b.catalog) }
