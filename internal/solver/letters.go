// internal/solver/letters.go
//
// Letter frequency scoring and candidate-set filtering shared by the
// strategies.

package solver

import (
	"strings"

	"github.com/hangsolve/go-server/internal/dict"
	"github.com/hangsolve/go-server/internal/game"
)

// MostLikelyLetter returns the untried letter contained by the most candidate
// words. A word containing a letter more than once still counts once. Ties go
// to the letter later in the alphabet: the A-Z scan keeps updating whenever a
// count reaches the running maximum. With no candidates at all, every count is
// zero and the alphabetically last untried letter wins ('Z' when nothing has
// been excluded). Pure and deterministic.
func MostLikelyLetter(candidates dict.Set, excluded game.LetterSet) byte {
	var freq [26]int
	for w := range candidates {
		for i := 0; i < 26; i++ {
			ch := byte('A' + i)
			if !excluded.Has(ch) && strings.IndexByte(w, ch) >= 0 {
				freq[i]++
			}
		}
	}
	max := -1
	best := byte('A')
	for i := 0; i < 26; i++ {
		ch := byte('A' + i)
		if excluded.Has(ch) {
			continue
		}
		if freq[i] >= max {
			max = freq[i]
			best = ch
		}
	}
	return best
}

// Filter returns a new set holding the words for which keep is true. The
// input set is never mutated.
func Filter(s dict.Set, keep func(word string) bool) dict.Set {
	out := make(dict.Set, len(s))
	for w := range s {
		if keep(w) {
			out[w] = struct{}{}
		}
	}
	return out
}
