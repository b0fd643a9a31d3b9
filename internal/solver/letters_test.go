package solver_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hangsolve/go-server/internal/dict"
	"github.com/hangsolve/go-server/internal/game"
	"github.com/hangsolve/go-server/internal/solver"
)

func wordSet(words ...string) dict.Set {
	s := make(dict.Set, len(words))
	for _, w := range words {
		s[strings.ToUpper(w)] = struct{}{}
	}
	return s
}

func excluded(letters ...byte) game.LetterSet {
	var s game.LetterSet
	for _, ch := range letters {
		s[ch-'A'] = true
	}
	return s
}

var sampleWords = wordSet(
	"comaker", "cumulate", "eruptive", "factual", "monadism",
	"mus", "nagging", "oses", "remembered", "spodumenes",
	"stereoisomers", "toxics", "trichromats", "triose", "uniformed",
)

func TestMostLikelyLetter(t *testing.T) {
	t.Run("counts distinct words, not occurrences", func(t *testing.T) {
		// O appears in 8 of the 15 sample words, more than any other letter;
		// repeats inside one word count once.
		assert.Equal(t, byte('O'), solver.MostLikelyLetter(sampleWords, game.LetterSet{}))
	})

	t.Run("excluded letters are skipped", func(t *testing.T) {
		assert.Equal(t, byte('M'), solver.MostLikelyLetter(sampleWords, excluded('O')))
	})

	t.Run("narrowed set shifts the winner", func(t *testing.T) {
		noO := solver.Filter(sampleWords, func(w string) bool {
			return !strings.Contains(w, "O")
		})
		assert.Equal(t, byte('U'), solver.MostLikelyLetter(noO, game.LetterSet{}))
	})

	t.Run("ties go to the later letter", func(t *testing.T) {
		// B and T each appear once; T wins the tie.
		assert.Equal(t, byte('T'), solver.MostLikelyLetter(wordSet("bat"), excluded('A')))
	})

	t.Run("empty set with nothing excluded yields Z", func(t *testing.T) {
		assert.Equal(t, byte('Z'), solver.MostLikelyLetter(nil, game.LetterSet{}))
	})

	t.Run("empty set yields last unexcluded letter", func(t *testing.T) {
		assert.Equal(t, byte('Y'), solver.MostLikelyLetter(nil, excluded('Z')))
	})
}

func TestFilter(t *testing.T) {
	in := wordSet("cat", "dog", "cow")
	out := solver.Filter(in, func(w string) bool { return strings.HasPrefix(w, "C") })

	assert.Len(t, out, 2)
	assert.True(t, out.Has("CAT"))
	assert.True(t, out.Has("COW"))
	assert.Len(t, in, 3, "input set must not be mutated")
}
