package dict_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangsolve/go-server/assets"
	"github.com/hangsolve/go-server/internal/dict"
)

func loadIndex(t *testing.T) (*dict.Index, []string) {
	t.Helper()
	words, err := assets.WordList()
	require.NoError(t, err)
	idx, err := dict.New(words, 'E')
	require.NoError(t, err)
	return idx, words
}

func TestNew(t *testing.T) {
	t.Run("rejects empty list", func(t *testing.T) {
		_, err := dict.New(nil, 'E')
		assert.ErrorIs(t, err, dict.ErrNoWords)
	})

	t.Run("rejects blank-only list", func(t *testing.T) {
		_, err := dict.New([]string{"", "  "}, 'E')
		assert.ErrorIs(t, err, dict.ErrNoWords)
	})

	t.Run("rejects non-letter index letter", func(t *testing.T) {
		_, err := dict.New([]string{"cat"}, '3')
		assert.Error(t, err)
	})

	t.Run("rejects invalid words", func(t *testing.T) {
		_, err := dict.New([]string{"cat", "don't"}, 'E')
		assert.Error(t, err)

		_, err = dict.New([]string{strings.Repeat("a", dict.MaxWordLength+1)}, 'E')
		assert.Error(t, err)
	})

	t.Run("uppercases index letter and words", func(t *testing.T) {
		idx, err := dict.New([]string{"cattle"}, 'e')
		require.NoError(t, err)
		assert.Equal(t, byte('E'), idx.IndexLetter())
		assert.True(t, idx.Contains("CATTLE"))
		assert.True(t, idx.Contains("cattle"))
	})

	t.Run("deduplicates", func(t *testing.T) {
		idx, err := dict.New([]string{"cattle", "CATTLE", "Cattle"}, 'E')
		require.NoError(t, err)
		assert.Equal(t, 1, idx.WordCount())
	})
}

func TestCandidates(t *testing.T) {
	idx, words := loadIndex(t)

	t.Run("every loaded word is in its own bucket", func(t *testing.T) {
		for _, w := range words {
			w = strings.ToUpper(w)
			assert.True(t, idx.Candidates(w).Has(w), "missing %s", w)
		}
	})

	t.Run("bucket keys on first index-letter position", func(t *testing.T) {
		// "-----E" selects 6-letter words whose first E is at position 5.
		set := idx.Candidates("-----E")
		assert.True(t, set.Has("CATTLE"))
		assert.False(t, set.Has("SETTLE"), "first E at 1, different bucket")
	})

	t.Run("absence bucket holds words without the letter", func(t *testing.T) {
		set := idx.Candidates("--------")
		assert.True(t, set.Has("MONADISM"))
		for w := range set {
			assert.NotContains(t, w, "E")
		}
	})

	t.Run("miss yields empty, never error", func(t *testing.T) {
		assert.Empty(t, idx.Candidates(strings.Repeat("-", 35)))
		assert.Empty(t, idx.Candidates(""))
		assert.Empty(t, idx.Candidates(strings.Repeat("-", 40)))
	})

	t.Run("case-insensitive lookup", func(t *testing.T) {
		assert.Equal(t, len(idx.Candidates("-----E")), len(idx.Candidates("-----e")))
	})
}

func TestWordCount(t *testing.T) {
	idx, words := loadIndex(t)
	assert.Equal(t, len(words), idx.WordCount())
}
