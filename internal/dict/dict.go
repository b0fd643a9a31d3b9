// internal/dict/dict.go
//
// Partitioned dictionary for Hangman solving.
//
// Words are bucketed two levels deep: first by length, then by the position
// of the first occurrence of a designated index letter (-1 when the letter is
// absent). Because a solver always opens with the index letter, the very
// first revealed pattern pins down both keys, so the starting candidate set
// for a game is a single O(1) bucket lookup instead of a dictionary scan.
//
// An Index is built once and never mutated afterwards; it is safe for
// concurrent read-only use by any number of solvers.
package dict

import (
	"errors"
	"fmt"
	"strings"
)

// MaxWordLength bounds accepted word length. The longest non-coined word in a
// standard dictionary is 35 letters.
const MaxWordLength = 35

// ErrNoWords is returned when an Index is constructed from an empty list.
var ErrNoWords = errors.New("dict: no words supplied")

// Set is an unordered collection of uppercase words. Sets handed out by an
// Index are live internals: callers must treat them as read-only.
type Set map[string]struct{}

// Has reports whether w is in the set.
func (s Set) Has(w string) bool {
	_, ok := s[w]
	return ok
}

// Index is the two-level bucket structure. byLength is an arena-style fixed
// array (lengths are bounded and known); each length node holds one slot per
// possible index-letter position, including -1 for absence.
type Index struct {
	indexLetter byte
	byLength    [MaxWordLength + 1]*lengthNode
	count       int
}

type lengthNode struct {
	// byPos[pos+1] holds the words whose first index-letter occurrence is at
	// pos; slot 0 is the absent (-1) bucket.
	byPos []Set
}

// New builds an Index over words using indexLetter (case-insensitive) as the
// bucketing letter. Words are uppercased before storage. Construction fails
// on an empty list, a non-alphabetic index letter, or any word that is not
// 1..MaxWordLength ASCII letters.
func New(words []string, indexLetter byte) (*Index, error) {
	letter := upper(indexLetter)
	if letter < 'A' || letter > 'Z' {
		return nil, fmt.Errorf("dict: index letter %q is not A-Z", string(indexLetter))
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	x := &Index{indexLetter: letter}
	for _, raw := range words {
		w := strings.ToUpper(strings.TrimSpace(raw))
		if w == "" {
			continue
		}
		if len(w) > MaxWordLength || !isAlpha(w) {
			return nil, fmt.Errorf("dict: invalid word %q", raw)
		}
		x.add(w)
	}
	if x.count == 0 {
		return nil, ErrNoWords
	}
	return x, nil
}

func (x *Index) add(w string) {
	node := x.byLength[len(w)]
	if node == nil {
		node = &lengthNode{byPos: make([]Set, len(w)+2)}
		x.byLength[len(w)] = node
	}
	slot := strings.IndexByte(w, x.indexLetter) + 1
	if node.byPos[slot] == nil {
		node.byPos[slot] = make(Set)
	}
	if !node.byPos[slot].Has(w) {
		node.byPos[slot][w] = struct{}{}
		x.count++
	}
}

// Candidates returns the bucket matching the revealed pattern: every word of
// the pattern's length whose first index-letter occurrence is at the same
// position as in the pattern (or that lacks the letter entirely when the
// pattern does). A miss yields an empty set, never an error. Intended to be
// called once per game, right after the index letter has been guessed.
func (x *Index) Candidates(pattern string) Set {
	p := strings.ToUpper(pattern)
	if len(p) == 0 || len(p) > MaxWordLength {
		return nil
	}
	node := x.byLength[len(p)]
	if node == nil {
		return nil
	}
	return node.byPos[strings.IndexByte(p, x.indexLetter)+1]
}

// Contains reports whether word was loaded, via the same bucketing as
// Candidates. Verification surface; the live solver never needs it.
func (x *Index) Contains(word string) bool {
	w := strings.ToUpper(word)
	if len(w) == 0 || len(w) > MaxWordLength {
		return false
	}
	return x.Candidates(w).Has(w)
}

// WordCount returns the total number of distinct words loaded.
func (x *Index) WordCount() int { return x.count }

// IndexLetter returns the configured bucketing letter (uppercase).
func (x *Index) IndexLetter() byte { return x.indexLetter }

func upper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
