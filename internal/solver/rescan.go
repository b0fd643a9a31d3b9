// internal/solver/rescan.go
//
// Brute-force baseline strategy. Keeps no per-game state: every turn it
// rebuilds the candidate set by checking the full word list against the
// revealed pattern and the tried letters. Except when the most frequent
// opening letter for a length differs from the index letter, it plays
// identically to Incremental, which makes it a handy correctness oracle.
// Deliberately simple, not fast.

package solver

import (
	"strings"

	"github.com/hangsolve/go-server/internal/dict"
	"github.com/hangsolve/go-server/internal/game"
)

// Rescan is the restart-from-scratch baseline. Stateless after construction
// and safe for concurrent use.
type Rescan struct {
	words []string
}

// NewRescan builds a baseline solver over words (stored uppercase).
func NewRescan(words []string) *Rescan {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToUpper(strings.TrimSpace(w))
	}
	return &Rescan{words: out}
}

// NextGuess scans the whole word list for words still consistent with the
// game, then picks the most likely untried letter, or the word itself when
// only one remains.
func (s *Rescan) NextGuess(g *game.Game) Guess {
	soFar := g.Revealed()
	tried := g.Tried()

	cands := make(dict.Set)
	for _, w := range s.words {
		if matchesPattern(w, soFar, tried) {
			cands[w] = struct{}{}
		}
	}

	if len(cands) == 1 {
		for w := range cands {
			return Guess{Word: w}
		}
	}
	return Guess{Letter: MostLikelyLetter(cands, tried)}
}

// matchesPattern reports whether w is consistent with the revealed pattern:
// revealed positions must match exactly, and unrevealed positions must not
// hold any already-tried letter.
func matchesPattern(w, soFar string, tried game.LetterSet) bool {
	if len(w) != len(soFar) {
		return false
	}
	for i := 0; i < len(soFar); i++ {
		if soFar[i] == game.MysteryLetter {
			if tried.Has(w[i]) {
				return false
			}
		} else if w[i] != soFar[i] {
			return false
		}
	}
	return true
}
