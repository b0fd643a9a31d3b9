// internal/solver/incremental.go
//
// Frequency-driven Hangman strategy that keeps a running candidate set across
// a game instead of re-scanning the dictionary each turn.
//
// The first guess is always the index letter, so the first revealed pattern
// pins down the dictionary bucket to start from. Every later turn narrows the
// candidate set using only the outcome of the previous guess: a letter that
// failed to appear anywhere rules out all words containing it, and a letter
// that did appear is rechecked position by position. All other positions were
// already enforced by earlier turns, which is what keeps each narrowing pass
// a single-letter check.
//
// An Incremental instance plays games strictly serially; the shared dict.Index
// behind it is read-only and may back any number of instances.

package solver

import (
	"strings"

	"github.com/hangsolve/go-server/internal/dict"
	"github.com/hangsolve/go-server/internal/game"
)

// Incremental is the candidate-set-narrowing strategy.
type Incremental struct {
	index *dict.Index

	// Per-game state, reset whenever a game with a different ID shows up.
	gameID     string
	firstMade  bool
	candidates dict.Set
	lastGuess  byte
}

// NewIncremental returns a strategy backed by the shared index. The same
// instance can play any number of games, one at a time.
func NewIncremental(index *dict.Index) *Incremental {
	return &Incremental{index: index}
}

// NextGuess advances the strategy one turn and returns its guess. When only
// a single candidate remains, that whole word is guessed outright rather than
// spelling it letter by letter.
func (s *Incremental) NextGuess(g *game.Game) Guess {
	if g.ID != s.gameID {
		s.reset(g.ID)
	}

	if !s.firstMade {
		s.firstMade = true
		return Guess{Letter: s.index.IndexLetter()}
	}

	soFar := g.Revealed()
	switch {
	case s.candidates == nil:
		// First narrowing: the only guess so far was the index letter.
		s.candidates = s.initialCandidates(soFar)
	case strings.IndexByte(soFar, s.lastGuess) < 0:
		// The last guess appears nowhere, so its absence is uniform
		// information: drop every word containing it, no positions needed.
		last := s.lastGuess
		s.candidates = Filter(s.candidates, func(w string) bool {
			return strings.IndexByte(w, last) < 0
		})
	default:
		checks := positionChecks(soFar, s.lastGuess, 0)
		last := s.lastGuess
		s.candidates = Filter(s.candidates, func(w string) bool {
			return matchesPositions(w, last, checks)
		})
	}

	if len(s.candidates) == 1 {
		for w := range s.candidates {
			return Guess{Word: w}
		}
	}

	s.lastGuess = MostLikelyLetter(s.candidates, g.Tried())
	return Guess{Letter: s.lastGuess}
}

// initialCandidates fetches the bucket for the revealed pattern and corrects
// for what bucketing alone cannot see. The bucket matched only the FIRST
// occurrence of the index letter, so when the pattern shows the letter
// exactly once, words with additional occurrences must still be dropped.
// Otherwise (absent, or two and more occurrences) a positional recheck from
// just past the first occurrence covers the remaining flagged positions.
func (s *Incremental) initialCandidates(soFar string) dict.Set {
	letter := s.index.IndexLetter()
	cands := s.index.Candidates(soFar)
	first := strings.IndexByte(soFar, letter)
	if first >= 0 && first == strings.LastIndexByte(soFar, letter) {
		return Filter(cands, func(w string) bool {
			return strings.IndexByte(w, letter) == strings.LastIndexByte(w, letter)
		})
	}
	checks := positionChecks(soFar, letter, first+1)
	return Filter(cands, func(w string) bool {
		return matchesPositions(w, letter, checks)
	})
}

// reset clears per-game state when a new game starts.
func (s *Incremental) reset(gameID string) {
	s.gameID = gameID
	s.firstMade = false
	s.candidates = nil
	s.lastGuess = s.index.IndexLetter()
}

// Candidates exposes the live candidate set (nil before the first narrowing).
// Callers must treat it as read-only; it exists for verification and for
// reporting how many words remain in play.
func (s *Incremental) Candidates() dict.Set { return s.candidates }

// Remaining returns the current candidate count, 0 before the first
// narrowing.
func (s *Incremental) Remaining() int { return len(s.candidates) }

// positionCheck records that the guessed letter must (present) or must not
// (absent) sit at index. Only positions involving the guessed letter are
// flagged: revealed positions holding other letters were settled on earlier
// turns.
type positionCheck struct {
	index   int
	present bool
}

func positionChecks(soFar string, letter byte, start int) []positionCheck {
	if start < 0 {
		start = 0
	}
	var checks []positionCheck
	for i := start; i < len(soFar); i++ {
		switch soFar[i] {
		case game.MysteryLetter:
			checks = append(checks, positionCheck{index: i, present: false})
		case letter:
			checks = append(checks, positionCheck{index: i, present: true})
		}
	}
	return checks
}

func matchesPositions(w string, letter byte, checks []positionCheck) bool {
	for _, c := range checks {
		if (w[c.index] == letter) != c.present {
			return false
		}
	}
	return true
}
