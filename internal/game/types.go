// internal/game/types.go
//
// Core type definitions for the Hangman game engine.
// Defines:
//   - Status: coarse game state (keep_guessing/won/lost).
//   - LetterSet: membership set over the 26-letter alphabet.
//   - Game: state for a single in-progress or finished game.

package game

// Status represents the coarse state of a game.
type Status string

const (
	StatusKeepGuessing Status = "keep_guessing"
	StatusWon          Status = "won"
	StatusLost         Status = "lost"
)

// MysteryLetter is the placeholder shown for unrevealed positions.
const MysteryLetter = '-'

// lossScore is the score assigned to any lost game, regardless of how many
// guesses were made before losing.
const lossScore = 25

// LetterSet tracks membership for the letters A-Z.
type LetterSet [26]bool

// Has reports whether ch (case-insensitive) is in the set. Non-letters are
// never members.
func (s LetterSet) Has(ch byte) bool {
	i := letterIndex(ch)
	return i >= 0 && s[i]
}

func (s *LetterSet) add(ch byte) {
	if i := letterIndex(ch); i >= 0 {
		s[i] = true
	}
}

func (s LetterSet) size() int {
	n := 0
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}

// letterIndex maps a letter to 0..25, or -1 for anything outside A-Z/a-z.
func letterIndex(ch byte) int {
	switch {
	case ch >= 'A' && ch <= 'Z':
		return int(ch - 'A')
	case ch >= 'a' && ch <= 'z':
		return int(ch - 'a')
	}
	return -1
}

// Game holds the state of a single Hangman game session.
type Game struct {
	ID         string // unique game identifier (random hex string)
	secret     string // the secret word (always uppercase)
	maxWrong   int    // wrong-guess budget before the game is lost
	correct    LetterSet
	incorrect  LetterSet
	wrongWords int  // incorrect whole-word guesses
	wordWon    bool // set when the secret was guessed as a whole word
}
