// internal/game/engine.go
//
// Core game engine for a single Hangman session.
// Responsibilities:
//   - Create games with a validated secret word and a wrong-guess budget.
//   - Apply single-letter and whole-word guesses.
//   - Expose the revealed pattern, tried letters, status, and score.
//
// Notes:
//   - The secret is held uppercase; guesses are case-insensitive.
//   - Score is the number of wrong guesses plus the number of correctly
//     guessed letters; a lost game always scores 25. A correct whole-word
//     guess reveals the word without adding letter guesses, which is what
//     makes a late word guess cheaper than spelling the word out.
//   - randomID() is a compact hex identifier; solvers use it to detect that
//     a new game has started.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

const defaultMaxWrong = 25

// New constructs a game around secret with the given wrong-guess budget.
// The secret must be 1..35 ASCII letters; maxWrong <= 0 selects the default
// budget of 25.
func New(secret string, maxWrong int) (*Game, error) {
	w := strings.ToUpper(strings.TrimSpace(secret))
	if w == "" || len(w) > 35 || !isAlpha(w) {
		return nil, errors.New("game: secret must be 1-35 letters")
	}
	if maxWrong <= 0 {
		maxWrong = defaultMaxWrong
	}
	return &Game{
		ID:       randomID(),
		secret:   w,
		maxWrong: maxWrong,
	}, nil
}

// GuessLetter applies a single-letter guess and reports whether it hit.
// Repeating a guess neither reveals anything new nor costs again.
func (g *Game) GuessLetter(ch byte) bool {
	if letterIndex(ch) < 0 {
		return false
	}
	if strings.IndexByte(g.secret, upper(ch)) >= 0 {
		g.correct.add(ch)
		return true
	}
	g.incorrect.add(ch)
	return false
}

// GuessWord applies a whole-word guess and reports whether it matched the
// secret. A miss costs one wrong guess.
func (g *Game) GuessWord(word string) bool {
	if strings.ToUpper(strings.TrimSpace(word)) == g.secret {
		g.wordWon = true
		return true
	}
	g.wrongWords++
	return false
}

// Revealed returns the current pattern: known letters in place, the mystery
// placeholder everywhere else.
func (g *Game) Revealed() string {
	if g.wordWon {
		return g.secret
	}
	b := []byte(g.secret)
	for i, ch := range b {
		if !g.correct.Has(ch) {
			b[i] = MysteryLetter
		}
	}
	return string(b)
}

// Tried returns the union of correct and incorrect letter guesses.
func (g *Game) Tried() LetterSet {
	var out LetterSet
	for i := range out {
		out[i] = g.correct[i] || g.incorrect[i]
	}
	return out
}

// WrongGuesses returns wrong letter guesses plus wrong whole-word guesses.
func (g *Game) WrongGuesses() int {
	return g.incorrect.size() + g.wrongWords
}

// SecretLength returns the length of the secret word.
func (g *Game) SecretLength() int { return len(g.secret) }

// Status reports the current game state. The game is lost once the
// wrong-guess budget is exhausted.
func (g *Game) Status() Status {
	if g.Revealed() == g.secret {
		return StatusWon
	}
	if g.WrongGuesses() >= g.maxWrong {
		return StatusLost
	}
	return StatusKeepGuessing
}

// Score returns the running score: wrong guesses plus correctly guessed
// letters, or the flat loss score for a lost game. Lower is better.
func (g *Game) Score() int {
	if g.Status() == StatusLost {
		return lossScore
	}
	return g.WrongGuesses() + g.correct.size()
}

func upper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}

// isAlpha checks that a string consists only of uppercase A-Z.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
