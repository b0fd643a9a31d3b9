// internal/solver/solver.go
//
// Strategy contract shared by the Hangman solvers, plus the loop that drives
// a strategy against a game to completion.

package solver

import "github.com/hangsolve/go-server/internal/game"

// Guess is a single strategy decision: either one letter or the whole word.
// Word is empty for letter guesses.
type Guess struct {
	Letter byte   `json:"letter,omitempty"`
	Word   string `json:"word,omitempty"`
}

// IsWord reports whether this is a whole-word guess.
func (gs Guess) IsWord() bool { return gs.Word != "" }

// Apply plays the guess against the game and reports whether it hit.
func (gs Guess) Apply(g *game.Game) bool {
	if gs.IsWord() {
		return g.GuessWord(gs.Word)
	}
	return g.GuessLetter(gs.Letter)
}

// String renders the guess for transcripts and logs.
func (gs Guess) String() string {
	if gs.IsWord() {
		return gs.Word
	}
	return string(gs.Letter)
}

// Strategy produces the next guess for a game in progress. Implementations
// may keep per-game state; they play games strictly serially and must not be
// shared by games advancing concurrently.
type Strategy interface {
	NextGuess(g *game.Game) Guess
}

// Play runs strategy against g until the game is decided and returns the
// final score.
func Play(g *game.Game, strategy Strategy) int {
	for g.Status() == game.StatusKeepGuessing {
		strategy.NextGuess(g).Apply(g)
	}
	return g.Score()
}
