// internal/words/words.go
//
// Word list management for the solver and game engine.
//
// Responsibilities:
//   - Load the dictionary from an environment-provided file or fall back to
//     the embedded default list.
//   - Normalize to uppercase and reject anything that is not 1..35 ASCII
//     letters (a bad dictionary is a fatal construction-time error, not
//     something to paper over at play time).
//   - Supply RandomWord for interactive games.
//
// Environment variables:
//   WORDS_FILE=/path/to/words.txt
//
// Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/hangsolve/go-server/assets"
	"github.com/hangsolve/go-server/internal/dict"
)

// ErrNoSource is the configuration error for an absent word file reference.
var ErrNoSource = errors.New("words: no word file supplied")

var (
	initOnce   sync.Once
	list       []string
	initialErr error
)

// Init loads the word list exactly once: from WORDS_FILE when set, otherwise
// from the embedded default list.
func Init() error {
	initOnce.Do(func() {
		if path := os.Getenv("WORDS_FILE"); path != "" {
			list, initialErr = LoadFile(path)
			return
		}
		lines, err := assets.WordList()
		if err != nil {
			initialErr = fmt.Errorf("words: embedded list: %w", err)
			return
		}
		list, initialErr = normalize(lines)
	})
	return initialErr
}

// List returns the loaded dictionary (uppercase, one entry per word).
// Callers must treat the slice as read-only.
func List() []string { return list }

// Count returns the number of loaded words.
func Count() int { return len(list) }

// LoadFile reads one word per line from path. Read and close failures are
// reported distinctly; an instance of the dictionary has no value if loading
// cannot complete.
func LoadFile(path string) ([]string, error) {
	if path == "" {
		return nil, ErrNoSource
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	out, err := Parse(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("words: close %s: %w", path, err)
	}
	return out, nil
}

// Parse reads a line-oriented word list from r, uppercasing every word and
// failing on the first invalid one. Blank lines and #-comments are skipped.
func Parse(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w := strings.ToUpper(line)
		if len(w) > dict.MaxWordLength || !isAlpha(w) {
			return nil, fmt.Errorf("invalid word %q", line)
		}
		out = append(out, w)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("word list is empty")
	}
	return out, nil
}

// RandomWord returns a cryptographically random word from the loaded list,
// or the empty string if nothing is loaded.
func RandomWord() string {
	if len(list) == 0 {
		return ""
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	return list[nBig.Int64()]
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// normalize validates an already-split list of lines.
func normalize(lines []string) ([]string, error) {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		w := strings.ToUpper(strings.TrimSpace(line))
		if w == "" {
			continue
		}
		if len(w) > dict.MaxWordLength || !isAlpha(w) {
			return nil, fmt.Errorf("words: invalid word %q", line)
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, errors.New("words: word list is empty")
	}
	return out, nil
}
