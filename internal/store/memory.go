// internal/store/memory.go
//
// In-memory implementation of the session Store interface. Holds active
// interactive games together with the solver instance assisting each one,
// keyed by game ID. State is lost when the process restarts; finished games
// are persisted separately in the database.
//
// Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
// The solver inside a session is NOT safe for concurrent turns; callers
// advance one game strictly serially.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/hangsolve/go-server/internal/game"
	"github.com/hangsolve/go-server/internal/solver"
)

// Session pairs an in-progress game with its per-game solver.
type Session struct {
	Game   *game.Game
	Solver *solver.Incremental
}

// Store defines the persistence interface for active sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by game ID.
	// Returns an error if the session is not found.
	Get(ctx context.Context, id string) (*Session, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Game.ID] = s
	return nil
}

// Get looks up a session by game ID.
func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, errors.New("not found")
}
