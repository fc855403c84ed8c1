// internal/store/memory.go
//
// In-memory session store for live games and solver sessions.
//
// Characteristics:
//   - Stores values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Get on a missing ID returns ErrNotFound.

package store

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for live sessions.
type Store[T any] interface {
	// Save persists or updates a session.
	Save(ctx context.Context, id string, v T) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (T, error)

	// Delete forgets a session. Missing IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are held.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore[T any]() Store[T] {
	return &memory[T]{items: make(map[string]T)}
}

func (m *memory[T]) Save(ctx context.Context, id string, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = v
	return nil
}

func (m *memory[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[id]; ok {
		return v, nil
	}
	var zero T
	return zero, ErrNotFound
}

func (m *memory[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
