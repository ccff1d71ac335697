// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used by tests and by SCORE_BACKEND=memory, where scores only need to live
// as long as the process.
//
// Characteristics:
//   - Holds a private copy of the last saved table.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
)

// Memory is an in-memory Store implementation.
type Memory struct {
	mu      sync.RWMutex // guards entries
	entries []Entry
	saves   int
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{}
}

// Save replaces the stored table with a copy of entries.
func (m *Memory) Save(ctx context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]Entry(nil), entries...)
	m.saves++
	return nil
}

// Load returns a copy of the last saved table.
func (m *Memory) Load(ctx context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Entry(nil), m.entries...), nil
}

// Saves reports how many times Save has been called.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
