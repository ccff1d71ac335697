// internal/store/store.go
//
// Persistence backends for the scoreboard.
// Every backend stores the whole table and rewrites it in full on Save;
// there are no incremental writes and no concurrent writers.

package store

import "context"

// Entry is one scoreboard row.
type Entry struct {
	Name        string
	BestScore   int
	GamesPlayed int
}

// Store defines the persistence interface for the scoreboard table.
// Implementations are backed by a flat file, SQLite or memory.
type Store interface {
	// Load returns every persisted entry. A store that has never been
	// saved returns an empty slice and no error.
	Load(ctx context.Context) ([]Entry, error)

	// Save replaces the persisted table with entries.
	Save(ctx context.Context, entries []Entry) error
}
