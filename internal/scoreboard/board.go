// Package scoreboard keeps the cross-session table of best scores and games
// played per player name. The table lives in memory; a store.Store backend
// loads it once at startup and receives the full table on every Save.
package scoreboard

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/dicegame/internal/game"
	"github.com/robalobadob/dicegame/internal/store"
)

// Board is the in-memory scoreboard. It is not safe for concurrent use;
// the presentation loop owns it for the process lifetime.
type Board struct {
	st       store.Store
	entries  map[string]store.Entry
	recorded map[string]struct{} // round IDs already applied
}

// New returns an empty board backed by st.
func New(st store.Store) *Board {
	return &Board{
		st:       st,
		entries:  make(map[string]store.Entry),
		recorded: make(map[string]struct{}),
	}
}

// Load replaces the table with the backend's records. Later duplicates of
// a name win.
func (b *Board) Load(ctx context.Context) error {
	rows, err := b.st.Load(ctx)
	if err != nil {
		return fmt.Errorf("load scoreboard: %w", err)
	}
	b.entries = make(map[string]store.Entry, len(rows))
	for _, e := range rows {
		b.entries[e.Name] = e
	}
	log.Debug().Int("entries", len(b.entries)).Msg("scoreboard loaded")
	return nil
}

// Best returns the recorded best score for name.
func (b *Board) Best(name string) (int, bool) {
	e, ok := b.entries[name]
	return e.BestScore, ok
}

// Entry returns the full record for name.
func (b *Board) Entry(name string) (store.Entry, bool) {
	e, ok := b.entries[name]
	return e, ok
}

// Len is the number of names on the board.
func (b *Board) Len() int { return len(b.entries) }

// Entries returns every record sorted by name.
func (b *Board) Entries() []store.Entry {
	out := make([]store.Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(x, y store.Entry) int { return strings.Compare(x.Name, y.Name) })
	return out
}

// RecordCompletion applies one finished game to the table.
//
// New names are inserted with the game's tries and one game played.
// Known names always gain a game played; their best score drops to the
// game's tries when lower, or when the stored best is 0 (unset; a completed
// turn always takes at least one guess).
//
// A non-empty roundID that was already recorded is ignored and false is
// returned.
func (b *Board) RecordCompletion(roundID string, players []game.Player) bool {
	if roundID != "" {
		if _, dup := b.recorded[roundID]; dup {
			return false
		}
		b.recorded[roundID] = struct{}{}
	}
	for _, p := range players {
		e, ok := b.entries[p.Name]
		if !ok {
			b.entries[p.Name] = store.Entry{Name: p.Name, BestScore: p.Tries, GamesPlayed: 1}
			continue
		}
		e.GamesPlayed++
		if p.Tries < e.BestScore || e.BestScore == 0 {
			e.BestScore = p.Tries
		}
		b.entries[p.Name] = e
	}
	return true
}

// Save writes the full table through the backend.
func (b *Board) Save(ctx context.Context) error {
	if err := b.st.Save(ctx, b.Entries()); err != nil {
		return fmt.Errorf("save scoreboard: %w", err)
	}
	return nil
}
