// internal/store/file.go
//
// Flat-file scoreboard backend.
// Format: one record per line, "name,bestScore,gamesPlayed", no header.
//
//   - A missing file loads as an empty table.
//   - Lines without a second comma, or with non-numeric counts, are skipped.
//   - Save truncates the file and writes every entry in name order.
//     There is no temp-file swap; a crash mid-write can lose the table.
//   - Names cannot contain commas (no escaping).

package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultFile is the scoreboard path used when none is configured.
const DefaultFile = "scoreboard.txt"

// File persists the scoreboard as comma-separated lines.
type File struct {
	path string
}

// NewFileStore returns a File backend rooted at path.
func NewFileStore(path string) *File {
	if path == "" {
		path = DefaultFile
	}
	return &File{path: path}
}

// Path returns the file the backend reads and writes.
func (f *File) Path() string { return f.path }

// Load reads every well-formed record. If a name appears twice the later
// line wins.
func (f *File) Load(ctx context.Context) ([]Entry, error) {
	fh, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", f.path).Msg("no scoreboard file, starting empty")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer fh.Close()

	var out []Entry
	lineNo := 0
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		e, ok := parseLine(line)
		if !ok {
			log.Debug().Str("path", f.path).Int("line", lineNo).Msg("skipping malformed scoreboard record")
			continue
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return out, nil
}

// Save overwrites the file with entries sorted by name.
func (f *File) Save(ctx context.Context, entries []Entry) error {
	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	sorted := append([]Entry(nil), entries...)
	slices.SortFunc(sorted, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })

	fh, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.path, err)
	}
	w := bufio.NewWriter(fh)
	for _, e := range sorted {
		fmt.Fprintf(w, "%s,%d,%d\n", e.Name, e.BestScore, e.GamesPlayed)
	}
	if err := w.Flush(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f.path, err)
	}
	return nil
}

// parseLine splits "name,best,games". The name is everything before the
// first comma and the games count everything after the second.
func parseLine(line string) (Entry, bool) {
	name, rest, ok := strings.Cut(line, ",")
	if !ok {
		return Entry{}, false
	}
	bestStr, gamesStr, ok := strings.Cut(rest, ",")
	if !ok {
		return Entry{}, false
	}
	best, err := strconv.Atoi(strings.TrimSpace(bestStr))
	if err != nil {
		return Entry{}, false
	}
	games, err := strconv.Atoi(strings.TrimSpace(gamesStr))
	if err != nil {
		return Entry{}, false
	}
	return Entry{Name: name, BestScore: best, GamesPlayed: games}, true
}
