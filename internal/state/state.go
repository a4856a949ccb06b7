// Package state persists reading positions across sessions. State files are
// keyed by book identity and hold only the logical position (chapter,
// paragraph, word) plus a bounded navigation history, never line or page
// numbers, which do not survive a resize.
package state

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/zeebo/xxh3"

	"github.com/yuanying/tread/internal/layout"
)

// ErrState indicates an underlying storage failure while saving. Load never
// returns it for a missing or corrupt file; reading must not be blocked by
// persistence problems.
var ErrState = errors.New("state: cannot persist reader state")

// historyCap bounds the navigation history kept for "back".
const historyCap = 20

// ReaderState is the durable per-book reading state. Unknown fields in a
// stored file are ignored on load and missing fields default, so older
// binaries can read files written by newer ones.
type ReaderState struct {
	Position   layout.Position   `json:"position"`
	History    []layout.Position `json:"history,omitempty"`
	LastOpened time.Time         `json:"last_opened"`
}

// Push records the current position in the history before a jump. The
// history is bounded; the oldest entry falls off first.
func (s *ReaderState) Push(pos layout.Position) {
	s.History = append(s.History, pos)
	if len(s.History) > historyCap {
		s.History = s.History[len(s.History)-historyCap:]
	}
}

// Pop removes and returns the most recent history entry.
func (s *ReaderState) Pop() (layout.Position, bool) {
	if len(s.History) == 0 {
		return layout.Position{}, false
	}
	pos := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	return pos, true
}

// BookID derives the identity key for a book from its absolute path:
// a 16 hex character xxh3 hash, stable across sessions.
func BookID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return fmt.Sprintf("%016x", xxh3.HashString(abs))
}

// Store reads and writes ReaderState files under a directory, one JSON file
// per book id.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on the
// first Save, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the conventional state directory,
// <user config dir>/tread/state.
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "tread", "state"), nil
}

func (s *Store) path(bookID string) string {
	return filepath.Join(s.dir, bookID+".json")
}

// Load returns the saved state for a book, or a fresh default state when
// none exists. A corrupt state file is not fatal: it logs a warning and
// falls back to the default position so the book still opens at the start.
func (s *Store) Load(bookID string) (*ReaderState, error) {
	data, err := os.ReadFile(s.path(bookID))
	if os.IsNotExist(err) {
		return &ReaderState{}, nil
	}
	if err != nil {
		return &ReaderState{}, fmt.Errorf("%w: %v", ErrState, err)
	}

	var st ReaderState
	if err := json.Unmarshal(data, &st); err != nil {
		log.Printf("warning: corrupt state file for %s, starting from the beginning: %v", bookID, err)
		return &ReaderState{}, nil
	}
	return &st, nil
}

// Save writes the state for a book atomically: the file is written to a
// temp name in the same directory and renamed into place, so a crash
// mid-write never leaves a torn state file.
func (s *Store) Save(bookID string, st *ReaderState) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", ErrState, err)
	}

	st.LastOpened = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrState, err)
	}

	tmp, err := os.CreateTemp(s.dir, bookID+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrState, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrState, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrState, err)
	}
	if err := os.Rename(tmpName, s.path(bookID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrState, err)
	}
	return nil
}
