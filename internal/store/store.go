package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Brittles42/Shelfie/internal/models"
)

// Store is the durable book collection. Records are kept newest-first in
// insertion order and every mutation is flushed to disk before it returns.
type Store struct {
	path  string
	books []models.BookRecord
	mu    sync.RWMutex
}

// Open loads the collection at path. A missing, unreadable, or corrupt file
// yields an empty collection rather than an error; the unreadable state is
// discarded on the next write.
func Open(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Could not read collection file, starting empty", "path", path, "err", err)
		}
		return s
	}

	var books []models.BookRecord
	if err := json.Unmarshal(data, &books); err != nil {
		slog.Warn("Collection file is corrupt, starting empty", "path", path, "err", err)
		return s
	}

	s.books = books
	return s
}

// List returns a copy of the collection, newest-first.
func (s *Store) List() []models.BookRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.BookRecord, len(s.books))
	copy(out, s.books)
	return out
}

// Len reports the number of books in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// Get returns the record at index i.
func (s *Store) Get(i int) (models.BookRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.books) {
		return models.BookRecord{}, false
	}
	return s.books[i], true
}

// Add prepends record and flushes. Insertion order is independent of
// AddedAt: backdated records are not re-sorted here, only the timeline
// view re-sorts for display.
func (s *Store) Add(record models.BookRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = append([]models.BookRecord{record}, s.books...)
	return s.flush()
}

// Remove deletes the record at index i and flushes. An out-of-range index is
// a no-op: the caller's displayed selection may be stale relative to the
// in-memory collection.
func (s *Store) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.books) {
		return nil
	}
	s.books = append(s.books[:i], s.books[i+1:]...)
	return s.flush()
}

// flush writes the collection to disk. Callers must hold mu.
func (s *Store) flush() error {
	data, err := json.Marshal(s.books)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write collection: %w", err)
	}
	return nil
}
