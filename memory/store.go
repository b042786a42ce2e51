// Package memory provides the shared key/value store activities use for
// cross-run continuity.
//
// The store is shared by all activities within a process. Any activity may
// write any key; the last writer wins. Each entry records which activity
// wrote it and when. Values must be JSON-serializable so the store can be
// persisted and exposed over the API.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotSerializable is returned by Set when a value cannot be JSON-encoded.
var ErrNotSerializable = errors.New("value is not serializable")

// Entry is a single shared-memory record.
type Entry struct {
	Key       string    `json:"key"`
	Value     any       `json:"value"`
	Writer    string    `json:"writer"`
	WrittenAt time.Time `json:"written_at"`
}

// Store is a thread-safe, process-wide key/value store.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]Entry),
	}
}

// Get returns the stored value for key. The second return value reports
// whether the key is present. Get never fails.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

// Lookup returns the full entry for key, including writer and timestamp.
func (s *Store) Lookup(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	return entry, ok
}

// Set stores value under key, overwriting any previous entry and recording
// the writer and write time. It fails only when the value cannot be
// JSON-encoded, in which case the previous entry is left untouched.
func (s *Store) Set(key string, value any, writer string) error {
	if _, err := json.Marshal(value); err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrNotSerializable, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry{
		Key:       key,
		Value:     value,
		Writer:    writer,
		WrittenAt: time.Now(),
	}
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns a copy of all entries, safe for concurrent use.
func (s *Store) Entries() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// replaceAll swaps the full contents of the store. Used when loading a
// persisted snapshot.
func (s *Store) replaceAll(entries map[string]Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}
