package runs

import "sync"

// MemoryStore keeps pass history in memory only (no persistence).
type MemoryStore struct {
	records []Record
	mu      sync.Mutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make([]Record, 0),
	}
}

// History returns all passes, most recent first.
func (s *MemoryStore) History() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Record, len(s.records))
	copy(result, s.records)
	return result
}

// Save stores a pass in memory.
func (s *MemoryStore) Save(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Prepend to keep most recent first
	s.records = append([]Record{record}, s.records...)
	return nil
}
