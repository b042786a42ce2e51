package runs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DiskStore persists pass history to disk as JSON files, one per pass,
// named by start time.
type DiskStore struct {
	dir      string
	logger   *slog.Logger
	maxCount int

	mu      sync.Mutex
	records []Record
}

// NewDiskStore creates a disk-backed store. The directory is created if it
// doesn't exist, and existing passes are loaded.
func NewDiskStore(dir string, maxCount int, logger *slog.Logger) (*DiskStore, error) {
	s := &DiskStore{
		dir:      dir,
		logger:   logger,
		maxCount: maxCount,
		records:  make([]Record, 0),
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	records, err := s.load()
	if err != nil {
		logger.Warn("failed to load existing pass history", "error", err)
		// Continue without existing data
	} else {
		s.records = records
	}

	return s, nil
}

// History returns all passes, most recent first.
func (s *DiskStore) History() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Record, len(s.records))
	copy(result, s.records)
	return result
}

// Save persists a pass to disk and updates the in-memory representation.
func (s *DiskStore) Save(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.StartedAt == nil {
		return fmt.Errorf("cannot save pass without start time")
	}

	filename := record.StartedAt.Format("2006-01-02T15-04-05") + ".json"
	path := filepath.Join(s.dir, filename)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pass record: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pass record: %w", err)
	}

	// Prepend to keep most recent first, then prune to the max count.
	s.records = append([]Record{record}, s.records...)
	if len(s.records) > s.maxCount {
		s.records = s.records[:s.maxCount]
	}

	s.logger.Debug("saved pass to disk", "path", path)
	return nil
}

// load reads all persisted passes from disk.
func (s *DiskStore) load() ([]Record, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	records := make([]Record, 0, len(files))
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		path := filepath.Join(s.dir, file.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("failed to read pass file", "file", path, "error", err)
			continue
		}

		var record Record
		if err := json.Unmarshal(data, &record); err != nil {
			s.logger.Warn("failed to parse pass file", "file", path, "error", err)
			continue
		}
		records = append(records, record)
	}

	// Most recent first
	sort.Slice(records, func(i, j int) bool {
		if records[i].StartedAt == nil {
			return false
		}
		if records[j].StartedAt == nil {
			return true
		}
		return records[i].StartedAt.After(*records[j].StartedAt)
	})

	if len(records) > s.maxCount {
		records = records[:s.maxCount]
	}

	s.logger.Info("loaded pass history from disk", "count", len(records))
	return records, nil
}
