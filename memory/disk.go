package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// LoadFile populates the store from a JSON snapshot written by SaveFile.
// A missing file is not an error; the being simply starts with empty memory.
func (s *Store) LoadFile(path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("no memory snapshot found, starting empty", "path", path)
			return nil
		}
		return fmt.Errorf("failed to read memory snapshot: %w", err)
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse memory snapshot %s: %w", path, err)
	}

	s.replaceAll(entries)
	logger.Info("loaded memory snapshot", "path", path, "entries", len(entries))
	return nil
}

// SaveFile writes the current store contents to path as JSON. The parent
// directory is created if needed.
func (s *Store) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create memory directory: %w", err)
	}

	data, err := json.MarshalIndent(s.Entries(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write memory snapshot: %w", err)
	}
	return nil
}
