package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"grepscope/internal/domain"
)

// Store is the durable backing for the recent query list
type Store interface {
	Load() ([]domain.RecentQueryEntry, error)
	Save(entries []domain.RecentQueryEntry) error
}

// FileStore persists the list as a single JSON record on disk
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStorePath returns the per-user location of the recent query record
func DefaultStorePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "grepscope", "recent_queries.json")
}

// Load reads the persisted list. A missing file is an empty list.
func (fs *FileStore) Load() ([]domain.RecentQueryEntry, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recent queries: %w", err)
	}

	var entries []domain.RecentQueryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse recent queries: %w", err)
	}
	return entries, nil
}

// Save writes the full list, creating the parent directory if needed
func (fs *FileStore) Save(entries []domain.RecentQueryEntry) error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recent queries: %w", err)
	}

	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write recent queries: %w", err)
	}
	return nil
}
