package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const historyFile = "history.json"

// Store persists the outcome of finished flash sessions under the data
// directory (typically .flashmon/). One JSON array, newest record last.
type Store struct {
	root string
	mu   sync.Mutex
}

// New creates a Store rooted at the given directory.
func New(root string) *Store {
	return &Store{root: root}
}

// AddSession appends one finished-session record.
func (s *Store) AddSession(r SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.root, historyFile)

	var records []SessionRecord
	if data, err := os.ReadFile(path); err == nil {
		json.Unmarshal(data, &records)
	}
	records = append(records, r)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Sessions returns every recorded session, oldest first. A missing history
// file is an empty history, not an error.
func (s *Store) Sessions() ([]SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.root, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []SessionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
