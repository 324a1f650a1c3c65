// Package snapshot persists a single scratch copy of the editing session
// under a fixed key, the Go-side counterpart of the browser's local draft
// slot. One blob, overwritten on every save.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bill-tools/smart-bill/pkg/models/domain"
)

// ErrNoSnapshot means there is nothing to load: the slot was never written
// or its content is not a readable snapshot. The caller's in-memory state
// is never touched in either case.
var ErrNoSnapshot = errors.New("no snapshot available")

// DefaultFileName is the fixed storage key.
const DefaultFileName = "smartbill_draft.json"

type Store struct {
	path string
}

// NewStore keeps the snapshot blob inside dir. An empty dir falls back to
// the user cache directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache dir: %w", err)
		}
		dir = filepath.Join(cacheDir, "smartbill")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, DefaultFileName)}, nil
}

// Save overwrites the slot with the document's snapshot shape.
func (s *Store) Save(doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads the slot back. A missing or malformed blob is reported as
// ErrNoSnapshot rather than surfacing parse details to the user.
func (s *Store) Load() (domain.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Document{}, ErrNoSnapshot
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, ErrNoSnapshot
	}
	return doc, nil
}

// Path returns the slot's location on disk.
func (s *Store) Path() string {
	return s.path
}
