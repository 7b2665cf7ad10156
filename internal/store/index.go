// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// Index file names, one per domain.
const (
	PaperIndex      = "paper_index.jsonl"
	ExperimentIndex = "experiment_index.jsonl"
)

// IndexPath returns <base>/History/<category>/<name>.
func (s *Store) IndexPath(c Category, name string) string {
	return filepath.Join(s.CategoryDir(c), name)
}

// AppendIndex appends entry to the named index of a category.
func (s *Store) AppendIndex(c Category, name string, entry any) error {
	return AppendIndex(s.IndexPath(c, name), entry)
}

// AppendIndex marshals entry to one JSON line and appends it to path in a
// single write. Earlier lines are never touched. There is no locking;
// concurrent writers rely on O_APPEND for small writes.
func AppendIndex(path string, entry any) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling index entry: %w", err)
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening index %s: %w", path, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("appending to index %s: %w", path, err)
	}
	return f.Close()
}

// NewEntryID returns a ULID for an index entry created at t. ULIDs sort in
// creation order.
func NewEntryID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
