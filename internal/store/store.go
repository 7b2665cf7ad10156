// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store lays out dated artifacts under the lab's storage root and
// appends records to per-domain JSON Lines indexes.
//
// Layout:
//
//	<base>/History/<Category>/<YYYY-MM>/[<sub>/]<timestamp>_<identifier>_<suffix>
//	<base>/History/<Category>/<name>.jsonl
//
// Writes never check for an existing file: two artifacts with the same
// second and identifier overwrite each other.
package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Category is a top-level artifact directory under History.
type Category string

const (
	Experiments Category = "Experiments"
	Analyses    Category = "DataAnalyses"
	Papers      Category = "Papers"
	Research    Category = "Research"
)

const (
	historyDir = "History"

	// Notifications is the per-month subdirectory for hook notification logs.
	Notifications = "Notifications"

	// TimestampLayout is the sanitized timestamp prefix of every artifact name.
	TimestampLayout = "2006-01-02-15-04-05"

	// PartitionLayout names the year-month directory.
	PartitionLayout = "2006-01"

	maxIdentifierLen = 50
)

// Store resolves and writes artifact paths below a base directory.
type Store struct {
	baseDir string
}

// New returns a Store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the storage root.
func (s *Store) BaseDir() string { return s.baseDir }

// CategoryDir returns <base>/History/<category>.
func (s *Store) CategoryDir(c Category) string {
	return filepath.Join(s.baseDir, historyDir, string(c))
}

// Artifact describes one file to write.
type Artifact struct {
	Category Category

	// Sub is an optional directory below the year-month partition.
	Sub string

	// Dir, when set, replaces the computed directory entirely.
	Dir string

	Time       time.Time
	Identifier string

	// Suffix names the document type and carries the extension ("Log.md").
	Suffix string
}

// Dir returns the directory an artifact is written to.
func (s *Store) Dir(a Artifact) string {
	if a.Dir != "" {
		return a.Dir
	}
	dir := filepath.Join(s.CategoryDir(a.Category), a.Time.UTC().Format(PartitionLayout))
	if a.Sub != "" {
		dir = filepath.Join(dir, a.Sub)
	}
	return dir
}

// Path returns the full file path for an artifact.
func (s *Store) Path(a Artifact) string {
	return filepath.Join(s.Dir(a), FileName(a.Time, a.Identifier, a.Suffix))
}

// Write creates any missing directories and writes content, replacing a
// file of the same name.
func (s *Store) Write(a Artifact, content []byte) (string, error) {
	dir := s.Dir(a)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	path := s.Path(a)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// WriteJSON writes v as two-space indented JSON.
func (s *Store) WriteJSON(a Artifact, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", a.Suffix, err)
	}
	return s.Write(a, data)
}

// Find walks a category and returns the match with the greatest file name,
// which is the most recent for timestamp-prefixed artifacts. A missing
// category directory is not an error; Find returns "".
func (s *Store) Find(c Category, match func(name string) bool) (string, error) {
	root := s.CategoryDir(c)
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if match(d.Name()) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching %s: %w", root, err)
	}
	if len(found) == 0 {
		return "", nil
	}
	sort.Slice(found, func(i, j int) bool {
		bi, bj := filepath.Base(found[i]), filepath.Base(found[j])
		if bi != bj {
			return bi < bj
		}
		return found[i] < found[j]
	})
	return found[len(found)-1], nil
}

// Timestamp formats t as the sanitized artifact prefix (UTC, second resolution).
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FileName joins timestamp, sanitized identifier, and suffix with
// underscores. An identifier that sanitizes to nothing is left out.
func FileName(t time.Time, identifier, suffix string) string {
	parts := []string{Timestamp(t)}
	if id := SanitizeIdentifier(identifier); id != "" {
		parts = append(parts, id)
	}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, "_")
}

// SanitizeIdentifier replaces every character outside [A-Za-z0-9] with an
// underscore and caps the result at 50 characters.
func SanitizeIdentifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		if b.Len() >= maxIdentifierLen {
			break
		}
	}
	return b.String()
}
