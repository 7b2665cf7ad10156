// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 1, 15, 9, 30, 5, 0, time.UTC)

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"EXP-2025-01-001", "EXP_2025_01_001"},
		{"Phage therapy: a review", "Phage_therapy__a_review"},
		{"café", "caf_"},
		{"", ""},
		{strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeIdentifier(tt.in))
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "2025-01-15-09-30-05_EXP_2025_01_001_Log.md",
		FileName(fixedTime, "EXP-2025-01-001", "Log.md"))
	assert.Equal(t, "2025-01-15-09-30-05_Literature_Search.md",
		FileName(fixedTime, "", "Literature_Search.md"))
}

func TestFileNameUsesUTC(t *testing.T) {
	local := fixedTime.In(time.FixedZone("UTC+5", 5*3600))
	assert.Equal(t, FileName(fixedTime, "x", "Log.md"), FileName(local, "x", "Log.md"))
}

func TestPathLayout(t *testing.T) {
	s := New("/lab")
	got := s.Path(Artifact{
		Category:   Experiments,
		Sub:        Notifications,
		Time:       fixedTime,
		Identifier: "EXP-2025-01-001",
		Suffix:     "Complete.json",
	})
	want := filepath.Join("/lab", "History", "Experiments", "2025-01", "Notifications",
		"2025-01-15-09-30-05_EXP_2025_01_001_Complete.json")
	assert.Equal(t, want, got)
}

func TestPathDirOverride(t *testing.T) {
	s := New("/lab")
	got := s.Path(Artifact{Category: Research, Dir: "/tmp/out", Time: fixedTime, Suffix: "Literature_Search.md"})
	assert.Equal(t, filepath.Join("/tmp/out", "2025-01-15-09-30-05_Literature_Search.md"), got)
}

func TestWriteCreatesDirectoriesAndOverwrites(t *testing.T) {
	s := New(t.TempDir())
	a := Artifact{Category: Analyses, Time: fixedTime, Identifier: "EXP-2025-01-001", Suffix: "Analysis.md"}

	path, err := s.Write(a, []byte("first"))
	require.NoError(t, err)
	assert.FileExists(t, path)

	// Same second and identifier: the second write replaces the first.
	path2, err := s.Write(a, []byte("second"))
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriteJSONIndented(t *testing.T) {
	s := New(t.TempDir())
	path, err := s.WriteJSON(Artifact{Category: Papers, Sub: Notifications, Time: fixedTime, Identifier: "t", Suffix: "Analyzed.json"},
		map[string]string{"event": "paper_analyzed"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"event\": \"paper_analyzed\"\n}", string(data))
}

func TestFindLatest(t *testing.T) {
	s := New(t.TempDir())
	older := Artifact{Category: Experiments, Time: fixedTime, Identifier: "EXP-2025-01-001", Suffix: "Log.md"}
	newer := older
	newer.Time = fixedTime.AddDate(0, 1, 0)

	_, err := s.Write(older, []byte("old"))
	require.NoError(t, err)
	want, err := s.Write(newer, []byte("new"))
	require.NoError(t, err)

	got, err := s.Find(Experiments, func(name string) bool {
		return strings.Contains(name, "_EXP_2025_01_001_") && strings.HasSuffix(name, "_Log.md")
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindMissingCategory(t *testing.T) {
	s := New(t.TempDir())
	got, err := s.Find(Papers, func(string) bool { return true })
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAppendIndexPreservesPriorLines(t *testing.T) {
	s := New(t.TempDir())
	type entry struct {
		N int `json:"n"`
	}
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.AppendIndex(Papers, PaperIndex, entry{N: i}))
	}

	f, err := os.Open(s.IndexPath(Papers, PaperIndex))
	require.NoError(t, err)
	defer f.Close()

	var got []int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		got = append(got, e.N)
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestAppendIndexConcurrentLinesStayWhole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.jsonl")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, AppendIndex(path, map[string]int{"n": i}))
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Len(t, lines, 20)
	for _, l := range lines {
		assert.True(t, json.Valid([]byte(l)), "line %q", l)
	}
}

func TestAppendIndexUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := AppendIndex(filepath.Join(blocker, "idx.jsonl"), map[string]int{"n": 1})
	assert.Error(t, err)
}

func TestNewEntryID(t *testing.T) {
	id := NewEntryID(fixedTime)
	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(fixedTime), parsed.Time())
}
