// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/extract"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/render"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/store"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// ErrCompareCount is returned unless 2 or 3 papers are given.
var ErrCompareCount = errors.New("provide 2-3 PMIDs")

// PaperStatus is one paper's entry in the compare summary.
type PaperStatus struct {
	PMID  string `json:"pmid"`
	Found bool   `json:"found"`
}

// CompareResult is the JSON summary printed after a paper comparison.
type CompareResult struct {
	Success     bool          `json:"success"`
	Filepath    string        `json:"filepath"`
	PMIDs       []string      `json:"pmids"`
	Timestamp   string        `json:"timestamp"`
	Comparisons []PaperStatus `json:"comparisons"`
}

// ComparePapers loads saved metadata for each PMID from History/Papers and
// writes a comparison document under Research. Papers with no saved file
// are reported as not found; the comparison is still written.
func (s *Service) ComparePapers(pmids []string) (CompareResult, error) {
	pmids = splitList(pmids)
	if len(pmids) < 2 || len(pmids) > 3 {
		return CompareResult{}, ErrCompareCount
	}

	dir := s.Store.CategoryDir(store.Papers)
	if _, err := os.Stat(dir); err != nil {
		return CompareResult{}, fmt.Errorf("papers directory not found at %s: %w", dir, err)
	}

	items := make([]types.PaperComparison, 0, len(pmids))
	statuses := make([]PaperStatus, 0, len(pmids))
	for _, pmid := range pmids {
		fmt.Fprintf(s.out(), "Loading PMID %s...\n", pmid)
		p, err := s.loadPaper(pmid)
		if err != nil {
			return CompareResult{}, err
		}
		if p.Found {
			fmt.Fprintf(s.out(), "  found: %s\n", render.Truncate(p.Title, 60))
		} else {
			fmt.Fprintln(s.out(), "  paper not found")
		}
		items = append(items, p)
		statuses = append(statuses, PaperStatus{PMID: pmid, Found: p.Found})
	}

	now := s.now()
	path, err := s.Store.Write(store.Artifact{
		Category:   store.Research,
		Time:       now,
		Identifier: strings.Join(pmids, "-"),
		Suffix:     "Paper_Comparison.md",
	}, []byte(render.PaperComparison(items, now)))
	if err != nil {
		return CompareResult{}, fmt.Errorf("saving comparison: %w", err)
	}

	return CompareResult{
		Success:     true,
		Filepath:    path,
		PMIDs:       pmids,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Comparisons: statuses,
	}, nil
}

// savedPaper is the subset of a saved JSON or YAML paper file that a
// comparison reads.
type savedPaper struct {
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`
}

// loadPaper reads the most recent saved file for pmid. JSON and YAML files
// that fail to parse are read as markdown instead.
func (s *Service) loadPaper(pmid string) (types.PaperComparison, error) {
	c := types.PaperComparison{PMID: pmid}

	path, err := s.Store.Find(store.Papers, paperMatcher(pmid))
	if err != nil {
		return c, fmt.Errorf("locating paper %s: %w", pmid, err)
	}
	if path == "" {
		return c, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading paper %s: %w", pmid, err)
	}
	c.Found = true

	var sp savedPaper
	parsed := false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		parsed = json.Unmarshal(content, &sp) == nil
	case ".yaml", ".yml":
		parsed = yaml.Unmarshal(content, &sp) == nil
	}
	if !parsed {
		sp.Title, sp.Authors = extract.PaperFile(string(content))
	}

	c.Title = dropPlaceholder(sp.Title)
	for _, a := range sp.Authors {
		if a = dropPlaceholder(a); a != "" {
			c.Authors = append(c.Authors, a)
		}
	}
	return c, nil
}

// dropPlaceholder blanks values that are italic placeholders written by the
// renderer, such as "*No authors found*".
func dropPlaceholder(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, "*") && strings.HasSuffix(s, "*") {
		return ""
	}
	return s
}

var paperExts = map[string]bool{".json": true, ".yaml": true, ".yml": true, ".md": true}

// paperMatcher matches saved paper files whose name contains pmid as a
// whole number, not as part of a longer digit run. The artifact timestamp
// prefix is ignored so that a PMID such as "2025" does not match the date.
func paperMatcher(pmid string) func(string) bool {
	return func(name string) bool {
		return paperExts[strings.ToLower(filepath.Ext(name))] && containsNumber(stripTimestamp(name), pmid)
	}
}

// stripTimestamp drops a leading "<store.TimestampLayout>_" from name.
func stripTimestamp(name string) string {
	n := len(store.TimestampLayout)
	if len(name) <= n || name[n] != '_' {
		return name
	}
	if _, err := time.Parse(store.TimestampLayout, name[:n]); err != nil {
		return name
	}
	return name[n+1:]
}

func containsNumber(s, num string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], num)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(num)
		if (start == 0 || !isDigit(s[start-1])) && (end == len(s) || !isDigit(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// splitList accepts repeated flags and comma-separated values alike.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
