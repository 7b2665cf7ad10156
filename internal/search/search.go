// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries literature databases one after another and returns
// a merged, deduplicated, ranked report.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/pubmed"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// Backend searches a single literature database.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig, limit int) ([]types.Paper, error)
}

// DefaultDatabases is used when no databases are requested.
var DefaultDatabases = []string{"pubmed", "arxiv"}

// DefaultMaxResults is the result cap when none is configured.
const DefaultMaxResults = 50

// Registry maps a database name to its backend.
type Registry map[string]Backend

// NewRegistry returns the supported backends sharing one HTTP setup.
func NewRegistry(cfg types.HTTPConfig, ncbi types.NCBIConfig) Registry {
	return Registry{
		"pubmed": &PubMedBackend{Client: pubmed.NewClient(cfg, ncbi)},
		"arxiv": &ArxivBackend{
			Client:    &http.Client{Timeout: cfg.Timeout},
			UserAgent: cfg.UserAgent,
		},
	}
}

// ParseDatabases splits a comma-separated list, lowercasing names and
// dropping blanks.
func ParseDatabases(s string) []string {
	var dbs []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.ToLower(strings.TrimSpace(part)); name != "" {
			dbs = append(dbs, name)
		}
	}
	return dbs
}

// Search queries every database in cfg.Databases sequentially. A database
// that fails or is not in reg contributes zero papers and a warning on w;
// it never aborts the run. Results are deduplicated, ranked by relevance
// then year, and capped at cfg.MaxResults.
func Search(ctx context.Context, query string, reg Registry, cfg types.SearchConfig, now time.Time, w io.Writer) (types.SearchReport, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.SearchReport{}, fmt.Errorf("query is empty")
	}
	if len(cfg.Databases) == 0 {
		cfg.Databases = DefaultDatabases
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	limit := cfg.PerDatabaseLimit()
	if limit < 1 {
		limit = 1
	}

	report := types.SearchReport{
		Query:     query,
		Databases: cfg.Databases,
		Timestamp: now,
	}

	var all []types.Paper
	for _, name := range cfg.Databases {
		fmt.Fprintf(w, "Searching %s...\n", name)

		b, ok := reg[name]
		if !ok {
			fmt.Fprintf(w, "warning: database %s is not supported, skipping\n", name)
			continue
		}
		papers, err := b.Search(ctx, query, cfg, limit)
		if err != nil {
			fmt.Fprintf(w, "warning: database %s failed: %v\n", name, err)
			report.DatabaseErrors = append(report.DatabaseErrors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		fmt.Fprintf(w, "  Found %d results from %s\n", len(papers), name)
		all = append(all, papers...)
	}

	deduped, removed := deduplicate(all)
	rank(deduped)
	if len(deduped) > cfg.MaxResults {
		deduped = deduped[:cfg.MaxResults]
	}

	report.Papers = deduped
	report.TotalResults = len(deduped)
	report.DuplicatesRemoved = removed
	return report, nil
}

// rank orders papers by relevance score then year, both descending. The
// sort is stable so ties keep database order.
func rank(papers []types.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		if papers[i].RelevanceScore != papers[j].RelevanceScore {
			return papers[i].RelevanceScore > papers[j].RelevanceScore
		}
		return papers[i].Year > papers[j].Year
	})
}

// positionScore maps a result's rank within one database to (0.1, 1.0].
func positionScore(i, total int) float64 {
	if total <= 1 {
		return 1.0
	}
	return 1.0 - float64(i)/float64(total-1)*0.9
}

func inYearRange(year, from, to int) bool {
	if from > 0 && year < from {
		return false
	}
	if to > 0 && year > to {
		return false
	}
	return true
}

// deduplicate merges papers that share a DOI or a normalized title.
func deduplicate(papers []types.Paper) ([]types.Paper, int) {
	seen := make(map[string]int) // dedup key -> index in deduped
	var deduped []types.Paper
	removed := 0

	for _, p := range papers {
		keys := dedupKeys(p)
		idx, dup := -1, false
		for _, k := range keys {
			if i, ok := seen[k]; ok {
				idx, dup = i, true
				break
			}
		}
		if dup {
			mergeInto(&deduped[idx], p)
			removed++
		} else {
			idx = len(deduped)
			deduped = append(deduped, p)
		}
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = idx
			}
		}
	}
	return deduped, removed
}

func dedupKeys(p types.Paper) []string {
	var keys []string
	if p.DOI != "" {
		keys = append(keys, "doi:"+strings.ToLower(p.DOI))
	}
	if t := normalizeTitle(p.Title); t != "" && t != "no title available" {
		keys = append(keys, "title:"+t)
	}
	return keys
}

// mergeInto fills empty fields of dst from src and keeps the higher score.
func mergeInto(dst *types.Paper, src types.Paper) {
	if dst.PMID == "" {
		dst.PMID = src.PMID
	}
	if dst.ArxivID == "" {
		dst.ArxivID = src.ArxivID
	}
	if dst.DOI == "" {
		dst.DOI = src.DOI
	}
	if dst.Journal == "" {
		dst.Journal = src.Journal
	}
	if len(dst.Authors) == 0 && len(src.Authors) > 0 {
		dst.Authors = src.Authors
	}
	if dst.Abstract == "" && src.Abstract != "" {
		dst.Abstract = src.Abstract
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
	if src.RelevanceScore > dst.RelevanceScore {
		dst.RelevanceScore = src.RelevanceScore
	}
	if dst.Source != src.Source && !strings.Contains(dst.Source, src.Source) {
		dst.Source = dst.Source + "," + src.Source
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FormatTable writes the report as a human-readable table to w.
func FormatTable(r types.SearchReport, w io.Writer) {
	if len(r.Papers) == 0 {
		fmt.Fprintln(w, "No results found.")
	} else {
		fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %-6s  %s\n",
			"Rank", "Title", "Authors", "Year", "Score", "Source")
		fmt.Fprintln(w, strings.Repeat("-", 110))

		for i, p := range r.Papers {
			year := ""
			if p.Year > 0 {
				year = fmt.Sprintf("%d", p.Year)
			}
			fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %-6.2f  %s\n",
				i+1, truncate(p.Title, 60), formatAuthors(p.Authors), year, p.RelevanceScore, p.Source)
		}

		fmt.Fprintf(w, "\n%d results", len(r.Papers))
		if r.DuplicatesRemoved > 0 {
			fmt.Fprintf(w, " (%d duplicates removed)", r.DuplicatesRemoved)
		}
		fmt.Fprintln(w)
	}

	for _, e := range r.DatabaseErrors {
		fmt.Fprintf(w, "database error: %s\n", e)
	}
}

// FormatJSON writes the papers as indented JSON to w.
func FormatJSON(r types.SearchReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	papers := r.Papers
	if papers == nil {
		papers = []types.Paper{}
	}
	return enc.Encode(papers)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
