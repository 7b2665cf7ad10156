// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/pubmed"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	name   string
	papers []types.Paper
	err    error
	limit  int
	calls  int
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Search(_ context.Context, _ string, _ types.SearchConfig, limit int) ([]types.Paper, error) {
	m.calls++
	m.limit = limit
	return m.papers, m.err
}

var searchTime = time.Date(2025, 1, 15, 9, 30, 5, 0, time.UTC)

// --- Search ---

func TestSearchEmptyQuery(t *testing.T) {
	_, err := Search(context.Background(), "   ", Registry{}, types.SearchConfig{}, searchTime, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchContinuesAfterDatabaseFailure(t *testing.T) {
	reg := Registry{
		"pubmed": &mockBackend{name: "pubmed", err: errors.New("dial tcp: connection refused")},
		"arxiv": &mockBackend{name: "arxiv", papers: []types.Paper{
			{Title: "Phage therapy in plants", Year: 2024, Source: "arXiv", RelevanceScore: 1.0},
		}},
	}
	cfg := types.SearchConfig{Databases: []string{"pubmed", "arxiv"}, MaxResults: 10}

	var warn bytes.Buffer
	r, err := Search(context.Background(), "phage therapy", reg, cfg, searchTime, &warn)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if r.TotalResults != 1 || len(r.Papers) != 1 {
		t.Fatalf("TotalResults = %d, papers = %d, want 1", r.TotalResults, len(r.Papers))
	}
	if r.Papers[0].Source != "arXiv" {
		t.Errorf("Source = %q, want arXiv", r.Papers[0].Source)
	}
	if len(r.DatabaseErrors) != 1 || !strings.HasPrefix(r.DatabaseErrors[0], "pubmed: ") {
		t.Errorf("DatabaseErrors = %v, want one pubmed entry", r.DatabaseErrors)
	}
	if !strings.Contains(warn.String(), "warning: database pubmed failed") {
		t.Errorf("warnings = %q", warn.String())
	}
	if !r.Timestamp.Equal(searchTime) {
		t.Errorf("Timestamp = %v", r.Timestamp)
	}
}

func TestSearchUnsupportedDatabase(t *testing.T) {
	arxiv := &mockBackend{name: "arxiv", papers: []types.Paper{{Title: "A", Source: "arXiv"}}}
	reg := Registry{"arxiv": arxiv}
	cfg := types.SearchConfig{Databases: []string{"scholar", "arxiv"}, MaxResults: 10}

	var warn bytes.Buffer
	r, err := Search(context.Background(), "q", reg, cfg, searchTime, &warn)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(r.Papers) != 1 {
		t.Errorf("len(Papers) = %d, want 1", len(r.Papers))
	}
	if len(r.DatabaseErrors) != 0 {
		t.Errorf("unsupported database should not be a database error: %v", r.DatabaseErrors)
	}
	if !strings.Contains(warn.String(), "database scholar is not supported") {
		t.Errorf("warnings = %q", warn.String())
	}
	if got := strings.Join(r.Databases, ","); got != "scholar,arxiv" {
		t.Errorf("Databases = %q", got)
	}
}

func TestSearchPerDatabaseLimit(t *testing.T) {
	a := &mockBackend{name: "pubmed"}
	b := &mockBackend{name: "arxiv"}
	reg := Registry{"pubmed": a, "arxiv": b}

	cfg := types.SearchConfig{Databases: []string{"pubmed", "arxiv"}, MaxResults: 20}
	if _, err := Search(context.Background(), "q", reg, cfg, searchTime, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if a.limit != 10 || b.limit != 10 {
		t.Errorf("limits = %d, %d, want 10, 10", a.limit, b.limit)
	}

	cfg.MaxResults = 1
	if _, err := Search(context.Background(), "q", reg, cfg, searchTime, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if a.limit != 1 {
		t.Errorf("limit = %d, want at least 1", a.limit)
	}
}

func TestSearchDefaults(t *testing.T) {
	a := &mockBackend{name: "pubmed"}
	b := &mockBackend{name: "arxiv"}
	reg := Registry{"pubmed": a, "arxiv": b}

	if _, err := Search(context.Background(), "q", reg, types.SearchConfig{}, searchTime, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d, %d, want both default databases queried", a.calls, b.calls)
	}
	if a.limit != DefaultMaxResults/2 {
		t.Errorf("limit = %d, want %d", a.limit, DefaultMaxResults/2)
	}
}

func TestSearchRanksAndTruncates(t *testing.T) {
	reg := Registry{
		"pubmed": &mockBackend{name: "pubmed", papers: []types.Paper{
			{Title: "Old strong", Year: 2010, RelevanceScore: 0.9},
			{Title: "Tie newer", Year: 2022, RelevanceScore: 0.5},
		}},
		"arxiv": &mockBackend{name: "arxiv", papers: []types.Paper{
			{Title: "Best", Year: 2015, RelevanceScore: 1.0},
			{Title: "Tie older", Year: 2019, RelevanceScore: 0.5},
		}},
	}
	cfg := types.SearchConfig{Databases: []string{"pubmed", "arxiv"}, MaxResults: 3}

	r, err := Search(context.Background(), "q", reg, cfg, searchTime, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	var titles []string
	for _, p := range r.Papers {
		titles = append(titles, p.Title)
	}
	want := "Best|Old strong|Tie newer"
	if got := strings.Join(titles, "|"); got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
	if r.TotalResults != 3 {
		t.Errorf("TotalResults = %d, want 3", r.TotalResults)
	}
}

func TestSearchDeduplicatesAcrossDatabases(t *testing.T) {
	reg := Registry{
		"pubmed": &mockBackend{name: "pubmed", papers: []types.Paper{
			{PMID: "1", Title: "CRISPR in wheat", DOI: "10.1/abc", Source: "PubMed", RelevanceScore: 0.6},
		}},
		"arxiv": &mockBackend{name: "arxiv", papers: []types.Paper{
			{ArxivID: "2401.00001", Title: "CRISPR in Wheat!", Source: "arXiv", Abstract: "x", RelevanceScore: 0.9},
		}},
	}
	cfg := types.SearchConfig{Databases: []string{"pubmed", "arxiv"}, MaxResults: 10}

	r, err := Search(context.Background(), "q", reg, cfg, searchTime, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Papers) != 1 || r.DuplicatesRemoved != 1 {
		t.Fatalf("papers = %d, removed = %d, want 1, 1", len(r.Papers), r.DuplicatesRemoved)
	}
	p := r.Papers[0]
	if p.PMID != "1" || p.ArxivID != "2401.00001" || p.Abstract != "x" {
		t.Errorf("merged paper = %+v", p)
	}
	if p.RelevanceScore != 0.9 {
		t.Errorf("RelevanceScore = %f, want 0.9", p.RelevanceScore)
	}
	if p.Source != "PubMed,arXiv" {
		t.Errorf("Source = %q", p.Source)
	}
}

func TestDeduplicateKeepsUntitled(t *testing.T) {
	papers := []types.Paper{
		{Title: "No title available", PMID: "1"},
		{Title: "No title available", PMID: "2"},
	}
	deduped, removed := deduplicate(papers)
	if removed != 0 || len(deduped) != 2 {
		t.Errorf("placeholder titles must not merge: removed = %d", removed)
	}
}

func TestParseDatabases(t *testing.T) {
	got := ParseDatabases(" PubMed, arxiv,,biorxiv ")
	if strings.Join(got, ",") != "pubmed,arxiv,biorxiv" {
		t.Errorf("ParseDatabases = %v", got)
	}
	if ParseDatabases("") != nil {
		t.Error("empty input should yield nil")
	}
}

func TestPositionScore(t *testing.T) {
	if positionScore(0, 1) != 1.0 {
		t.Error("single result should score 1.0")
	}
	if positionScore(0, 5) != 1.0 {
		t.Error("first of many should score 1.0")
	}
	if got := positionScore(4, 5); got < 0.0999 || got > 0.1001 {
		t.Errorf("last of five = %f, want 0.1", got)
	}
}

// --- arXiv backend ---

const sampleArxivSearchXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Phage cocktails
      against bacterial wilt</title>
    <summary>  We test phage cocktails
      in tomato.  </summary>
    <published>2023-01-17T17:57:34Z</published>
    <author><name>Ana Silva</name></author>
    <author><name>Ben Okafor</name></author>
    <arxiv:doi>10.1000/phage.1</arxiv:doi>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1810.04805v2</id>
    <title>Older preprint</title>
    <summary>Out of range.</summary>
    <published>2018-10-11T00:00:00Z</published>
    <author><name>Jacob Devlin</name></author>
  </entry>
</feed>`

func withArxiv(t *testing.T, h http.HandlerFunc) *ArxivBackend {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	t.Cleanup(func() { arxivAPIBase = old })

	return &ArxivBackend{Client: ts.Client(), UserAgent: "labkit/test"}
}

func TestArxivBackendSearch(t *testing.T) {
	var rawQuery string
	b := withArxiv(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, sampleArxivSearchXML)
	})

	papers, err := b.Search(context.Background(), "phage therapy", types.SearchConfig{YearFrom: 2020}, 5)
	if err != nil {
		t.Fatalf("ArxivBackend.Search: %v", err)
	}
	if !strings.Contains(rawQuery, "search_query=all:phage+therapy") || !strings.Contains(rawQuery, "max_results=5") {
		t.Errorf("query = %q", rawQuery)
	}
	if len(papers) != 1 {
		t.Fatalf("len(papers) = %d, want 1 after year filter", len(papers))
	}

	p := papers[0]
	if p.ArxivID != "2301.07041" {
		t.Errorf("ArxivID = %q", p.ArxivID)
	}
	if p.Title != "Phage cocktails against bacterial wilt" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Abstract != "We test phage cocktails in tomato." {
		t.Errorf("Abstract = %q", p.Abstract)
	}
	if p.Year != 2023 {
		t.Errorf("Year = %d", p.Year)
	}
	if p.DOI != "10.1000/phage.1" {
		t.Errorf("DOI = %q", p.DOI)
	}
	if p.URL != "https://arxiv.org/abs/2301.07041" || p.Source != "arXiv" {
		t.Errorf("URL = %q, Source = %q", p.URL, p.Source)
	}
	if len(p.Authors) != 2 {
		t.Errorf("len(Authors) = %d, want 2", len(p.Authors))
	}
}

func TestArxivBackendHTTPError(t *testing.T) {
	b := withArxiv(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := b.Search(context.Background(), "x", types.SearchConfig{}, 5)
	if err == nil || !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("err = %v, want HTTP 500", err)
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/1706.03762v5", "1706.03762"},
		{"http://arxiv.org/abs/2301.12345", "2301.12345"},
		{"https://arxiv.org/abs/2301.07041v2", "2301.07041"},
		{"http://arxiv.org/abs/q-bio/0601001v1", "q-bio/0601001"},
		{"not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := extractArxivID(tt.input)
			if got != tt.want {
				t.Errorf("extractArxivID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildArxivQuery(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"protein folding", "all:protein+folding"},
		{"  single  ", "all:single"},
		{"C&C", "all:C%26C"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := buildArxivQuery(tt.query); got != tt.want {
			t.Errorf("buildArxivQuery(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

// --- PubMed backend (through the real client against a fake E-utilities) ---

func TestPubMedBackendSearch(t *testing.T) {
	var term string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/esearch.fcgi"):
			term = r.URL.Query().Get("term")
			fmt.Fprint(w, `<eSearchResult><IdList><Id>11</Id><Id>22</Id></IdList></eSearchResult>`)
		case strings.HasSuffix(r.URL.Path, "/esummary.fcgi"):
			fmt.Fprint(w, `<eSummaryResult>
				<DocSum><Id>11</Id><Item Name="Title">First</Item><Item Name="PubDate">2024 Feb</Item></DocSum>
				<DocSum><Id>22</Id><Item Name="Title">Second</Item><Item Name="PubDate">2022</Item></DocSum>
			</eSummaryResult>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client := pubmed.NewClient(types.HTTPConfig{Timeout: 5 * time.Second}, types.NCBIConfig{})
	client.HTTP = ts.Client()
	client.BaseURL = ts.URL

	b := &PubMedBackend{Client: client, Now: func() time.Time { return searchTime }}
	papers, err := b.Search(context.Background(), "phage", types.SearchConfig{YearFrom: 2020, StudyType: "review"}, 2)
	if err != nil {
		t.Fatalf("PubMedBackend.Search: %v", err)
	}
	if term != "phage AND 2020:2025[pdat] AND review[pt]" {
		t.Errorf("term = %q", term)
	}
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}
	if papers[0].RelevanceScore != 1.0 || papers[1].RelevanceScore >= papers[0].RelevanceScore {
		t.Errorf("scores = %f, %f", papers[0].RelevanceScore, papers[1].RelevanceScore)
	}
}

// --- Output formatting ---

func TestFormatTable(t *testing.T) {
	r := types.SearchReport{
		Papers: []types.Paper{
			{Title: "Paper A", Authors: []string{"Smith"}, Year: 2023, Source: "arXiv", RelevanceScore: 0.95},
			{Title: strings.Repeat("Long title ", 10), Authors: []string{"Jones", "Doe"}, Source: "PubMed", RelevanceScore: 0.80},
		},
		DuplicatesRemoved: 1,
		DatabaseErrors:    []string{"pubmed: HTTP 503"},
	}

	var buf bytes.Buffer
	FormatTable(r, &buf)
	s := buf.String()

	for _, want := range []string{"Paper A", "Jones et al.", "1 duplicates removed", "database error: pubmed: HTTP 503", "..."} {
		if !strings.Contains(s, want) {
			t.Errorf("table missing %q:\n%s", want, s)
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(types.SearchReport{}, &buf)
	if !strings.Contains(buf.String(), "No results") {
		t.Error("empty output should say 'No results'")
	}
}

func TestFormatJSON(t *testing.T) {
	r := types.SearchReport{Papers: []types.Paper{{ArxivID: "2301.07041", Title: "Paper A", Source: "arXiv"}}}

	var buf bytes.Buffer
	if err := FormatJSON(r, &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	var parsed []types.Paper
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(parsed) != 1 || parsed[0].ArxivID != "2301.07041" {
		t.Errorf("parsed = %+v", parsed)
	}

	buf.Reset()
	if err := FormatJSON(types.SearchReport{}, &buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty report JSON = %q, want []", buf.String())
	}
}

// --- Query file ---

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved", "phage.yaml")
	cfg := types.SearchConfig{Databases: []string{"pubmed"}, MaxResults: 20, YearFrom: 2020, StudyType: "review"}
	r := types.SearchReport{
		Query:          "phage therapy",
		Databases:      []string{"pubmed"},
		TotalResults:   1,
		Papers:         []types.Paper{{PMID: "11", Title: "First", Authors: []string{"Li W"}, Year: 2024}},
		DatabaseErrors: []string{"arxiv: HTTP 500"},
		Timestamp:      searchTime,
	}

	if err := WriteQueryFile(path, cfg, r); err != nil {
		t.Fatalf("WriteQueryFile: %v", err)
	}
	qf, err := ReadQueryFile(path)
	if err != nil {
		t.Fatalf("ReadQueryFile: %v", err)
	}

	got := qf.Report()
	if got.Query != "phage therapy" || got.TotalResults != 1 || got.Papers[0].PMID != "11" {
		t.Errorf("report = %+v", got)
	}
	if !got.Timestamp.Equal(searchTime) {
		t.Errorf("Timestamp = %v", got.Timestamp)
	}
	if c := qf.Config(); c.YearFrom != 2020 || c.StudyType != "review" || c.MaxResults != 20 {
		t.Errorf("config = %+v", c)
	}
}

func TestReadQueryFileMissing(t *testing.T) {
	if _, err := ReadQueryFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
