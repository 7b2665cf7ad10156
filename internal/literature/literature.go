// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package literature runs the paper tools: multi-database search, PubMed
// paper analysis, side-by-side paper comparison, and citation generation.
package literature

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/citation"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/pubmed"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/render"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/search"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/store"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// Service runs the literature tools against one artifact store.
type Service struct {
	Store    *store.Store
	PubMed   *pubmed.Client
	Registry search.Registry
	Logger   *zap.Logger

	// Out receives progress lines and warnings. Nil discards them.
	Out io.Writer

	// Now defaults to time.Now.
	Now func() time.Time
}

// New wires a Service from the resolved lab configuration.
func New(cfg types.LabConfig, logger *zap.Logger, out io.Writer) *Service {
	return &Service{
		Store:    store.New(cfg.BaseDir),
		PubMed:   pubmed.NewClient(cfg.HTTPConfig, cfg.NCBI),
		Registry: search.NewRegistry(cfg.HTTPConfig, cfg.NCBI),
		Logger:   logger,
		Out:      out,
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) out() io.Writer {
	if s.Out == nil {
		return io.Discard
	}
	return s.Out
}

var pmidRe = regexp.MustCompile(`^\d+$`)

func checkPMID(pmid string) error {
	if !pmidRe.MatchString(pmid) {
		return fmt.Errorf("invalid PMID %q: expected digits only", pmid)
	}
	return nil
}

// SearchOptions controls one literature search.
type SearchOptions struct {
	Config types.SearchConfig

	// OutputDir replaces History/Research/<YYYY-MM> when set.
	OutputDir string

	// SavePath, when set, also writes the results as a YAML query file.
	SavePath string
}

// SearchResult is the JSON summary printed after a search.
type SearchResult struct {
	Success        bool     `json:"success"`
	Filepath       string   `json:"filepath"`
	Query          string   `json:"query"`
	Databases      []string `json:"databases"`
	TotalResults   int      `json:"totalResults"`
	DatabaseErrors []string `json:"databaseErrors,omitempty"`
	Timestamp      string   `json:"timestamp"`

	Report types.SearchReport `json:"-"`
}

// Search queries each configured database in turn and writes the results
// document under Research. Database failures only reduce the result set.
func (s *Service) Search(ctx context.Context, query string, opts SearchOptions) (SearchResult, error) {
	now := s.now()
	report, err := search.Search(ctx, query, s.Registry, opts.Config, now, s.out())
	if err != nil {
		return SearchResult{}, err
	}
	return s.saveSearch(report, opts)
}

// Rerender writes the results document for a previously saved query file
// without querying any database.
func (s *Service) Rerender(path string, opts SearchOptions) (SearchResult, error) {
	qf, err := search.ReadQueryFile(path)
	if err != nil {
		return SearchResult{}, err
	}
	report := qf.Report()
	if report.Timestamp.IsZero() {
		report.Timestamp = s.now()
	}
	opts.SavePath = ""
	return s.saveSearch(report, opts)
}

func (s *Service) saveSearch(report types.SearchReport, opts SearchOptions) (SearchResult, error) {
	path, err := s.Store.Write(store.Artifact{
		Category:   store.Research,
		Dir:        opts.OutputDir,
		Time:       report.Timestamp,
		Identifier: report.Query,
		Suffix:     "Literature_Search.md",
	}, []byte(render.SearchResults(report)))
	if err != nil {
		return SearchResult{}, fmt.Errorf("saving search results: %w", err)
	}

	if opts.SavePath != "" {
		if err := search.WriteQueryFile(opts.SavePath, opts.Config, report); err != nil {
			return SearchResult{}, err
		}
		fmt.Fprintf(s.out(), "Query saved to %s\n", opts.SavePath)
	}

	return SearchResult{
		Success:        true,
		Filepath:       path,
		Query:          report.Query,
		Databases:      report.Databases,
		TotalResults:   report.TotalResults,
		DatabaseErrors: report.DatabaseErrors,
		Timestamp:      report.Timestamp.UTC().Format(time.RFC3339),
		Report:         report,
	}, nil
}

// AnalyzeResult is the JSON summary printed after a paper analysis.
type AnalyzeResult struct {
	Success   bool     `json:"success"`
	Filepath  string   `json:"filepath"`
	PMID      string   `json:"pmid"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Timestamp string   `json:"timestamp"`
}

// AnalyzePaper fetches the full PubMed record for pmid, writes a metadata
// document under Papers, and appends the paper to the paper index.
func (s *Service) AnalyzePaper(ctx context.Context, pmid string) (AnalyzeResult, error) {
	pmid = strings.TrimSpace(pmid)
	if err := checkPMID(pmid); err != nil {
		return AnalyzeResult{}, err
	}

	fmt.Fprintf(s.out(), "Fetching metadata for PMID: %s...\n", pmid)
	paper, err := s.PubMed.Fetch(ctx, pmid)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("fetching PMID %s: %w", pmid, err)
	}

	now := s.now()
	path, err := s.Store.Write(store.Artifact{
		Category:   store.Papers,
		Time:       now,
		Identifier: "PMID_" + pmid,
		Suffix:     "Paper.md",
	}, []byte(render.PaperMetadata(paper, now)))
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("saving paper metadata: %w", err)
	}

	entry := types.PaperIndexEntry{
		ID:        store.NewEntryID(now),
		Timestamp: now.UTC(),
		PMID:      pmid,
		Title:     paper.Title,
		Authors:   paper.Authors,
		Journal:   paper.Journal,
		Year:      paper.Year,
		DOI:       paper.DOI,
		Artifact:  path,
	}
	if err := s.Store.AppendIndex(store.Papers, store.PaperIndex, entry); err != nil {
		s.logger().Warn("paper index not updated", zap.String("pmid", pmid), zap.Error(err))
	}

	authors := paper.Authors
	if authors == nil {
		authors = []string{}
	}
	return AnalyzeResult{
		Success:   true,
		Filepath:  path,
		PMID:      pmid,
		Title:     paper.Title,
		Authors:   authors,
		Timestamp: now.UTC().Format(time.RFC3339),
	}, nil
}

// CiteResult holds a formatted citation and the metadata behind it.
type CiteResult struct {
	Citation string         `json:"citation"`
	Style    string         `json:"style"`
	Metadata types.Citation `json:"metadata"`
}

// Cite fetches esummary metadata for pmid and formats it in style.
func (s *Service) Cite(ctx context.Context, pmid, style string) (CiteResult, error) {
	pmid = strings.TrimSpace(pmid)
	if err := checkPMID(pmid); err != nil {
		return CiteResult{}, err
	}

	fmt.Fprintf(s.out(), "Fetching metadata for PMID: %s...\n", pmid)
	meta, err := s.PubMed.Citation(ctx, pmid)
	if err != nil {
		return CiteResult{}, fmt.Errorf("fetching metadata: %w", err)
	}
	text, err := citation.Format(meta, style, s.out())
	if err != nil {
		return CiteResult{}, fmt.Errorf("formatting citation: %w", err)
	}
	used := citation.StyleNature
	if strings.EqualFold(strings.TrimSpace(style), citation.StyleCSL) {
		used = citation.StyleCSL
	}
	return CiteResult{Citation: text, Style: used, Metadata: meta}, nil
}
