// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package experiment records experiment logs, runs the stub data analysis,
// and compares logged experiments side by side.
package experiment

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/extract"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/render"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/store"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// Service runs the experiment tools against one artifact store.
type Service struct {
	Store  *store.Store
	Logger *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
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

// LogResult is the JSON summary printed after logging an experiment.
type LogResult struct {
	Success      bool   `json:"success"`
	Filepath     string `json:"filepath"`
	ExperimentID string `json:"experimentId"`
	Timestamp    string `json:"timestamp"`
}

// Log writes an experiment log under Experiments and appends it to the
// experiment index. The log's Date is set to the current time.
func (s *Service) Log(log types.ExperimentLog) (LogResult, error) {
	var missing []string
	if strings.TrimSpace(log.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(log.Researcher) == "" {
		missing = append(missing, "researcher")
	}
	if strings.TrimSpace(log.Hypothesis) == "" {
		missing = append(missing, "hypothesis")
	}
	if len(missing) > 0 {
		return LogResult{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	now := s.now()
	log.Date = now
	path, err := s.Store.Write(store.Artifact{
		Category:   store.Experiments,
		Time:       now,
		Identifier: log.ID,
		Suffix:     "Log.md",
	}, []byte(render.ExperimentLog(log)))
	if err != nil {
		return LogResult{}, fmt.Errorf("saving experiment log: %w", err)
	}

	entry := types.ExperimentIndexEntry{
		ID:           store.NewEntryID(now),
		Timestamp:    now.UTC(),
		ExperimentID: log.ID,
		Researcher:   log.Researcher,
		Hypothesis:   log.Hypothesis,
		Artifact:     path,
	}
	if err := s.Store.AppendIndex(store.Experiments, store.ExperimentIndex, entry); err != nil {
		s.logger().Warn("experiment index not updated", zap.Error(err))
	}

	return LogResult{
		Success:      true,
		Filepath:     path,
		ExperimentID: log.ID,
		Timestamp:    now.UTC().Format(time.RFC3339),
	}, nil
}

// AnalyzeResult is the JSON summary printed after an analysis.
type AnalyzeResult struct {
	Success      bool                `json:"success"`
	Filepath     string              `json:"filepath"`
	ExperimentID string              `json:"experimentId"`
	Timestamp    string              `json:"timestamp"`
	Results      []types.ColumnStats `json:"results"`
}

// Analyze summarizes a CSV data file and writes the report under DataAnalyses.
func (s *Service) Analyze(dataPath, experimentID string) (AnalyzeResult, error) {
	f, err := os.Open(dataPath)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	report, err := SummarizeCSV(f)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("analyzing %s: %w", dataPath, err)
	}
	report.ExperimentID = experimentID
	report.DataPath = dataPath

	now := s.now()
	path, err := s.Store.Write(store.Artifact{
		Category:   store.Analyses,
		Time:       now,
		Identifier: experimentID,
		Suffix:     "Analysis.md",
	}, []byte(render.Analysis(report, now)))
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("saving analysis: %w", err)
	}

	results := report.Results
	if results == nil {
		results = []types.ColumnStats{}
	}
	return AnalyzeResult{
		Success:      true,
		Filepath:     path,
		ExperimentID: experimentID,
		Timestamp:    now.UTC().Format(time.RFC3339),
		Results:      results,
	}, nil
}

// ComparisonStatus is one experiment's entry in the compare summary.
type ComparisonStatus struct {
	ID    string `json:"id"`
	Found bool   `json:"found"`
}

// CompareResult is the JSON summary printed after a comparison.
type CompareResult struct {
	Success       bool               `json:"success"`
	Filepath      string             `json:"filepath"`
	ExperimentIDs []string           `json:"experimentIds"`
	Timestamp     string             `json:"timestamp"`
	Comparisons   []ComparisonStatus `json:"comparisons"`
}

// ErrCompareCount is returned unless 2 or 3 experiments are given.
var ErrCompareCount = errors.New("provide 2-3 experiment IDs")

// Compare loads the latest log of each experiment and writes a comparison
// document under DataAnalyses. Experiments without a log are reported as
// not found; the comparison is still written.
func (s *Service) Compare(ids []string) (CompareResult, error) {
	ids = cleanIDs(ids)
	if len(ids) < 2 || len(ids) > 3 {
		return CompareResult{}, ErrCompareCount
	}

	dir := s.Store.CategoryDir(store.Experiments)
	if _, err := os.Stat(dir); err != nil {
		return CompareResult{}, fmt.Errorf("experiments directory not found at %s: %w", dir, err)
	}

	items := make([]types.ExperimentComparison, 0, len(ids))
	statuses := make([]ComparisonStatus, 0, len(ids))
	for _, id := range ids {
		c, err := s.loadComparison(id)
		if err != nil {
			return CompareResult{}, err
		}
		items = append(items, c)
		statuses = append(statuses, ComparisonStatus{ID: id, Found: c.Found})
	}

	now := s.now()
	path, err := s.Store.Write(store.Artifact{
		Category:   store.Analyses,
		Time:       now,
		Identifier: strings.Join(ids, "-"),
		Suffix:     "Comparison.md",
	}, []byte(render.ExperimentComparison(items, now)))
	if err != nil {
		return CompareResult{}, fmt.Errorf("saving comparison: %w", err)
	}

	return CompareResult{
		Success:       true,
		Filepath:      path,
		ExperimentIDs: ids,
		Timestamp:     now.UTC().Format(time.RFC3339),
		Comparisons:   statuses,
	}, nil
}

// loadComparison reads the hypothesis and results of the latest log for id.
func (s *Service) loadComparison(id string) (types.ExperimentComparison, error) {
	c := types.ExperimentComparison{ID: id}

	path, err := s.Store.Find(store.Experiments, logMatcher(id))
	if err != nil {
		return c, fmt.Errorf("locating log for %s: %w", id, err)
	}
	if path == "" {
		return c, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading log for %s: %w", id, err)
	}

	c.Found = true
	if h, ok := extract.Section(content, "Hypothesis"); ok {
		c.Hypothesis = h
	} else {
		c.Hypothesis = extract.Extract(string(content), extract.ExperimentLogRules).String(extract.FieldHypothesis)
	}
	if r, ok := extract.Section(content, "Results"); ok {
		c.Results = r
	}
	return c, nil
}

// logMatcher matches experiment log file names carrying the sanitized id as
// a whole underscore-delimited segment.
func logMatcher(id string) func(string) bool {
	needle := "_" + store.SanitizeIdentifier(id) + "_"
	return func(name string) bool {
		return strings.HasSuffix(name, "_Log.md") && strings.Contains(name, needle)
	}
}

func cleanIDs(ids []string) []string {
	var out []string
	for _, id := range ids {
		for _, part := range strings.Split(id, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
