// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results.
// A saved search can be reloaded and re-rendered without querying again.
type QueryFile struct {
	Query   QueryParams   `yaml:"query"`
	Results []types.Paper `yaml:"results"`
	Summary QuerySummary  `yaml:"summary"`
}

// QueryParams stores the query and the settings that produced the results.
type QueryParams struct {
	Text       string   `yaml:"text"`
	Databases  []string `yaml:"databases"`
	MaxResults int      `yaml:"max_results"`
	YearFrom   int      `yaml:"year_from,omitempty"`
	YearTo     int      `yaml:"year_to,omitempty"`
	StudyType  string   `yaml:"study_type,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total             int       `yaml:"total"`
	DuplicatesRemoved int       `yaml:"duplicates_removed"`
	DatabaseErrors    []string  `yaml:"database_errors,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a search report to a YAML file, creating the parent
// directory if needed.
func WriteQueryFile(path string, cfg types.SearchConfig, r types.SearchReport) error {
	qf := QueryFile{
		Query: QueryParams{
			Text:       r.Query,
			Databases:  r.Databases,
			MaxResults: cfg.MaxResults,
			YearFrom:   cfg.YearFrom,
			YearTo:     cfg.YearTo,
			StudyType:  cfg.StudyType,
		},
		Results: r.Papers,
		Summary: QuerySummary{
			Total:             r.TotalResults,
			DuplicatesRemoved: r.DuplicatesRemoved,
			DatabaseErrors:    r.DatabaseErrors,
			Timestamp:         r.Timestamp.UTC(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating query file directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Report rebuilds the search report stored in the file.
func (qf *QueryFile) Report() types.SearchReport {
	return types.SearchReport{
		Query:             qf.Query.Text,
		Databases:         qf.Query.Databases,
		TotalResults:      len(qf.Results),
		Papers:            qf.Results,
		DuplicatesRemoved: qf.Summary.DuplicatesRemoved,
		DatabaseErrors:    qf.Summary.DatabaseErrors,
		Timestamp:         qf.Summary.Timestamp,
	}
}

// Config returns the search settings stored in the file.
func (qf *QueryFile) Config() types.SearchConfig {
	return types.SearchConfig{
		Databases:  qf.Query.Databases,
		MaxResults: qf.Query.MaxResults,
		YearFrom:   qf.Query.YearFrom,
		YearTo:     qf.Query.YearTo,
		StudyType:  qf.Query.StudyType,
	}
}
