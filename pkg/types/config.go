// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that call PubMed or arXiv.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "labkit/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// NCBIConfig holds the optional E-utilities credentials. Both fields are
// forwarded as query parameters when set.
type NCBIConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
}

// LabConfig is the resolved configuration handed to every command. It is
// built once from flags, config file, and environment in cmd/labkit and
// never re-read from the environment deeper in the call graph.
type LabConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseDir is the storage root; artifacts live under BaseDir/History.
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// VoicePort is the port of the local notification endpoint.
	VoicePort string `json:"voice_port" yaml:"voice_port"`

	NCBI NCBIConfig `json:"ncbi" yaml:"ncbi"`
}

// SearchConfig holds settings for a literature search run.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Databases lists the databases to query, in order (e.g. pubmed, arxiv).
	Databases []string `json:"databases" yaml:"databases"`

	// MaxResults is the maximum number of papers kept after merging (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// YearFrom and YearTo bound the publication year; zero means unbounded.
	YearFrom int `json:"year_from,omitempty" yaml:"year_from,omitempty"`
	YearTo   int `json:"year_to,omitempty" yaml:"year_to,omitempty"`

	// StudyType is an optional study-type filter (e.g. "review").
	StudyType string `json:"study_type,omitempty" yaml:"study_type,omitempty"`
}

// PerDatabaseLimit splits MaxResults evenly across the configured databases.
func (c SearchConfig) PerDatabaseLimit() int {
	if len(c.Databases) == 0 {
		return c.MaxResults
	}
	return c.MaxResults / len(c.Databases)
}
