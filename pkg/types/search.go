// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the labkit tools and hooks:
// event payloads, experiment logs and statistics, paper records, search
// reports, comparison rows, and configuration.
package types

import "time"

// SearchReport is the merged result of querying one or more databases.
type SearchReport struct {
	// Query is the free-text query sent to every database.
	Query string `json:"query" yaml:"query"`

	// Databases lists the databases queried, in query order.
	Databases []string `json:"databases" yaml:"databases"`

	// TotalResults is len(Papers) after truncation to the result limit.
	TotalResults int `json:"totalResults" yaml:"total_results"`

	Papers []Paper `json:"papers" yaml:"papers"`

	// DuplicatesRemoved counts papers merged because another database
	// returned the same DOI or title.
	DuplicatesRemoved int `json:"duplicatesRemoved,omitempty" yaml:"duplicates_removed,omitempty"`

	// DatabaseErrors records one message per database that failed.
	DatabaseErrors []string `json:"databaseErrors,omitempty" yaml:"database_errors,omitempty"`

	// Timestamp is when the search ran.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
