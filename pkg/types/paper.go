// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper is one search hit or fetched record from PubMed or arXiv.
type Paper struct {
	// PMID is the PubMed identifier, empty for arXiv papers.
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`

	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year; zero when the source did not report one.
	Year int `json:"year" yaml:"year"`

	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ArxivID string `json:"arxivId,omitempty" yaml:"arxiv_id,omitempty"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// URL is the landing page for the paper.
	URL string `json:"url" yaml:"url"`

	// Source identifies which database found this paper ("PubMed", "arXiv").
	Source string `json:"source" yaml:"source"`

	// RelevanceScore is between 0.0 and 1.0; zero means the source gave none.
	RelevanceScore float64 `json:"relevanceScore,omitempty" yaml:"relevance_score,omitempty"`
}

// PaperMetadata holds the fields the paper-analyzed hook pulls out of free
// text. Every field is optional.
type PaperMetadata struct {
	Title          string   `json:"title,omitempty"`
	Authors        []string `json:"authors,omitempty"`
	Journal        string   `json:"journal,omitempty"`
	Year           int      `json:"year,omitempty"`
	DOI            string   `json:"doi,omitempty"`
	ArxivID        string   `json:"arxivId,omitempty"`
	KeyFindings    []string `json:"keyFindings,omitempty"`
	RelevanceToLab string   `json:"relevanceToLab,omitempty"`
}

// PaperComparison is one column of a paper comparison document.
type PaperComparison struct {
	PMID    string   `json:"pmid"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Found   bool     `json:"found"`
}

// Citation is the metadata needed to format a reference for one PMID.
type Citation struct {
	PMID    string   `json:"pmid" yaml:"pmid"`
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`
	Journal string   `json:"journal" yaml:"journal"`
	Year    string   `json:"year" yaml:"year"`
}

// PaperIndexEntry is one line of the paper index.
type PaperIndexEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	PMID      string    `json:"pmid,omitempty"`
	Title     string    `json:"title,omitempty"`
	Authors   []string  `json:"authors,omitempty"`
	Journal   string    `json:"journal,omitempty"`
	Year      int       `json:"year,omitempty"`
	DOI       string    `json:"doi,omitempty"`
	ArxivID   string    `json:"arxivId,omitempty"`
	Relevance string    `json:"relevance,omitempty"`
	Artifact  string    `json:"artifact,omitempty"`
}
