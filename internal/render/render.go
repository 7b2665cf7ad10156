// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns experiment and paper records into markdown documents.
//
// Every renderer is a pure function of its inputs. The only time-dependent
// text comes from a time value passed in by the caller, so the same record
// and time always produce the same bytes. Sections are emitted in a fixed
// order and are never dropped; missing data renders as a placeholder.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Cell budgets for comparison tables, in characters.
const (
	ExperimentCellBudget = 100
	PaperTitleBudget     = 80
	MaxCellAuthors       = 3
)

const ellipsis = "..."

// Placeholders shown in place of missing data.
const (
	ExperimentNotFound = "*Experiment log not found*"
	NoHypothesis       = "*No hypothesis section found*"
	NoResults          = "*No results section found*"

	PaperNotFound = "*Paper not found*"
	NoTitle       = "*No title found*"
	NoAuthors     = "*No authors found*"

	NotSpecified = "*Not specified*"
)

const dateLayout = "2006-01-02"

// Truncate shortens s to max characters and appends "..." when, and only
// when, s is longer than max.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + ellipsis
}

// Cell flattens s onto one line, truncates it to budget (0 means no limit),
// and escapes pipes so it fits in a table cell.
func Cell(s string, budget int) string {
	s = flatten(s)
	if budget > 0 {
		s = Truncate(s, budget)
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// table writes a markdown table. Every row must have len(header) cells.
func table(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|")
	for range header {
		b.WriteString("--------|")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}

// list writes one bullet per item, or the placeholder when items is empty.
func list(b *strings.Builder, items []string, placeholder string) {
	n := 0
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		fmt.Fprintf(b, "- %s\n", it)
		n++
	}
	if n == 0 {
		b.WriteString(placeholder + "\n")
	}
	b.WriteString("\n")
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// footer closes a document with a rule and a provenance line.
func footer(b *strings.Builder, tool string, now time.Time) {
	fmt.Fprintf(b, "---\n\n*Generated by labkit %s on %s*\n", tool, now.UTC().Format(time.RFC3339))
}

func date(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// authorCell lists up to MaxCellAuthors names and marks the rest with "et al.".
func authorCell(authors []string) string {
	if len(authors) == 0 {
		return NoAuthors
	}
	if len(authors) <= MaxCellAuthors {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:MaxCellAuthors], ", ") + " et al."
}
