// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls named fields out of unstructured text using ordered
// regular-expression rules, and pulls sections out of markdown documents.
//
// Each rule is applied to the whole text on its own; rules never interact.
// A rule whose pattern has a capture group yields the first group, otherwise
// the whole match.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxMultiValues caps the number of matches kept for a multi-value rule.
const MaxMultiValues = 3

// Rule binds a field name to a compiled pattern.
type Rule struct {
	Field   string
	Pattern *regexp.Regexp

	// Multi collects every non-overlapping match (capped at MaxMultiValues)
	// instead of stopping at the first.
	Multi bool
}

// NewRule compiles pattern into a single-value rule. It panics on a bad
// pattern, so rule sets are built at package init.
func NewRule(field, pattern string) Rule {
	return Rule{Field: field, Pattern: regexp.MustCompile(pattern)}
}

// NewMultiRule compiles pattern into a multi-value rule.
func NewMultiRule(field, pattern string) Rule {
	return Rule{Field: field, Pattern: regexp.MustCompile(pattern), Multi: true}
}

// Record maps field names to extracted values. A field absent from both maps
// did not match; an empty string is a real (empty) match.
type Record struct {
	Values map[string]string
	Lists  map[string][]string
}

// Get returns the single value for field.
func (r Record) Get(field string) (string, bool) {
	v, ok := r.Values[field]
	return v, ok
}

// String returns the single value for field, or "" when absent.
func (r Record) String(field string) string {
	return r.Values[field]
}

// List returns the collected values of a multi-value field.
func (r Record) List(field string) ([]string, bool) {
	v, ok := r.Lists[field]
	return v, ok
}

// Int coerces a single value to an integer. A missing field or a value that
// does not parse both report false.
func (r Record) Int(field string) (int, bool) {
	v, ok := r.Values[field]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Has reports whether field matched, as a single or multi value.
func (r Record) Has(field string) bool {
	if _, ok := r.Values[field]; ok {
		return true
	}
	_, ok := r.Lists[field]
	return ok
}

// Len returns the number of fields that matched.
func (r Record) Len() int {
	return len(r.Values) + len(r.Lists)
}

// Extract applies every rule to text and returns the fields that matched.
func Extract(text string, rules []Rule) Record {
	rec := Record{
		Values: make(map[string]string),
		Lists:  make(map[string][]string),
	}
	for _, rule := range rules {
		// First rule for a field wins.
		if rule.Pattern == nil || rec.Has(rule.Field) {
			continue
		}
		if rule.Multi {
			matches := rule.Pattern.FindAllStringSubmatch(text, -1)
			if len(matches) == 0 {
				continue
			}
			if len(matches) > MaxMultiValues {
				matches = matches[:MaxMultiValues]
			}
			vals := make([]string, 0, len(matches))
			for _, m := range matches {
				vals = append(vals, pick(m))
			}
			rec.Lists[rule.Field] = vals
			continue
		}
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		rec.Values[rule.Field] = pick(m)
	}
	return rec
}

// pick returns the trimmed first capture group, or the whole match when the
// pattern has no groups.
func pick(m []string) string {
	if len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(m[0])
}

// authorSplitRe separates an author list on commas, semicolons, or ampersands.
var authorSplitRe = regexp.MustCompile(`[,;&]`)

// SplitAuthors splits a raw author line into trimmed names. Empty pieces
// are dropped.
func SplitAuthors(raw string) []string {
	return splitNonEmpty(authorSplitRe, raw)
}

func splitNonEmpty(re *regexp.Regexp, raw string) []string {
	var out []string
	for _, part := range re.Split(raw, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
