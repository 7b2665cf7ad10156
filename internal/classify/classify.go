// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether a hook event belongs to a category.
//
// A Classifier is an OR of independent predicates over the payload's content
// and result text. Categories are not mutually exclusive: one payload may
// satisfy several classifiers.
package classify

import (
	"strings"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// Predicate reports whether a payload shows one sign of a category.
type Predicate func(types.EventPayload) bool

// Classifier is a named set of predicates combined by OR.
type Classifier struct {
	Category   string
	Predicates []Predicate
}

// Match reports whether any predicate accepts the payload. An empty payload
// never matches.
func (c Classifier) Match(p types.EventPayload) bool {
	if p.IsEmpty() {
		return false
	}
	for _, pred := range c.Predicates {
		if pred(p) {
			return true
		}
	}
	return false
}

// ContentContains matches when the payload content contains s.
func ContentContains(s string) Predicate {
	return func(p types.EventPayload) bool {
		return p.Content != "" && strings.Contains(p.Content, s)
	}
}

// ResultContainsAll matches when the result contains every one of subs.
func ResultContainsAll(subs ...string) Predicate {
	return func(p types.EventPayload) bool {
		if p.Result == "" {
			return false
		}
		for _, s := range subs {
			if !strings.Contains(p.Result, s) {
				return false
			}
		}
		return true
	}
}

// ResultContainsAny matches when the result contains at least one of subs.
func ResultContainsAny(subs ...string) Predicate {
	return func(p types.EventPayload) bool {
		if p.Result == "" {
			return false
		}
		for _, s := range subs {
			if strings.Contains(p.Result, s) {
				return true
			}
		}
		return false
	}
}

// Category names.
const (
	CategoryExperimentComplete = "experiment-complete"
	CategoryPaperAnalyzed      = "paper-analyzed"
)

// ExperimentComplete recognizes the end of an experiment analysis.
var ExperimentComplete = Classifier{
	Category: CategoryExperimentComplete,
	Predicates: []Predicate{
		ContentContains("ExperimentTracking"),
		ContentContains("Analyze Results"),
		ContentContains("AnalyzeExperiment"),
		ResultContainsAll("experiment", "analysis"),
	},
}

// PaperAnalyzed recognizes the end of a paper analysis or literature review.
var PaperAnalyzed = Classifier{
	Category: CategoryPaperAnalyzed,
	Predicates: []Predicate{
		ContentContains("LiteratureReview"),
		ContentContains("Analyze Paper"),
		ContentContains("AnalyzePaper"),
		ResultContainsAny("paper analysis", "literature review"),
	},
}

// Categories returns the names of every classifier in cs that matches p.
func Categories(p types.EventPayload, cs ...Classifier) []string {
	var out []string
	for _, c := range cs {
		if c.Match(p) {
			out = append(out, c.Category)
		}
	}
	return out
}
