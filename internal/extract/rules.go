// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// Field names produced by the rule sets below.
const (
	FieldExperimentID = "experiment_id"
	FieldPValue       = "p_value"
	FieldEffectSize   = "effect_size"
	FieldSampleSize   = "sample_size"

	FieldTitle     = "title"
	FieldAuthors   = "authors"
	FieldJournal   = "journal"
	FieldYear      = "year"
	FieldDOI       = "doi"
	FieldArxivID   = "arxiv_id"
	FieldFindings  = "findings"
	FieldRelevance = "relevance"

	FieldHypothesis = "hypothesis"
)

// ExperimentIDRule matches lab experiment identifiers (EXP-YYYY-MM-NNN).
var ExperimentIDRule = NewRule(FieldExperimentID, `EXP-\d{4}-\d{2}-\d{3}`)

// StatisticsRules pull the headline statistics out of analysis output.
var StatisticsRules = []Rule{
	ExperimentIDRule,
	NewRule(FieldPValue, `\bp\s*[=<]\s*0?\.\d+`),
	NewRule(FieldEffectSize, `(?:Cohen's d|eta-squared|r-squared)\s*[=:]\s*0?\.\d+`),
	NewRule(FieldSampleSize, `\bn\s*=\s*\d+`),
}

// PaperRules pull bibliographic fields out of free-text paper analysis output.
var PaperRules = []Rule{
	NewRule(FieldTitle, `(?:Title|title):\s*([^\n]+)`),
	NewRule(FieldAuthors, `(?:Authors|authors):\s*([^\n]+)`),
	NewRule(FieldJournal, `(?:Journal|journal):\s*([^\n]+)`),
	NewRule(FieldYear, `(?:Year|year):\s*(\d{4})`),
	NewRule(FieldDOI, `(?:DOI|doi):\s*(\S+)`),
	NewRule(FieldArxivID, `(?:arXiv|arxiv):\s*(\S+)`),
	NewMultiRule(FieldFindings, `(?i)(?:finding|result|conclusion)s?:\s*([^\n]+)`),
	NewRule(FieldRelevance, `(?i)(?:relevance|relation|implication)[^\n:]*:\s*([^\n]+)`),
}

// PaperFileRules read title and authors from a saved paper markdown file.
// The bold form is tried before the plain form.
var PaperFileRules = []Rule{
	NewRule(FieldTitle, `(?i)\*\*Title:\*\*\s*([^\n]+)`),
	NewRule(FieldTitle, `(?im)^Title:\s*([^\n]+)`),
	NewRule(FieldAuthors, `(?i)\*\*Authors?(?::\*\*|\*\*:)\s*([^\n]+)`),
	NewRule(FieldAuthors, `(?im)^Authors?:\s*([^\n]+)`),
}

// ExperimentLogRules read fields from the metadata block of an experiment log.
var ExperimentLogRules = []Rule{
	NewRule(FieldHypothesis, `\*\*Hypothesis:\*\*\s*([^\n]+)`),
}

// PValue parses the numeric part of a p-value match such as "p = 0.03" or
// "p<.01". It reports false when the field is absent or unparsable.
func PValue(rec Record) (float64, bool) {
	raw, ok := rec.Get(FieldPValue)
	if !ok {
		return 0, false
	}
	i := strings.IndexAny(raw, "=<")
	if i < 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw[i+1:]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// PaperMetadata applies PaperRules to text.
func PaperMetadata(text string) types.PaperMetadata {
	rec := Extract(text, PaperRules)

	var md types.PaperMetadata
	md.Title = rec.String(FieldTitle)
	if raw, ok := rec.Get(FieldAuthors); ok {
		md.Authors = SplitAuthors(raw)
	}
	md.Journal = rec.String(FieldJournal)
	if year, ok := rec.Int(FieldYear); ok {
		md.Year = year
	}
	md.DOI = rec.String(FieldDOI)
	md.ArxivID = rec.String(FieldArxivID)
	if findings, ok := rec.List(FieldFindings); ok {
		md.KeyFindings = findings
	}
	md.RelevanceToLab = rec.String(FieldRelevance)
	return md
}

// fileAuthorSplitRe separates authors on commas, semicolons, or a spelled-out "and".
var fileAuthorSplitRe = regexp.MustCompile(`[,;]|\s+and\s+`)

// PaperFile reads the title and authors from a saved paper markdown file.
// The first top-level heading is the title unless it names a generated
// report ("Paper", "Analysis"); otherwise PaperFileRules decide.
func PaperFile(content string) (title string, authors []string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") && !strings.Contains(line, "Paper") && !strings.Contains(line, "Analysis") {
			title = strings.TrimSpace(line[2:])
			break
		}
	}

	rec := Extract(content, PaperFileRules)
	if title == "" {
		title = rec.String(FieldTitle)
	}
	if raw, ok := rec.Get(FieldAuthors); ok {
		authors = splitNonEmpty(fileAuthorSplitRe, raw)
	}
	return title, authors
}
