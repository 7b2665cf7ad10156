// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hook

import (
	"context"
	"fmt"
	"strings"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/classify"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/extract"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/store"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// unknownExperiment stands in when the result names no experiment.
const unknownExperiment = "Unknown"

// significanceLevel is the p-value threshold for a significant result.
const significanceLevel = 0.05

// ExperimentComplete handles the end of an experiment analysis.
var ExperimentComplete = Handler{
	Name:       classify.CategoryExperimentComplete,
	Classifier: classify.ExperimentComplete,
	Handle:     handleExperimentComplete,
}

func handleExperimentComplete(ctx context.Context, env Env, p types.EventPayload) error {
	rec := extract.Extract(p.Result, extract.StatisticsRules)
	id := rec.String(extract.FieldExperimentID)
	if id == "" {
		id = unknownExperiment
	}
	summary := ExperimentSummary(id, rec, p.Result)

	now := env.now()
	path, err := env.Store.WriteJSON(store.Artifact{
		Category:   store.Experiments,
		Sub:        store.Notifications,
		Time:       now,
		Identifier: id,
		Suffix:     "Complete.json",
	}, types.ExperimentNotification{
		Timestamp:    now.UTC(),
		ExperimentID: id,
		Summary:      summary,
		Event:        types.EventExperimentComplete,
	})
	if err != nil {
		return fmt.Errorf("writing notification log: %w", err)
	}

	env.notify(ctx, fmt.Sprintf("Experiment %s analysis complete", id))

	banner(env.out(), "EXPERIMENT ANALYSIS COMPLETE", []string{
		"Experiment: " + id,
		"Completed:  " + now.Format("2006-01-02 15:04:05"),
		"",
		"Summary:",
		strings.TrimRight(summary, "\n"),
		"",
		"Notification saved to:",
		"   " + path,
	})
	fmt.Fprintln(env.out(), "Suggested next steps:")
	fmt.Fprintln(env.out(), "   - Review the analysis report in History/DataAnalyses/")
	fmt.Fprintln(env.out(), "   - Compare to similar experiments with labkit experiment compare")
	return nil
}

// ExperimentSummary describes an analysis result: the headline statistics
// found in text and a significance verdict. Negative wording is checked
// before positive wording, so "not significant" is never read as significant.
func ExperimentSummary(id string, rec extract.Record, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Experiment %s analysis completed.\n", id)

	if v, ok := rec.Get(extract.FieldPValue); ok {
		fmt.Fprintf(&b, "   Statistical significance: %s\n", v)
	}
	if v, ok := rec.Get(extract.FieldEffectSize); ok {
		fmt.Fprintf(&b, "   Effect size: %s\n", v)
	}
	if v, ok := rec.Get(extract.FieldSampleSize); ok {
		fmt.Fprintf(&b, "   Sample size: %s\n", v)
	}

	pv, hasP := extract.PValue(rec)
	switch {
	case strings.Contains(text, "not significant") || strings.Contains(text, "no effect"):
		b.WriteString("   Result: No statistically significant effect detected\n")
	case strings.Contains(text, "significant") || (hasP && pv < significanceLevel):
		b.WriteString("   Result: Statistically significant effect detected\n")
	}
	return b.String()
}
