// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// ExperimentLog renders an experiment log. The log's Date is the only
// time-dependent value.
func ExperimentLog(log types.ExperimentLog) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Experiment: %s\n\n", log.ID)
	fmt.Fprintf(&b, "**Date:** %s\n", date(log.Date))
	fmt.Fprintf(&b, "**Researcher:** %s\n", orPlaceholder(log.Researcher, NotSpecified))
	fmt.Fprintf(&b, "**Hypothesis:** %s\n\n", flatten(orPlaceholder(log.Hypothesis, NotSpecified)))

	b.WriteString("## Hypothesis\n\n")
	b.WriteString(orPlaceholder(log.Hypothesis, NotSpecified) + "\n\n")

	d := log.Design
	replicates := ""
	if d.Replicates > 0 {
		replicates = strconv.Itoa(d.Replicates)
	}
	b.WriteString("## Experimental Design\n\n")
	fmt.Fprintf(&b, "- **Independent Variable:** %s\n", orPlaceholder(d.IndependentVariable, NotSpecified))
	fmt.Fprintf(&b, "- **Dependent Variable:** %s\n", orPlaceholder(d.DependentVariable, NotSpecified))
	fmt.Fprintf(&b, "- **Controls:** %s\n", orPlaceholder(d.Controls, NotSpecified))
	fmt.Fprintf(&b, "- **Replicates:** %s\n\n", orPlaceholder(replicates, NotSpecified))

	b.WriteString("## Materials\n\n")
	list(&b, log.Materials, "*No materials recorded*")

	b.WriteString("## Procedure\n\n")
	b.WriteString(orPlaceholder(log.Procedure, "*Protocol reference or step-by-step instructions not recorded*") + "\n\n")

	b.WriteString("## Observations\n\n")
	list(&b, log.Observations, "*No observations recorded*")

	b.WriteString("## Data\n\n")
	fmt.Fprintf(&b, "- **Raw Data:** %s\n", codeOr(log.DataPath, "*No data file linked*"))
	fmt.Fprintf(&b, "- **Analysis:** %s\n\n", codeOr(log.AnalysisPath, "*No analysis linked*"))

	b.WriteString("## Results Summary\n\n")
	b.WriteString(orPlaceholder(log.ResultsSummary, "*Pending analysis*") + "\n\n")

	b.WriteString("## Next Steps\n\n")
	list(&b, log.NextSteps, "*No next steps recorded*")

	footer(&b, "experiment log", log.Date)
	return b.String()
}

func codeOr(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return "`" + s + "`"
}

// Analysis renders the stub statistics of one data file.
func Analysis(r types.AnalysisReport, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Data Analysis: %s\n\n", r.ExperimentID)
	fmt.Fprintf(&b, "**Date:** %s\n", date(now))
	fmt.Fprintf(&b, "**Data Source:** `%s`\n", r.DataPath)
	fmt.Fprintf(&b, "**Rows Analyzed:** %d (stub: first 10 rows only)\n\n", r.RowsAnalyzed)

	b.WriteString("## Statistical Summary\n\n")
	if len(r.Results) == 0 {
		b.WriteString("*No numeric columns found in the data.*\n\n")
	} else {
		rows := make([][]string, 0, len(r.Results))
		for _, s := range r.Results {
			rows = append(rows, []string{
				Cell(s.ColumnName, 0),
				strconv.FormatFloat(s.Mean, 'f', 4, 64),
				strconv.FormatFloat(s.StdDev, 'f', 4, 64),
				strconv.Itoa(s.Count),
			})
		}
		table(&b, []string{"Column", "Mean", "Std Dev", "N"}, rows)
	}

	b.WriteString("## Notes\n\n")
	b.WriteString("- Only the first 10 data rows are analyzed\n")
	b.WriteString("- Standard deviation is the population form\n")
	b.WriteString("- Non-numeric columns are skipped\n\n")

	footer(&b, "experiment analyze", now)
	return b.String()
}

// ExperimentComparison renders a side-by-side table of 2-3 experiments in
// the order given, followed by the full text of each.
func ExperimentComparison(items []types.ExperimentComparison, now time.Time) string {
	var b strings.Builder

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	b.WriteString("# Experiment Comparison\n\n")
	fmt.Fprintf(&b, "**Date:** %s\n", date(now))
	fmt.Fprintf(&b, "**Experiments:** %s\n\n", strings.Join(ids, ", "))

	b.WriteString("## Comparison Table\n\n")
	header := []string{"Aspect"}
	hyp := []string{"**Hypothesis**"}
	res := []string{"**Results**"}
	status := []string{"**Log**"}
	for _, it := range items {
		h, r := experimentText(it)
		header = append(header, Cell(it.ID, 0))
		hyp = append(hyp, Cell(h, ExperimentCellBudget))
		res = append(res, Cell(r, ExperimentCellBudget))
		status = append(status, foundLabel(it.Found))
	}
	table(&b, header, [][]string{hyp, res, status})

	b.WriteString("## Detailed Comparison\n\n")
	for _, it := range items {
		h, r := experimentText(it)
		fmt.Fprintf(&b, "### %s\n\n", it.ID)
		fmt.Fprintf(&b, "#### Hypothesis\n\n%s\n\n", h)
		fmt.Fprintf(&b, "#### Results\n\n%s\n\n", r)
	}

	b.WriteString("## Notes\n\n")
	b.WriteString("- Hypothesis and results are copied from each experiment log\n")
	b.WriteString("- Table cells are cut at 100 characters\n\n")

	footer(&b, "experiment compare", now)
	return b.String()
}

func experimentText(it types.ExperimentComparison) (hypothesis, results string) {
	if !it.Found {
		return ExperimentNotFound, ExperimentNotFound
	}
	return orPlaceholder(it.Hypothesis, NoHypothesis), orPlaceholder(it.Results, NoResults)
}

func foundLabel(found bool) string {
	if found {
		return "Found"
	}
	return "Not found"
}
