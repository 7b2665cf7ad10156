// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// PaperComparison renders a side-by-side table of 2-3 papers in the order
// given, followed by the full title and author list of each.
func PaperComparison(items []types.PaperComparison, now time.Time) string {
	var b strings.Builder

	pmids := make([]string, len(items))
	for i, it := range items {
		pmids[i] = it.PMID
	}

	b.WriteString("# Paper Comparison\n\n")
	fmt.Fprintf(&b, "**Date:** %s\n", date(now))
	fmt.Fprintf(&b, "**PMIDs:** %s\n\n", strings.Join(pmids, ", "))

	b.WriteString("## Comparison Table\n\n")
	header := []string{"Aspect"}
	titles := []string{"**Title**"}
	authors := []string{"**Authors**"}
	for _, it := range items {
		header = append(header, "PMID "+Cell(it.PMID, 0))
		titles = append(titles, Cell(paperTitle(it), PaperTitleBudget))
		authors = append(authors, Cell(paperAuthors(it), 0))
	}
	table(&b, header, [][]string{titles, authors})

	b.WriteString("## Detailed Information\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "### PMID %s\n\n", it.PMID)
		fmt.Fprintf(&b, "**Title:** %s\n\n", paperTitle(it))
		switch {
		case !it.Found:
			fmt.Fprintf(&b, "**Authors:** %s\n\n", PaperNotFound)
		case len(it.Authors) == 0:
			fmt.Fprintf(&b, "**Authors:** %s\n\n", NoAuthors)
		default:
			b.WriteString("**Authors:**\n\n")
			list(&b, it.Authors, NoAuthors)
		}
	}

	b.WriteString("## Notes\n\n")
	b.WriteString("- Titles and authors are read from saved paper files\n")
	b.WriteString("- Table titles are cut at 80 characters\n\n")

	footer(&b, "paper compare", now)
	return b.String()
}

func paperTitle(it types.PaperComparison) string {
	if !it.Found {
		return PaperNotFound
	}
	return orPlaceholder(it.Title, NoTitle)
}

func paperAuthors(it types.PaperComparison) string {
	if !it.Found {
		return PaperNotFound
	}
	return authorCell(it.Authors)
}

// SearchResults renders a literature search report. The report's Timestamp
// is the only time-dependent value.
func SearchResults(r types.SearchReport) string {
	var b strings.Builder

	b.WriteString("# Literature Search Results\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n", r.Query)
	fmt.Fprintf(&b, "**Databases:** %s\n", strings.Join(r.Databases, ", "))
	fmt.Fprintf(&b, "**Search Date:** %s\n", date(r.Timestamp))
	fmt.Fprintf(&b, "**Total Results:** %d\n\n", r.TotalResults)

	b.WriteString("## Papers Found\n\n")
	if len(r.Papers) == 0 {
		b.WriteString("*No papers found.*\n\n")
	}
	for i, p := range r.Papers {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, flatten(orPlaceholder(p.Title, NoTitle)))
		fmt.Fprintf(&b, "**Authors:** %s\n\n", orPlaceholder(strings.Join(p.Authors, ", "), NoAuthors))
		fmt.Fprintf(&b, "**Year:** %s\n\n", yearOr(p.Year, "Unknown"))
		if p.Journal != "" {
			fmt.Fprintf(&b, "**Journal:** %s\n\n", p.Journal)
		}
		if p.DOI != "" {
			fmt.Fprintf(&b, "**DOI:** %s\n\n", p.DOI)
		}
		if p.ArxivID != "" {
			fmt.Fprintf(&b, "**arXiv ID:** %s\n\n", p.ArxivID)
		}
		fmt.Fprintf(&b, "**URL:** %s\n\n", p.URL)
		fmt.Fprintf(&b, "**Source:** %s\n\n", p.Source)
		if p.Abstract != "" {
			fmt.Fprintf(&b, "**Abstract:**\n%s\n\n", p.Abstract)
		}
		if p.RelevanceScore > 0 {
			fmt.Fprintf(&b, "**Relevance Score:** %.1f%%\n\n", p.RelevanceScore*100)
		}
	}

	b.WriteString("## Database Errors\n\n")
	list(&b, r.DatabaseErrors, "*None*")

	b.WriteString("## Next Steps\n\n")
	b.WriteString("- [ ] Review abstracts and select papers for deep analysis\n")
	b.WriteString("- [ ] Run `labkit paper analyze --pmid <PMID>` on selected papers\n")
	b.WriteString("- [ ] Compare candidates with `labkit paper compare`\n\n")

	footer(&b, "paper search", r.Timestamp)
	return b.String()
}

// PaperMetadata renders the metadata file written by paper analysis.
func PaperMetadata(p types.Paper, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", flatten(orPlaceholder(p.Title, "Unknown Title")))

	b.WriteString("## Metadata\n\n")
	fmt.Fprintf(&b, "- **Title:** %s\n", flatten(orPlaceholder(p.Title, NoTitle)))
	fmt.Fprintf(&b, "- **PMID:** %s\n", orPlaceholder(p.PMID, NotSpecified))
	fmt.Fprintf(&b, "- **Journal:** %s\n", orPlaceholder(p.Journal, "Unknown Journal"))
	fmt.Fprintf(&b, "- **Publication Year:** %s\n", yearOr(p.Year, "Unknown"))
	fmt.Fprintf(&b, "- **Authors:** %s\n", orPlaceholder(strings.Join(p.Authors, ", "), NoAuthors))
	fmt.Fprintf(&b, "- **DOI:** %s\n\n", orPlaceholder(p.DOI, NotSpecified))

	b.WriteString("## Abstract\n\n")
	b.WriteString(orPlaceholder(p.Abstract, "*No abstract available*") + "\n\n")

	footer(&b, "paper analyze", now)
	return b.String()
}

func yearOr(year int, placeholder string) string {
	if year <= 0 {
		return placeholder
	}
	return strconv.Itoa(year)
}
