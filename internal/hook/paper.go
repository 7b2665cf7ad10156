// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hook

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/classify"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/extract"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/store"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// PaperAnalyzed handles the end of a paper analysis or literature review.
var PaperAnalyzed = Handler{
	Name:       classify.CategoryPaperAnalyzed,
	Classifier: classify.PaperAnalyzed,
	Handle:     handlePaperAnalyzed,
}

func handlePaperAnalyzed(ctx context.Context, env Env, p types.EventPayload) error {
	md := extract.PaperMetadata(p.Result + " " + p.Content)
	summary := PaperSummary(md)
	now := env.now()

	title := md.Title
	if title == "" {
		title = "Unknown"
	}
	ident := md.Title
	if ident == "" {
		ident = "paper"
	}
	authors := md.Authors
	if authors == nil {
		authors = []string{}
	}

	path, err := env.Store.WriteJSON(store.Artifact{
		Category:   store.Papers,
		Sub:        store.Notifications,
		Time:       now,
		Identifier: ident,
		Suffix:     "Analyzed.json",
	}, types.PaperNotification{
		Timestamp:  now.UTC(),
		PaperTitle: title,
		Authors:    authors,
		Journal:    md.Journal,
		Year:       md.Year,
		Summary:    summary,
		Event:      types.EventPaperAnalyzed,
	})
	if err != nil {
		return fmt.Errorf("writing notification log: %w", err)
	}

	entry := types.PaperIndexEntry{
		ID:        store.NewEntryID(now),
		Timestamp: now.UTC(),
		Title:     md.Title,
		Authors:   md.Authors,
		Journal:   md.Journal,
		Year:      md.Year,
		DOI:       md.DOI,
		ArxivID:   md.ArxivID,
		Relevance: md.RelevanceToLab,
		Artifact:  path,
	}
	if err := env.Store.AppendIndex(store.Papers, store.PaperIndex, entry); err != nil {
		env.logger().Warn("paper index not updated", zap.Error(err))
	}

	env.notify(ctx, paperVoiceMessage(md))

	lines := []string{"Title: " + title}
	if len(md.Authors) > 0 {
		lines = append(lines, "Authors: "+shortAuthors(md.Authors))
	}
	if md.Journal != "" {
		year := "n/a"
		if md.Year > 0 {
			year = strconv.Itoa(md.Year)
		}
		lines = append(lines, fmt.Sprintf("Journal: %s (%s)", md.Journal, year))
	}
	if md.DOI != "" {
		lines = append(lines, "DOI: "+md.DOI)
	}
	if md.ArxivID != "" {
		lines = append(lines, "arXiv: "+md.ArxivID)
	}
	lines = append(lines, "", "Summary:", strings.TrimRight(summary, "\n"), "",
		"Added to paper index", "   "+path)
	banner(env.out(), "PAPER ANALYSIS COMPLETE", lines)

	fmt.Fprintln(env.out(), "Suggested next steps:")
	fmt.Fprintln(env.out(), "   - Search for related papers with labkit paper search")
	fmt.Fprintln(env.out(), "   - Compare to other studies with labkit paper compare")
	return nil
}

// PaperSummary lists the key findings and lab relevance, or a generic line
// when neither was found.
func PaperSummary(md types.PaperMetadata) string {
	var b strings.Builder
	if len(md.KeyFindings) > 0 {
		b.WriteString("Key findings:\n")
		for i, f := range md.KeyFindings {
			fmt.Fprintf(&b, "   %d. %s\n", i+1, f)
		}
	}
	if md.RelevanceToLab != "" {
		fmt.Fprintf(&b, "\n   Relevance to lab: %s\n", md.RelevanceToLab)
	}
	if b.Len() == 0 {
		return "   Paper analysis completed. Review full report in History/Papers/\n"
	}
	return b.String()
}

// paperVoiceMessage names the first author's surname (the text before any
// comma) and the year.
func paperVoiceMessage(md types.PaperMetadata) string {
	who := "paper"
	if len(md.Authors) > 0 {
		if first := strings.TrimSpace(strings.Split(md.Authors[0], ",")[0]); first != "" {
			who = first
		}
	}
	msg := "Paper analysis complete for " + who
	if md.Year > 0 {
		msg += " " + strconv.Itoa(md.Year)
	}
	return msg
}

func shortAuthors(authors []string) string {
	if len(authors) <= 3 {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:3], ", ") + " et al."
}
