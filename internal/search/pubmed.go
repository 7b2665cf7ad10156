// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"time"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/pubmed"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// PubMedBackend runs esearch followed by esummary.
type PubMedBackend struct {
	Client *pubmed.Client

	// Now supplies the current year for open-ended year ranges.
	Now func() time.Time
}

// Name returns the database name.
func (b *PubMedBackend) Name() string { return "pubmed" }

// Search returns up to limit papers in PubMed relevance order. A study type,
// when set, is applied as a publication-type filter.
func (b *PubMedBackend) Search(ctx context.Context, query string, cfg types.SearchConfig, limit int) ([]types.Paper, error) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	term := pubmed.SearchTerm(query, cfg.YearFrom, cfg.YearTo, now().Year())
	if cfg.StudyType != "" {
		term += " AND " + cfg.StudyType + "[pt]"
	}

	ids, err := b.Client.Search(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	papers, err := b.Client.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range papers {
		papers[i].RelevanceScore = positionScore(i, len(papers))
	}
	return papers, nil
}
