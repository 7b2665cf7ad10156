// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	PMID           string    `yaml:"PMID,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes items as a CSL-YAML list to w.
func WriteCSL(items []CSLItem, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(items)
}

// FormatPapers writes search results as a CSL-YAML list to w.
func FormatPapers(papers []types.Paper, w io.Writer) error {
	items := make([]CSLItem, len(papers))
	for i, p := range papers {
		items[i] = FromPaper(p)
	}
	return WriteCSL(items, w)
}

// FromPaper converts a search result to a CSL item. The id prefers the
// PMID, then the arXiv id, then the DOI.
func FromPaper(p types.Paper) CSLItem {
	item := CSLItem{
		ID:             paperID(p),
		Type:           "article",
		Title:          p.Title,
		ContainerTitle: p.Journal,
		Abstract:       p.Abstract,
		DOI:            p.DOI,
		PMID:           p.PMID,
		URL:            p.URL,
	}
	if p.Journal != "" {
		item.Type = "article-journal"
	}
	for _, a := range p.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if p.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{p.Year}}}
	}
	return item
}

// FromCitation converts esummary citation metadata to a CSL item.
// PubMed author names are "Family Initials".
func FromCitation(c types.Citation) CSLItem {
	item := CSLItem{
		ID:             "pmid:" + c.PMID,
		Type:           "article-journal",
		Title:          c.Title,
		ContainerTitle: c.Journal,
		PMID:           c.PMID,
	}
	for _, a := range c.Authors {
		item.Author = append(item.Author, parsePubMedName(a))
	}
	if y, err := strconv.Atoi(c.Year); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

func paperID(p types.Paper) string {
	switch {
	case p.PMID != "":
		return "pmid:" + p.PMID
	case p.ArxivID != "":
		return "arxiv:" + p.ArxivID
	case p.DOI != "":
		return "doi:" + p.DOI
	}
	return ""
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field. "Family, Given"
// is honored when a comma is present.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}

// parsePubMedName splits "Smith JA" into family "Smith" and given "JA".
func parsePubMedName(name string) CSLName {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{Family: name[:idx], Given: name[idx+1:]}
}
