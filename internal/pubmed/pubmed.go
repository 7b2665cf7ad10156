// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed is a small client for the NCBI E-utilities endpoints used
// by the literature tools: esearch, esummary (XML and JSON), and efetch.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/httputil"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// eutilsBase is the default E-utilities root. Declared as a var so tests can
// substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// toolName identifies this client to NCBI.
const toolName = "labkit"

// Client calls E-utilities for the pubmed database.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	NCBI      types.NCBIConfig
}

// NewClient returns a Client using the shared HTTP settings.
func NewClient(cfg types.HTTPConfig, ncbi types.NCBIConfig) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		BaseURL:   eutilsBase,
		UserAgent: cfg.UserAgent,
		NCBI:      ncbi,
	}
}

// PaperURL returns the PubMed landing page for pmid.
func PaperURL(pmid string) string {
	return "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/"
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("db", "pubmed")
	params.Set("tool", toolName)
	if c.NCBI.Email != "" {
		params.Set("email", c.NCBI.Email)
	}
	if c.NCBI.APIKey != "" {
		params.Set("api_key", c.NCBI.APIKey)
	}
	base := c.BaseURL
	if base == "" {
		base = eutilsBase
	}
	u := fmt.Sprintf("%s/%s.fcgi?%s", base, endpoint, params.Encode())
	body, err := httputil.Get(ctx, c.HTTP, u, c.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("PubMed %s: %w", endpoint, err)
	}
	return body, nil
}

// SearchTerm builds an esearch term with an optional publication-year range.
// A zero bound is open; when only one bound is set the other defaults to
// 1900 or currentYear.
func SearchTerm(query string, yearFrom, yearTo, currentYear int) string {
	if yearFrom == 0 && yearTo == 0 {
		return query
	}
	if yearFrom == 0 {
		yearFrom = 1900
	}
	if yearTo == 0 {
		yearTo = currentYear
	}
	return fmt.Sprintf("%s AND %d:%d[pdat]", query, yearFrom, yearTo)
}

type esearchResult struct {
	IDs []string `xml:"IdList>Id"`
}

// Search runs esearch and returns up to retmax PMIDs in relevance order.
func (c *Client) Search(ctx context.Context, term string, retmax int) ([]string, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "esearch", params)
	if err != nil {
		return nil, err
	}
	var res esearchResult
	if err := xml.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return res.IDs, nil
}

type esummaryResult struct {
	Docs []docSum `xml:"DocSum"`
}

type docSum struct {
	ID    string        `xml:"Id"`
	Items []summaryItem `xml:"Item"`
}

type summaryItem struct {
	Name  string        `xml:"Name,attr"`
	Value string        `xml:",chardata"`
	Items []summaryItem `xml:"Item"`
}

func (d docSum) item(name string) (summaryItem, bool) {
	for _, it := range d.Items {
		if it.Name == name {
			return it, true
		}
	}
	return summaryItem{}, false
}

func (d docSum) value(name string) string {
	it, _ := d.item(name)
	return strings.TrimSpace(it.Value)
}

// Summaries runs esummary (XML) for ids and returns one paper per DocSum,
// in response order.
func (c *Client) Summaries(ctx context.Context, ids []string) ([]types.Paper, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	params := url.Values{}
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "esummary", params)
	if err != nil {
		return nil, err
	}
	var res esummaryResult
	if err := xml.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing esummary response: %w", err)
	}

	papers := make([]types.Paper, 0, len(res.Docs))
	for _, d := range res.Docs {
		pmid := strings.TrimSpace(d.ID)
		p := types.Paper{
			PMID:    pmid,
			Title:   orDefault(d.value("Title"), "No title available"),
			Year:    leadingYear(d.value("PubDate")),
			Journal: orDefault(d.value("FullJournalName"), d.value("Source")),
			DOI:     d.value("DOI"),
			URL:     PaperURL(pmid),
			Source:  "PubMed",
		}
		if list, ok := d.item("AuthorList"); ok {
			for _, a := range list.Items {
				if name := strings.TrimSpace(a.Value); name != "" {
					p.Authors = append(p.Authors, name)
				}
			}
		}
		papers = append(papers, p)
	}
	return papers, nil
}

type jsonSummary struct {
	Title           string `json:"title"`
	PubDate         string `json:"pubdate"`
	Source          string `json:"source"`
	FullJournalName string `json:"fulljournalname"`
	Authors         []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// Citation runs esummary (JSON) for one PMID and returns the fields needed
// to format a reference. Missing values fall back to "Unknown ..." text.
func (c *Client) Citation(ctx context.Context, pmid string) (types.Citation, error) {
	params := url.Values{}
	params.Set("id", pmid)
	params.Set("retmode", "json")

	body, err := c.get(ctx, "esummary", params)
	if err != nil {
		return types.Citation{}, err
	}
	var envelope struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return types.Citation{}, fmt.Errorf("parsing esummary response: %w", err)
	}
	raw, ok := envelope.Result[pmid]
	if !ok {
		return types.Citation{}, fmt.Errorf("no data found for PMID %s", pmid)
	}
	var s jsonSummary
	if err := json.Unmarshal(raw, &s); err != nil {
		return types.Citation{}, fmt.Errorf("parsing summary for PMID %s: %w", pmid, err)
	}

	cit := types.Citation{
		PMID:    pmid,
		Title:   orDefault(s.Title, "Unknown title"),
		Journal: orDefault(orDefault(s.FullJournalName, s.Source), "Unknown journal"),
		Year:    "Unknown year",
	}
	if f := strings.Fields(s.PubDate); len(f) > 0 {
		cit.Year = f[0]
	}
	for _, a := range s.Authors {
		if a.Name != "" {
			cit.Authors = append(cit.Authors, a.Name)
		}
	}
	return cit, nil
}

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID    string `xml:"MedlineCitation>PMID"`
	Article struct {
		Journal struct {
			Title   string `xml:"Title"`
			PubDate struct {
				Year        string `xml:"Year"`
				MedlineDate string `xml:"MedlineDate"`
			} `xml:"JournalIssue>PubDate"`
		} `xml:"Journal"`
		Title    innerText   `xml:"ArticleTitle"`
		Abstract []innerText `xml:"Abstract>AbstractText"`
		Authors  []struct {
			LastName       string `xml:"LastName"`
			ForeName       string `xml:"ForeName"`
			CollectiveName string `xml:"CollectiveName"`
		} `xml:"AuthorList>Author"`
	} `xml:"MedlineCitation>Article"`
	ArticleIDs []struct {
		Type  string `xml:"IdType,attr"`
		Value string `xml:",chardata"`
	} `xml:"PubmedData>ArticleIdList>ArticleId"`
}

// innerText captures an element's raw content, which may contain inline
// markup such as <i> or <sup>.
type innerText struct {
	Raw string `xml:",innerxml"`
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

func (t innerText) String() string {
	s := tagRe.ReplaceAllString(t.Raw, "")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

// Fetch runs efetch for one PMID and returns the full record including the
// abstract.
func (c *Client) Fetch(ctx context.Context, pmid string) (types.Paper, error) {
	params := url.Values{}
	params.Set("id", pmid)
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "efetch", params)
	if err != nil {
		return types.Paper{}, err
	}
	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return types.Paper{}, fmt.Errorf("parsing efetch response: %w", err)
	}
	if len(set.Articles) == 0 {
		return types.Paper{}, fmt.Errorf("no PubMed record for PMID %s", pmid)
	}

	a := set.Articles[0]
	p := types.Paper{
		PMID:    pmid,
		Title:   a.Article.Title.String(),
		Journal: strings.TrimSpace(a.Article.Journal.Title),
		URL:     PaperURL(pmid),
		Source:  "PubMed",
	}
	date := a.Article.Journal.PubDate
	p.Year = leadingYear(orDefault(date.Year, date.MedlineDate))

	var abstract []string
	for _, part := range a.Article.Abstract {
		if s := part.String(); s != "" {
			abstract = append(abstract, s)
		}
	}
	p.Abstract = strings.Join(abstract, "\n\n")

	for _, au := range a.Article.Authors {
		name := strings.TrimSpace(au.LastName + " " + au.ForeName)
		if name == "" {
			name = strings.TrimSpace(au.CollectiveName)
		}
		if name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	for _, id := range a.ArticleIDs {
		if id.Type == "doi" {
			p.DOI = strings.TrimSpace(id.Value)
			break
		}
	}
	return p, nil
}

// leadingYear parses the first four characters of a PubMed date ("2023 Jan 5").
func leadingYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0
	}
	return y
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}
