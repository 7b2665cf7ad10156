// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/citation"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/literature"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/search"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

var paperCmd = &cobra.Command{
	Use:   "paper",
	Short: "Search, analyze, compare, and cite papers",
}

var paperSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search PubMed and arXiv for papers",
	Long: `Search queries each database in turn (default pubmed,arxiv), merges and
deduplicates the results, ranks them by relevance then year, and writes a
results document under History/Research/<YYYY-MM>.

A database that fails or is not supported contributes no papers and a
warning on stderr; the search still succeeds.

--save writes the query and its results to a YAML file. --load re-renders a
saved query file without contacting any database.`,
	RunE: runPaperSearch,
}

var paperAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetch a PubMed record and save its metadata",
	Long: `Analyze fetches the full PubMed record for a PMID, writes a metadata
document under History/Papers/<YYYY-MM>, and appends the paper to
History/Papers/paper_index.jsonl.`,
	RunE: tool(runPaperAnalyze),
}

var paperCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare 2-3 saved papers side by side",
	Long: `Compare loads the most recent saved file (.json, .yaml, or .md) for each
PMID under History/Papers and writes a comparison table under
History/Research/<YYYY-MM>.`,
	RunE: tool(runPaperCompare),
}

var paperCiteCmd = &cobra.Command{
	Use:   "cite",
	Short: "Generate a citation for a PubMed paper",
	Long: `Cite fetches PubMed summary metadata for a PMID and prints a citation.
Styles: nature (default) and csl (CSL-YAML). Other styles fall back to
nature with a warning.`,
	RunE: tool(runPaperCite),
}

func init() {
	f := paperSearchCmd.Flags()
	f.StringP("query", "q", "", "search query")
	f.String("databases", strings.Join(search.DefaultDatabases, ","), "databases to query, comma separated")
	f.Int("year-from", 0, "earliest publication year")
	f.Int("year-to", 0, "latest publication year")
	f.Int("max-results", search.DefaultMaxResults, "maximum number of results across all databases")
	f.String("study-type", "", "study type filter (e.g. review)")
	f.String("output", "", "directory for the results document (default History/Research/<YYYY-MM>)")
	f.Bool("json", false, "print the results as JSON instead of the summary")
	f.String("format", "", "print the results as table or csl")
	f.String("save", "", "save the query and results to a YAML file")
	f.String("load", "", "re-render a saved YAML query file")

	paperAnalyzeCmd.Flags().StringP("pmid", "p", "", "PubMed ID")
	_ = paperAnalyzeCmd.MarkFlagRequired("pmid")

	paperCompareCmd.Flags().StringSliceP("papers", "p", nil, "2-3 PMIDs (comma separated)")
	_ = paperCompareCmd.MarkFlagRequired("papers")

	paperCiteCmd.Flags().StringP("pmid", "p", "", "PubMed ID")
	paperCiteCmd.Flags().String("style", citation.StyleNature, "citation style: nature or csl")
	_ = paperCiteCmd.MarkFlagRequired("pmid")

	paperCmd.AddCommand(paperSearchCmd, paperAnalyzeCmd, paperCompareCmd, paperCiteCmd)
	rootCmd.AddCommand(paperCmd)
}

// literatureService wires the paper tools. Progress lines and per-database
// warnings go to stderr so stdout carries only the result.
func literatureService() (*literature.Service, error) {
	cfg, err := labConfig()
	if err != nil {
		return nil, err
	}
	return literature.New(cfg, logger, os.Stderr), nil
}

func runPaperSearch(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	query, _ := f.GetString("query")
	databases, _ := f.GetString("databases")
	yearFrom, _ := f.GetInt("year-from")
	yearTo, _ := f.GetInt("year-to")
	maxResults, _ := f.GetInt("max-results")
	studyType, _ := f.GetString("study-type")
	output, _ := f.GetString("output")
	asJSON, _ := f.GetBool("json")
	format, _ := f.GetString("format")
	save, _ := f.GetString("save")
	load, _ := f.GetString("load")

	switch format {
	case "", "table", "csl":
	default:
		return fmt.Errorf("unknown format %q: expected table or csl", format)
	}
	if query == "" && load == "" {
		return fmt.Errorf(`required flag(s) "query" not set`)
	}
	cmd.SilenceUsage = true

	svc, err := literatureService()
	if err != nil {
		return err
	}

	opts := literature.SearchOptions{
		Config: types.SearchConfig{
			Databases:  search.ParseDatabases(databases),
			MaxResults: maxResults,
			YearFrom:   yearFrom,
			YearTo:     yearTo,
			StudyType:  studyType,
		},
		OutputDir: output,
		SavePath:  save,
	}

	var res literature.SearchResult
	if load != "" {
		res, err = svc.Rerender(load, opts)
	} else {
		res, err = svc.Search(cmd.Context(), query, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		return search.FormatJSON(res.Report, out)
	case format == "table":
		search.FormatTable(res.Report, out)
		return nil
	case format == "csl":
		return citation.FormatPapers(res.Report.Papers, out)
	}
	return printJSON(out, res)
}

func runPaperAnalyze(cmd *cobra.Command, args []string) error {
	pmid, _ := cmd.Flags().GetString("pmid")

	svc, err := literatureService()
	if err != nil {
		return err
	}
	res, err := svc.AnalyzePaper(cmd.Context(), pmid)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func runPaperCompare(cmd *cobra.Command, args []string) error {
	pmids, _ := cmd.Flags().GetStringSlice("papers")

	svc, err := literatureService()
	if err != nil {
		return err
	}
	res, err := svc.ComparePapers(pmids)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func runPaperCite(cmd *cobra.Command, args []string) error {
	pmid, _ := cmd.Flags().GetString("pmid")
	style, _ := cmd.Flags().GetString("style")

	svc, err := literatureService()
	if err != nil {
		return err
	}
	res, err := svc.Cite(cmd.Context(), pmid, style)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
