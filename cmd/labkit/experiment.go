// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/experiment"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Log, analyze, and compare experiments",
}

var experimentLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record an experiment log under History/Experiments",
	Long: `Log writes a markdown experiment log under History/Experiments/<YYYY-MM>
and appends an entry to History/Experiments/experiment_index.jsonl.

Every section is rendered; sections without a value show a placeholder.`,
	RunE: tool(runExperimentLog),
}

var experimentAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize a CSV data file for an experiment",
	Long: `Analyze computes the mean and population standard deviation of every
numeric column over the first 10 rows of a CSV file and writes the report
under History/DataAnalyses/<YYYY-MM>. This is a stub analysis.`,
	RunE: tool(runExperimentAnalyze),
}

var experimentCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the hypotheses and results of 2-3 logged experiments",
	Long: `Compare loads the latest log of each experiment from History/Experiments
and writes a side-by-side table under History/DataAnalyses/<YYYY-MM>.
Experiments without a log are marked as not found.`,
	RunE: tool(runExperimentCompare),
}

func init() {
	f := experimentLogCmd.Flags()
	f.StringP("id", "i", "", "experiment identifier")
	f.StringP("researcher", "r", "", "researcher name")
	f.String("hypothesis", "", "hypothesis under test")
	f.String("independent-var", "", "independent variable")
	f.String("dependent-var", "", "dependent variable")
	f.String("controls", "", "control conditions")
	f.Int("replicates", 0, "number of replicates")
	f.StringArray("materials", nil, "material used (repeatable)")
	f.String("procedure", "", "procedure description")
	f.StringArray("observations", nil, "observation (repeatable)")
	f.String("data-path", "", "path to the raw data file")
	f.String("analysis-path", "", "path to the analysis output")
	f.String("results-summary", "", "summary of the results")
	f.StringArray("next-steps", nil, "next step (repeatable)")
	_ = experimentLogCmd.MarkFlagRequired("id")
	_ = experimentLogCmd.MarkFlagRequired("researcher")
	_ = experimentLogCmd.MarkFlagRequired("hypothesis")

	experimentAnalyzeCmd.Flags().StringP("data", "d", "", "CSV data file")
	experimentAnalyzeCmd.Flags().StringP("experiment-id", "i", "", "experiment identifier")
	_ = experimentAnalyzeCmd.MarkFlagRequired("data")
	_ = experimentAnalyzeCmd.MarkFlagRequired("experiment-id")

	experimentCompareCmd.Flags().StringSliceP("experiments", "e", nil, "2-3 experiment ids (comma separated)")
	_ = experimentCompareCmd.MarkFlagRequired("experiments")

	experimentCmd.AddCommand(experimentLogCmd, experimentAnalyzeCmd, experimentCompareCmd)
	rootCmd.AddCommand(experimentCmd)
}

func experimentService() (*experiment.Service, error) {
	cfg, err := labConfig()
	if err != nil {
		return nil, err
	}
	return &experiment.Service{Store: newStore(cfg), Logger: logger}, nil
}

func runExperimentLog(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	id, _ := f.GetString("id")
	researcher, _ := f.GetString("researcher")
	hypothesis, _ := f.GetString("hypothesis")
	independent, _ := f.GetString("independent-var")
	dependent, _ := f.GetString("dependent-var")
	controls, _ := f.GetString("controls")
	replicates, _ := f.GetInt("replicates")
	materials, _ := f.GetStringArray("materials")
	procedure, _ := f.GetString("procedure")
	observations, _ := f.GetStringArray("observations")
	dataPath, _ := f.GetString("data-path")
	analysisPath, _ := f.GetString("analysis-path")
	resultsSummary, _ := f.GetString("results-summary")
	nextSteps, _ := f.GetStringArray("next-steps")

	svc, err := experimentService()
	if err != nil {
		return err
	}
	res, err := svc.Log(types.ExperimentLog{
		ID:         id,
		Researcher: researcher,
		Hypothesis: hypothesis,
		Design: types.ExperimentDesign{
			IndependentVariable: independent,
			DependentVariable:   dependent,
			Controls:            controls,
			Replicates:          replicates,
		},
		Materials:      materials,
		Procedure:      procedure,
		Observations:   observations,
		DataPath:       dataPath,
		AnalysisPath:   analysisPath,
		ResultsSummary: resultsSummary,
		NextSteps:      nextSteps,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func runExperimentAnalyze(cmd *cobra.Command, args []string) error {
	dataPath, _ := cmd.Flags().GetString("data")
	id, _ := cmd.Flags().GetString("experiment-id")

	svc, err := experimentService()
	if err != nil {
		return err
	}
	res, err := svc.Analyze(dataPath, id)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func runExperimentCompare(cmd *cobra.Command, args []string) error {
	ids, _ := cmd.Flags().GetStringSlice("experiments")

	svc, err := experimentService()
	if err != nil {
		return err
	}
	res, err := svc.Compare(ids)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
