// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExperimentDesign describes the variables of an experiment. All fields are optional.
type ExperimentDesign struct {
	IndependentVariable string `json:"independentVariable,omitempty" yaml:"independent_variable,omitempty"`
	DependentVariable   string `json:"dependentVariable,omitempty" yaml:"dependent_variable,omitempty"`
	Controls            string `json:"controls,omitempty" yaml:"controls,omitempty"`
	Replicates          int    `json:"replicates,omitempty" yaml:"replicates,omitempty"`
}

// IsEmpty reports whether no design field is set.
func (d ExperimentDesign) IsEmpty() bool {
	return d == ExperimentDesign{}
}

// ExperimentLog is one recorded experiment.
type ExperimentLog struct {
	ID             string           `json:"id" yaml:"id"`
	Date           time.Time        `json:"date" yaml:"date"`
	Researcher     string           `json:"researcher" yaml:"researcher"`
	Hypothesis     string           `json:"hypothesis" yaml:"hypothesis"`
	Design         ExperimentDesign `json:"design" yaml:"design"`
	Materials      []string         `json:"materials,omitempty" yaml:"materials,omitempty"`
	Procedure      string           `json:"procedure,omitempty" yaml:"procedure,omitempty"`
	Observations   []string         `json:"observations,omitempty" yaml:"observations,omitempty"`
	DataPath       string           `json:"dataPath,omitempty" yaml:"data_path,omitempty"`
	AnalysisPath   string           `json:"analysisPath,omitempty" yaml:"analysis_path,omitempty"`
	ResultsSummary string           `json:"resultsSummary,omitempty" yaml:"results_summary,omitempty"`
	NextSteps      []string         `json:"nextSteps,omitempty" yaml:"next_steps,omitempty"`
}

// ColumnStats holds the summary statistics of one numeric CSV column.
type ColumnStats struct {
	ColumnName string  `json:"columnName"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"stdDev"`
	Count      int     `json:"count"`
}

// AnalysisReport is the result of the stub analysis of one data file.
type AnalysisReport struct {
	ExperimentID string        `json:"experimentId"`
	DataPath     string        `json:"dataPath"`
	RowsAnalyzed int           `json:"rowsAnalyzed"`
	Columns      []string      `json:"columns"`
	Results      []ColumnStats `json:"results"`
}

// ExperimentComparison is one column of an experiment comparison document.
type ExperimentComparison struct {
	ID         string `json:"id"`
	Hypothesis string `json:"hypothesis"`
	Results    string `json:"results"`
	Found      bool   `json:"found"`
}

// ExperimentIndexEntry is one line of the experiment index.
type ExperimentIndexEntry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	ExperimentID string    `json:"experimentId"`
	Researcher   string    `json:"researcher"`
	Hypothesis   string    `json:"hypothesis"`
	Artifact     string    `json:"artifact"`
}
