// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package experiment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// MaxAnalyzedRows is how many data rows the stub analysis reads.
const MaxAnalyzedRows = 10

// ErrTooFewRows is returned for a CSV without a header and at least one data row.
var ErrTooFewRows = errors.New("CSV file must have at least a header row and one data row")

// SummarizeCSV computes mean and population standard deviation for every
// column with at least one numeric cell among the first MaxAnalyzedRows data
// rows. Cells that do not parse as numbers are skipped. Columns keep header
// order.
func SummarizeCSV(r io.Reader) (types.AnalysisReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var records [][]string
	for len(records) < MaxAnalyzedRows+1 {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.AnalysisReport{}, fmt.Errorf("parsing CSV: %w", err)
		}
		if blank(rec) {
			continue
		}
		records = append(records, rec)
	}
	if len(records) < 2 {
		return types.AnalysisReport{}, ErrTooFewRows
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	rows := records[1:]

	report := types.AnalysisReport{
		RowsAnalyzed: len(rows),
		Columns:      header,
	}
	for col, name := range header {
		var values []float64
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil || math.IsNaN(v) {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}
		mean, std := meanStdDev(values)
		report.Results = append(report.Results, types.ColumnStats{
			ColumnName: name,
			Mean:       mean,
			StdDev:     std,
			Count:      len(values),
		})
	}
	return report, nil
}

// meanStdDev returns the mean and population standard deviation of values,
// which must be non-empty.
func meanStdDev(values []float64) (mean, std float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(values)))
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
