package netbench

//
// CSV result store
//

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ResultsFileName is the name of the per-iteration results file.
const ResultsFileName = "test_results.csv"

// SummaryFileName is the name of the summary statistics file.
const SummaryFileName = "summary_statistics.csv"

// summaryHeader is the header of the summary statistics file.
var summaryHeader = []string{"Metric", "Mean", "Median", "StdDev", "Min", "Max"}

// CSVResultStore implements [ResultStore] using CSV files inside Dir. Each
// save rewrites the whole file through a temporary file and a rename, hence a
// crash while saving leaves the previously saved file intact.
type CSVResultStore struct {
	// Dir is the MANDATORY directory containing the files.
	Dir string
}

var _ ResultStore = &CSVResultStore{}

// SaveResults implements ResultStore
func (s *CSVResultStore) SaveResults(run *RunResult) error {
	rows := [][]string{resultsHeader(run.Schema())}
	for _, record := range run.Records() {
		rows = append(rows, recordRow(record))
	}
	return s.replace(ResultsFileName, rows)
}

// SaveSummary implements ResultStore
func (s *CSVResultStore) SaveSummary(summary Summary) error {
	rows := [][]string{summaryHeader}
	for _, entry := range summary {
		rows = append(rows, []string{
			entry.Metric,
			formatFloat(entry.Mean),
			formatFloat(entry.Median),
			formatFloat(entry.StdDev),
			formatFloat(entry.Min),
			formatFloat(entry.Max),
		})
	}
	return s.replace(SummaryFileName, rows)
}

// replace atomically replaces the content of the given file with rows.
func (s *CSVResultStore) replace(name string, rows [][]string) error {
	filep, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer os.Remove(filep.Name()) // fails with ENOENT after the rename

	writer := csv.NewWriter(filep)
	if err := writer.WriteAll(rows); err != nil {
		filep.Close()
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := filep.Sync(); err != nil {
		filep.Close()
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := filep.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := os.Rename(filep.Name(), filepath.Join(s.Dir, name)); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// resultsHeader returns the header of the results file.
func resultsHeader(schema []string) []string {
	return append([]string{ColumnIteration, ColumnTimestamp, ColumnProtocol}, schema...)
}

// recordRow serializes a record. Absent samples become empty cells.
func recordRow(record *IterationRecord) []string {
	row := []string{
		strconv.Itoa(record.Index),
		record.Timestamp.Format(time.RFC3339Nano),
		record.Protocol,
	}
	for _, sample := range record.Samples() {
		value, good := sample.Float()
		if !good {
			row = append(row, "")
			continue
		}
		row = append(row, formatFloat(value))
	}
	return row
}

// formatFloat formats a float without exponent using the shortest
// representation that parses back to the same value.
func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// errMalformedResults indicates that a results file cannot be parsed.
var errMalformedResults = errors.New("netbench: malformed results file")

// LoadResults reads a results file written by [CSVResultStore]. Empty
// cells become absent samples.
func LoadResults(filename string) (*RunResult, error) {
	filep, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer filep.Close()
	return readResults(filep)
}

// readResults is the workhorse of LoadResults.
func readResults(r io.Reader) (*RunResult, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) <= 0 {
		return nil, fmt.Errorf("%w: missing header", errMalformedResults)
	}
	header := rows[0]
	const fixed = 3
	if len(header) < fixed || header[0] != ColumnIteration ||
		header[1] != ColumnTimestamp || header[2] != ColumnProtocol {
		return nil, fmt.Errorf("%w: unexpected header %v", errMalformedResults, header)
	}
	run := &RunResult{}
	for _, row := range rows[1:] {
		index, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: iteration: %w", errMalformedResults, err)
		}
		timestamp, err := time.Parse(time.RFC3339Nano, row[1])
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp: %w", errMalformedResults, err)
		}
		samples := Samples{}
		for idx, name := range header[fixed:] {
			cell := row[fixed+idx]
			if cell == "" {
				samples = append(samples, AbsentSample(name))
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", errMalformedResults, name, err)
			}
			samples = append(samples, NewSample(name, value))
		}
		record := NewIterationRecord(index, timestamp, row[2])
		if err := record.Merge("", samples); err != nil {
			return nil, err
		}
		if err := run.Append(record); err != nil {
			return nil, err
		}
	}
	return run, nil
}
