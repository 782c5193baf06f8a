package netbench

//
// Iteration records and run results
//

import (
	"fmt"
	"time"
)

// Names of the fixed, non-numeric columns of an [IterationRecord].
const (
	ColumnIteration = "iteration"
	ColumnTimestamp = "timestamp"
	ColumnProtocol  = "protocol"
)

// isReservedName returns whether name clashes with a fixed column.
func isReservedName(name string) bool {
	switch name {
	case ColumnIteration, ColumnTimestamp, ColumnProtocol:
		return true
	default:
		return false
	}
}

// IterationRecord contains all the measurements collected during a
// single iteration. The zero value is invalid; please, use
// [NewIterationRecord] to construct.
type IterationRecord struct {
	// Index is the 1-based iteration index.
	Index int

	// Timestamp is when the iteration started.
	Timestamp time.Time

	// Protocol identifies the configuration under test.
	Protocol string

	// samples contains the samples in insertion order.
	samples Samples

	// names maps a sample name to its index inside samples.
	names map[string]int
}

// NewIterationRecord creates a new, empty [IterationRecord].
func NewIterationRecord(index int, timestamp time.Time, protocol string) *IterationRecord {
	return &IterationRecord{
		Index:     index,
		Timestamp: timestamp,
		Protocol:  protocol,
		samples:   Samples{},
		names:     map[string]int{},
	}
}

// Merge adds the given samples to the record, prepending prefix to each
// name. This method fails with [ErrDuplicateMetric] if a name already
// exists or clashes with a fixed column; in such a case, the record
// is not modified.
func (r *IterationRecord) Merge(prefix string, samples Samples) error {
	incoming := samples.WithPrefix(prefix)
	seen := map[string]bool{}
	for _, s := range incoming {
		if _, found := r.names[s.Name]; found || seen[s.Name] || isReservedName(s.Name) {
			return fmt.Errorf("%w: %s", ErrDuplicateMetric, s.Name)
		}
		seen[s.Name] = true
	}
	for _, s := range incoming {
		r.names[s.Name] = len(r.samples)
		r.samples = append(r.samples, s)
	}
	return nil
}

// Samples returns a copy of the samples in insertion order.
func (r *IterationRecord) Samples() Samples {
	return append(Samples{}, r.samples...)
}

// Names returns the metric names in insertion order.
func (r *IterationRecord) Names() []string {
	return r.samples.Names()
}

// Lookup returns the sample with the given name.
func (r *IterationRecord) Lookup(name string) (MetricSample, bool) {
	idx, found := r.names[name]
	if !found {
		return MetricSample{}, false
	}
	return r.samples[idx], true
}

// RunResult contains the records of all the completed iterations, in
// execution order. The zero value is ready to use.
type RunResult struct {
	// records contains the records.
	records []*IterationRecord

	// schema contains the metric names of the first record.
	schema []string
}

// Append appends a record. The first record defines the schema of the
// run; this method fails with [ErrSchemaMismatch] when a subsequent
// record does not have exactly the same metric names in the same order.
func (rr *RunResult) Append(record *IterationRecord) error {
	names := record.Names()
	if len(rr.records) <= 0 {
		rr.schema = names
		rr.records = append(rr.records, record)
		return nil
	}
	if len(names) != len(rr.schema) {
		return fmt.Errorf("%w: iteration %d has %d metrics, expected %d",
			ErrSchemaMismatch, record.Index, len(names), len(rr.schema))
	}
	for idx, name := range names {
		if name != rr.schema[idx] {
			return fmt.Errorf("%w: iteration %d has metric %s in place of %s",
				ErrSchemaMismatch, record.Index, name, rr.schema[idx])
		}
	}
	rr.records = append(rr.records, record)
	return nil
}

// Records returns the records in execution order.
func (rr *RunResult) Records() []*IterationRecord {
	return append([]*IterationRecord{}, rr.records...)
}

// Schema returns the metric names shared by all the records.
func (rr *RunResult) Schema() []string {
	return append([]string{}, rr.schema...)
}

// Len returns the number of records.
func (rr *RunResult) Len() int {
	return len(rr.records)
}
