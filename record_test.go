package netbench

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestIterationRecord(t *testing.T) {
	ts := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	t.Run("merge preserves order and applies the prefix", func(t *testing.T) {
		record := NewIterationRecord(1, ts, "wireguard")
		if err := record.Merge("", Samples{NewSample(MetricLatency, 10)}); err != nil {
			t.Fatal(err)
		}
		if err := record.Merge(MixedPrefix, Samples{NewSample(MetricLatency, 20), AbsentSample(MetricJitter)}); err != nil {
			t.Fatal(err)
		}
		expect := []string{MetricLatency, "mixed_latency", "mixed_jitter"}
		if diff := cmp.Diff(expect, record.Names()); diff != "" {
			t.Fatal(diff)
		}
		sample, found := record.Lookup("mixed_latency")
		if !found {
			t.Fatal("expected to find mixed_latency")
		}
		if value, good := sample.Float(); !good || value != 20 {
			t.Fatal("unexpected sample", sample)
		}
		sample, found = record.Lookup("mixed_jitter")
		if !found || !sample.Absent() {
			t.Fatal("expected an absent mixed_jitter")
		}
		if _, found := record.Lookup("adverse_latency"); found {
			t.Fatal("did not expect to find adverse_latency")
		}
	})

	t.Run("merge rejects duplicates without modifying the record", func(t *testing.T) {
		record := NewIterationRecord(1, ts, "wireguard")
		if err := record.Merge("", Samples{NewSample(MetricLatency, 10)}); err != nil {
			t.Fatal(err)
		}
		err := record.Merge("", Samples{NewSample(MetricJitter, 1), NewSample(MetricLatency, 11)})
		if !errors.Is(err, ErrDuplicateMetric) {
			t.Fatal("unexpected error", err)
		}
		if diff := cmp.Diff([]string{MetricLatency}, record.Names()); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("merge rejects duplicates within the same batch", func(t *testing.T) {
		record := NewIterationRecord(1, ts, "wireguard")
		err := record.Merge("", Samples{NewSample(MetricJitter, 1), NewSample(MetricJitter, 2)})
		if !errors.Is(err, ErrDuplicateMetric) {
			t.Fatal("unexpected error", err)
		}
		if len(record.Names()) != 0 {
			t.Fatal("expected an empty record")
		}
	})

	t.Run("merge rejects the fixed column names", func(t *testing.T) {
		record := NewIterationRecord(1, ts, "wireguard")
		for _, name := range []string{ColumnIteration, ColumnTimestamp, ColumnProtocol} {
			if err := record.Merge("", Samples{NewSample(name, 1)}); !errors.Is(err, ErrDuplicateMetric) {
				t.Fatal("unexpected error", err)
			}
		}
	})

	t.Run("samples returns a copy", func(t *testing.T) {
		record := NewIterationRecord(1, ts, "wireguard")
		if err := record.Merge("", Samples{NewSample(MetricLatency, 10)}); err != nil {
			t.Fatal(err)
		}
		samples := record.Samples()
		samples[0] = NewSample("other", 1)
		if diff := cmp.Diff([]string{MetricLatency}, record.Names()); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestRunResult(t *testing.T) {
	ts := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	newRecord := func(index int, names ...string) *IterationRecord {
		record := NewIterationRecord(index, ts, "wireguard")
		if err := record.Merge("", absentSamples(names...)); err != nil {
			t.Fatal(err)
		}
		return record
	}

	t.Run("the zero value is ready to use", func(t *testing.T) {
		run := &RunResult{}
		if run.Len() != 0 || len(run.Records()) != 0 || len(run.Schema()) != 0 {
			t.Fatal("expected an empty run")
		}
	})

	t.Run("the first record defines the schema", func(t *testing.T) {
		run := &RunResult{}
		if err := run.Append(newRecord(1, MetricLatency, MetricJitter)); err != nil {
			t.Fatal(err)
		}
		if err := run.Append(newRecord(2, MetricLatency, MetricJitter)); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{MetricLatency, MetricJitter}, run.Schema()); diff != "" {
			t.Fatal(diff)
		}
		if run.Len() != 2 {
			t.Fatal("unexpected length", run.Len())
		}
	})

	t.Run("we reject a record with different names", func(t *testing.T) {

		// testcase describes a test case for [RunResult.Append]
		type testcase struct {
			name  string
			names []string
		}

		var testcases = []testcase{{
			name:  "with fewer names",
			names: []string{MetricLatency},
		}, {
			name:  "with more names",
			names: []string{MetricLatency, MetricJitter, MetricCPUUsage},
		}, {
			name:  "with a different order",
			names: []string{MetricJitter, MetricLatency},
		}, {
			name:  "with a different name",
			names: []string{MetricLatency, MetricCPUUsage},
		}}

		for _, tc := range testcases {
			t.Run(tc.name, func(t *testing.T) {
				run := &RunResult{}
				if err := run.Append(newRecord(1, MetricLatency, MetricJitter)); err != nil {
					t.Fatal(err)
				}
				if err := run.Append(newRecord(2, tc.names...)); !errors.Is(err, ErrSchemaMismatch) {
					t.Fatal("unexpected error", err)
				}
				if run.Len() != 1 {
					t.Fatal("expected the record not to be appended")
				}
			})
		}
	})
}
