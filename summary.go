package netbench

//
// Summary statistics
//

import "github.com/montanaflynn/stats"

// SummaryStatistic summarizes the non-absent samples of a metric.
type SummaryStatistic struct {
	// Metric is the metric name.
	Metric string

	// Count is the number of non-absent samples.
	Count int

	// Mean is the arithmetic mean.
	Mean float64

	// Median is the median.
	Median float64

	// StdDev is the sample standard deviation, or zero when
	// we have fewer than two samples.
	StdDev float64

	// Min is the minimum.
	Min float64

	// Max is the maximum.
	Max float64
}

// Summary contains a [SummaryStatistic] for each metric with
// at least one non-absent sample, in schema order.
type Summary []SummaryStatistic

// Lookup returns the statistic for the given metric.
func (s Summary) Lookup(metric string) (SummaryStatistic, bool) {
	for _, entry := range s {
		if entry.Metric == metric {
			return entry, true
		}
	}
	return SummaryStatistic{}, false
}

// Summarize computes summary statistics for each metric in the schema of
// the given [RunResult]. The fixed columns are not metrics and are not
// summarized. Metrics whose samples are all absent are omitted.
func Summarize(run *RunResult) (Summary, error) {
	out := Summary{}
	records := run.Records()
	for _, metric := range run.Schema() {
		var values []float64
		for _, record := range records {
			sample, found := record.Lookup(metric)
			if !found {
				continue
			}
			if value, good := sample.Float(); good {
				values = append(values, value)
			}
		}
		if len(values) <= 0 {
			continue
		}
		entry, err := summarizeValues(metric, values)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// summarizeValues computes the statistics of a non-empty list of values.
func summarizeValues(metric string, values []float64) (SummaryStatistic, error) {
	entry := SummaryStatistic{Metric: metric, Count: len(values)}
	var err error
	if entry.Mean, err = stats.Mean(values); err != nil {
		return SummaryStatistic{}, err
	}
	if entry.Median, err = stats.Median(values); err != nil {
		return SummaryStatistic{}, err
	}
	if entry.Min, err = stats.Min(values); err != nil {
		return SummaryStatistic{}, err
	}
	if entry.Max, err = stats.Max(values); err != nil {
		return SummaryStatistic{}, err
	}
	if len(values) >= 2 {
		if entry.StdDev, err = stats.StandardDeviationSample(values); err != nil {
			return SummaryStatistic{}, err
		}
	}
	return entry, nil
}
