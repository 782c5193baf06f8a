package netbench

//
// Metric samples
//

// Metric names produced by the collectors.
const (
	MetricTCPThroughput = "tcp_throughput"
	MetricUDPThroughput = "udp_throughput"
	MetricLatency       = "latency"
	MetricJitter        = "jitter"
	MetricCPUUsage      = "cpu_usage"
	MetricMemoryUsage   = "memory_usage"
	MetricUploadSpeed   = "upload_speed"
	MetricDownloadSpeed = "download_speed"
)

// MetricSample is a named measurement, which may be absent when the
// measurement was attempted but did not produce a value. An absent
// sample is distinct from a sample whose value is zero.
type MetricSample struct {
	// Name is the metric name.
	Name string

	// ok indicates whether val is meaningful.
	ok bool

	// val is the metric value.
	val float64
}

// NewSample creates a non-absent [MetricSample].
func NewSample(name string, value float64) MetricSample {
	return MetricSample{
		Name: name,
		ok:   true,
		val:  value,
	}
}

// AbsentSample creates an absent [MetricSample].
func AbsentSample(name string) MetricSample {
	return MetricSample{
		Name: name,
		ok:   false,
		val:  0,
	}
}

// Absent returns whether the sample is absent.
func (s MetricSample) Absent() bool {
	return !s.ok
}

// Float returns the sample value and whether the sample is not absent.
func (s MetricSample) Float() (float64, bool) {
	return s.val, s.ok
}

// Samples is an ordered list of [MetricSample].
type Samples []MetricSample

// absentSamples returns absent samples for each of the given names.
func absentSamples(names ...string) Samples {
	out := make(Samples, 0, len(names))
	for _, name := range names {
		out = append(out, AbsentSample(name))
	}
	return out
}

// Names returns the sample names in order.
func (ss Samples) Names() []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.Name)
	}
	return out
}

// Lookup returns the first sample with the given name.
func (ss Samples) Lookup(name string) (MetricSample, bool) {
	for _, s := range ss {
		if s.Name == name {
			return s, true
		}
	}
	return MetricSample{}, false
}

// WithPrefix returns a copy of the samples where each name has the given prefix.
func (ss Samples) WithPrefix(prefix string) Samples {
	out := make(Samples, 0, len(ss))
	for _, s := range ss {
		s.Name = prefix + s.Name
		out = append(out, s)
	}
	return out
}
