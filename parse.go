package netbench

//
// Parsing the output of measurement tools
//

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// MetricParsers maps the raw output of measurement tools to numbers.
//
// The extraction rules depend on the output format of specific tool
// versions, hence we keep them behind this interface so that we can
// update them without touching the collectors.
type MetricParsers interface {
	// Throughput parses the output of the bandwidth tester and returns
	// the throughput reported on the sender side.
	Throughput(output string) (float64, error)

	// Latency parses the output of the echo probe tool and returns the
	// mean latency and the jitter.
	Latency(output string) (latency, jitter float64, err error)

	// ResourceUsage parses the report of the CPU/memory sampler.
	ResourceUsage(output string) (float64, error)
}

// DefaultParsers implements [MetricParsers] for iperf3, ping and sar. The
// zero value of this structure is ready to use.
type DefaultParsers struct{}

var _ MetricParsers = DefaultParsers{}

// senderMarker precedes the sender-side summary in the iperf3 output.
const senderMarker = "sender"

// senderTokenIndex is the index of the throughput token after senderMarker.
const senderTokenIndex = 4

// Throughput implements MetricParsers
//
// We take the text following the last occurrence of the sender marker and
// return its fifth whitespace-delimited token.
func (DefaultParsers) Throughput(output string) (float64, error) {
	idx := strings.LastIndex(output, senderMarker)
	if idx < 0 {
		return 0, ErrNoSenderMarker
	}
	tokens := strings.Fields(output[idx+len(senderMarker):])
	if len(tokens) <= senderTokenIndex {
		return 0, fmt.Errorf("%w: only %d tokens after %q", ErrMalformedOutput, len(tokens), senderMarker)
	}
	return parseFloat(tokens[senderTokenIndex])
}

// probeMarker precedes the RTT in each echo reply line.
const probeMarker = "time="

// Latency implements MetricParsers
//
// The latency is the arithmetic mean of the RTTs and the jitter is their
// sample standard deviation, which is zero when we have a single RTT.
func (DefaultParsers) Latency(output string) (float64, float64, error) {
	rtts, err := parseProbeRTTs(output)
	if err != nil {
		return 0, 0, err
	}
	latency, err := stats.Mean(rtts)
	if err != nil {
		return 0, 0, err
	}
	if len(rtts) < 2 {
		return latency, 0, nil
	}
	jitter, err := stats.StandardDeviationSample(rtts)
	if err != nil {
		return 0, 0, err
	}
	return latency, jitter, nil
}

// parseProbeRTTs returns the RTTs contained in the echo probe output.
func parseProbeRTTs(output string) ([]float64, error) {
	var rtts []float64
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, probeMarker)
		if idx < 0 {
			continue
		}
		tokens := strings.Fields(line[idx+len(probeMarker):])
		if len(tokens) <= 0 {
			return nil, fmt.Errorf("%w: no value after %q", ErrMalformedOutput, probeMarker)
		}
		rtt, err := parseFloat(stripUnit(tokens[0]))
		if err != nil {
			return nil, err
		}
		rtts = append(rtts, rtt)
	}
	if len(rtts) <= 0 {
		return nil, ErrNoProbeLines
	}
	return rtts, nil
}

// stripUnit removes a trailing unit suffix such as "ms" from a number.
func stripUnit(token string) string {
	return strings.TrimRightFunc(token, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
}

// resourceTokenIndex is the index of the value inside the report line.
const resourceTokenIndex = 2

// ResourceUsage implements MetricParsers
//
// We split the output on newlines and return the third whitespace-delimited
// token of the second to last element. Because sar terminates its output with
// a newline, such an element is the "Average:" line.
func (DefaultParsers) ResourceUsage(output string) (float64, error) {
	lines := strings.Split(output, "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("%w: report has %d lines", ErrMalformedOutput, len(lines))
	}
	tokens := strings.Fields(lines[len(lines)-2])
	if len(tokens) <= resourceTokenIndex {
		return 0, fmt.Errorf("%w: report line has %d tokens", ErrMalformedOutput, len(tokens))
	}
	return parseFloat(tokens[resourceTokenIndex])
}

// parseFloat is like [strconv.ParseFloat] but wraps [ErrMalformedOutput].
func parseFloat(token string) (float64, error) {
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedOutput, token)
	}
	return value, nil
}
