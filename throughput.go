package netbench

//
// Throughput collector
//

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// ThroughputCollector measures the TCP and the UDP throughput towards
// the host under test using iperf3. The zero value is invalid; please,
// use [NewThroughputCollector] to construct.
type ThroughputCollector struct {
	config  *Config
	logger  Logger
	parsers MetricParsers
	tool    ToolAdapter
}

// NewThroughputCollector creates a new [ThroughputCollector].
func NewThroughputCollector(config *Config, tool ToolAdapter, parsers MetricParsers, logger Logger) *ThroughputCollector {
	return &ThroughputCollector{
		config:  config,
		logger:  logger,
		parsers: parsers,
		tool:    tool,
	}
}

// Collect runs a TCP and a UDP bandwidth test, each lasting for the given
// duration, and returns the [MetricTCPThroughput] and [MetricUDPThroughput]
// samples. Each direction fails independently and a failure yields an
// absent sample for that direction.
func (tc *ThroughputCollector) Collect(ctx context.Context, duration time.Duration) Samples {
	tcp := tc.measure(ctx, MetricTCPThroughput, duration)
	udp := tc.measure(ctx, MetricUDPThroughput, duration, "-u", "-b", "0")
	return Samples{tcp, udp}
}

// measure runs a single bandwidth test and returns the sample.
func (tc *ThroughputCollector) measure(
	ctx context.Context, name string, duration time.Duration, extra ...string) MetricSample {
	args := []string{"-c", tc.config.Host, "-p", strconv.Itoa(tc.config.IperfPort)}
	args = append(args, extra...)
	args = append(args, "-t", strconv.Itoa(seconds(duration)))
	output, err := invokeAndCheck(ctx, tc.tool, tc.config.toolTimeout(duration), "iperf3", args...)
	if err != nil {
		tc.logger.Errorf("%s", fmt.Errorf("%w: %s: %w", ErrMeasurement, name, err))
		return AbsentSample(name)
	}
	value, err := tc.parsers.Throughput(output)
	if err != nil {
		tc.logger.Errorf("%s", fmt.Errorf("%w: %s: %w", ErrMeasurement, name, err))
		return AbsentSample(name)
	}
	return NewSample(name, value)
}
