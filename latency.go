package netbench

//
// Latency collector
//

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// probeInterval is the expected time between two echo probes.
const probeInterval = time.Second

// LatencyCollector measures latency and jitter towards the host under
// test using ping. The zero value is invalid; please, use
// [NewLatencyCollector] to construct.
type LatencyCollector struct {
	config  *Config
	logger  Logger
	parsers MetricParsers
	tool    ToolAdapter
}

// NewLatencyCollector creates a new [LatencyCollector].
func NewLatencyCollector(config *Config, tool ToolAdapter, parsers MetricParsers, logger Logger) *LatencyCollector {
	return &LatencyCollector{
		config:  config,
		logger:  logger,
		parsers: parsers,
		tool:    tool,
	}
}

// Collect sends count echo probes and returns the [MetricLatency] and
// [MetricJitter] samples, which are both absent on failure.
func (lc *LatencyCollector) Collect(ctx context.Context, count int) Samples {
	timeout := lc.config.toolTimeout(time.Duration(count) * probeInterval)
	output, err := invokeAndCheck(ctx, lc.tool, timeout, "ping", "-c", strconv.Itoa(count), lc.config.Host)
	if err != nil {
		return lc.failed(err)
	}
	latency, jitter, err := lc.parsers.Latency(output)
	if err != nil {
		return lc.failed(err)
	}
	return Samples{
		NewSample(MetricLatency, latency),
		NewSample(MetricJitter, jitter),
	}
}

// failed logs the error and returns absent samples.
func (lc *LatencyCollector) failed(err error) Samples {
	lc.logger.Errorf("%s", fmt.Errorf("%w: latency: %w", ErrMeasurement, err))
	return absentSamples(MetricLatency, MetricJitter)
}
