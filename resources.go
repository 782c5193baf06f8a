package netbench

//
// Resource usage collector
//

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// ResourceCollector measures CPU and memory utilization using sar. The
// zero value is invalid; please, use [NewResourceCollector] to construct.
type ResourceCollector struct {
	config  *Config
	logger  Logger
	parsers MetricParsers
	tool    ToolAdapter
}

// NewResourceCollector creates a new [ResourceCollector].
func NewResourceCollector(config *Config, tool ToolAdapter, parsers MetricParsers, logger Logger) *ResourceCollector {
	return &ResourceCollector{
		config:  config,
		logger:  logger,
		parsers: parsers,
		tool:    tool,
	}
}

// Collect samples CPU and memory utilization once per second for the
// given window and returns the [MetricCPUUsage] and [MetricMemoryUsage]
// samples. We treat the two values as a group: if either report fails,
// both samples are absent.
func (rc *ResourceCollector) Collect(ctx context.Context, window time.Duration) Samples {
	cpu, err := rc.report(ctx, window, "-u")
	if err != nil {
		return rc.failed(err)
	}
	mem, err := rc.report(ctx, window, "-r")
	if err != nil {
		return rc.failed(err)
	}
	return Samples{
		NewSample(MetricCPUUsage, cpu),
		NewSample(MetricMemoryUsage, mem),
	}
}

// report runs sar with the given report flag and parses its output.
func (rc *ResourceCollector) report(ctx context.Context, window time.Duration, flag string) (float64, error) {
	args := []string{flag, "1", strconv.Itoa(seconds(window))}
	output, err := invokeAndCheck(ctx, rc.tool, rc.config.toolTimeout(window), "sar", args...)
	if err != nil {
		return 0, err
	}
	return rc.parsers.ResourceUsage(output)
}

// failed logs the error and returns absent samples.
func (rc *ResourceCollector) failed(err error) Samples {
	rc.logger.Errorf("%s", fmt.Errorf("%w: resource usage: %w", ErrMeasurement, err))
	return absentSamples(MetricCPUUsage, MetricMemoryUsage)
}
