package netbench

//
// Mixed workload simulation
//

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// WorkloadSimulator measures performance while the host is also serving
// an HTTP load generator and a media streaming client. The zero value is
// invalid; please, use [NewWorkloadSimulator] to construct.
type WorkloadSimulator struct {
	config     *Config
	latency    *LatencyCollector
	logger     Logger
	resources  *ResourceCollector
	throughput *ThroughputCollector
	tool       ToolAdapter
}

// NewWorkloadSimulator creates a new [WorkloadSimulator] using the given
// collectors for the foreground measurements.
func NewWorkloadSimulator(
	config *Config,
	tool ToolAdapter,
	resources *ResourceCollector,
	throughput *ThroughputCollector,
	latency *LatencyCollector,
	logger Logger,
) *WorkloadSimulator {
	return &WorkloadSimulator{
		config:     config,
		latency:    latency,
		logger:     logger,
		resources:  resources,
		throughput: throughput,
		tool:       tool,
	}
}

// Run starts the background load generators, measures resource usage for
// the given duration, then throughput and latency, and returns all the
// samples. The background processes are terminated before Run returns.
func (ws *WorkloadSimulator) Run(ctx context.Context, duration time.Duration) Samples {
	httpLoad := ws.launch(
		"ab",
		"-n", strconv.Itoa(ws.config.HTTPRequests),
		"-c", strconv.Itoa(ws.config.HTTPConcurrency),
		fmt.Sprintf("http://%s/", ws.config.Host),
	)
	defer ws.terminate("ab", httpLoad)

	stream := ws.launch("ffplay", "-nodisp", "-loglevel", "quiet", ws.config.streamURL())
	defer ws.terminate("ffplay", stream)

	var samples Samples
	samples = append(samples, ws.resources.Collect(ctx, duration)...)
	samples = append(samples, ws.throughput.Collect(ctx, ws.config.WorkloadThroughputDuration)...)
	samples = append(samples, ws.latency.Collect(ctx, ws.config.WorkloadProbeCount)...)
	return samples
}

// launch starts a background process and returns nil on failure.
func (ws *WorkloadSimulator) launch(command string, args ...string) BackgroundProcess {
	proc, err := ws.tool.Launch(command, args...)
	if err != nil {
		ws.logger.Errorf("%s", fmt.Errorf("%w: cannot launch %s: %w", ErrMeasurement, command, err))
		return nil
	}
	ws.logger.Debugf("netbench: launched %s in the background", command)
	return proc
}

// terminate terminates a process returned by launch.
func (ws *WorkloadSimulator) terminate(command string, proc BackgroundProcess) {
	if proc == nil {
		return
	}
	if err := proc.Terminate(); err != nil {
		ws.logger.Warnf("netbench: cannot terminate %s: %s", command, err.Error())
		return
	}
	ws.logger.Debugf("netbench: terminated %s", command)
}
