package netbench

//
// Iteration orchestration
//

import (
	"context"
	"fmt"
	"time"
)

// Prefixes of the metrics measured by the mixed workload and adverse stages.
const (
	MixedPrefix   = "mixed_"
	AdversePrefix = "adverse_"
)

// Orchestrator runs the benchmark iterations. The zero value is invalid;
// please, use [NewOrchestrator] to construct.
//
// Each iteration runs the following stages in order, regardless of
// whether previous stages failed:
//
// 1. reset the network conditions;
//
// 2. measure baseline throughput, latency and resource usage;
//
// 3. measure the file transfer speed;
//
// 4. run the mixed workload and prefix its metrics with [MixedPrefix];
//
// 5. apply the adverse network conditions and measure the throughput
// again, prefixing the metrics with [AdversePrefix];
//
// 6. append the record to the [RunResult] and save the whole result.
type Orchestrator struct {
	// FileTransfer is the file transfer collector.
	FileTransfer *FileTransferCollector

	// Latency is the latency collector.
	Latency *LatencyCollector

	// Network is the network condition controller.
	Network *NetworkConditionController

	// Resources is the resource usage collector.
	Resources *ResourceCollector

	// Throughput is the throughput collector.
	Throughput *ThroughputCollector

	// Workload is the mixed workload simulator.
	Workload *WorkloadSimulator

	config  *Config
	logger  Logger
	store   ResultStore
	timeNow func() time.Time
}

// NewOrchestrator creates a new [Orchestrator] whose components all use the
// given config, [ToolAdapter] and [Logger] and the [DefaultParsers].
func NewOrchestrator(config *Config, tool ToolAdapter, store ResultStore, logger Logger) *Orchestrator {
	parsers := DefaultParsers{}
	throughput := NewThroughputCollector(config, tool, parsers, logger)
	latency := NewLatencyCollector(config, tool, parsers, logger)
	resources := NewResourceCollector(config, tool, parsers, logger)
	return &Orchestrator{
		FileTransfer: NewFileTransferCollector(config, tool, logger),
		Latency:      latency,
		Network:      NewNetworkConditionController(config, tool, logger),
		Resources:    resources,
		Throughput:   throughput,
		Workload:     NewWorkloadSimulator(config, tool, resources, throughput, latency, logger),
		config:       config,
		logger:       logger,
		store:        store,
		timeNow:      time.Now,
	}
}

// RunAll runs the given number of iterations, saving the results after
// each iteration and the summary at the end. This function only fails when
// iterations is not positive, when we cannot save results, or when the
// context is canceled, which we check between iterations. In any case, the
// network conditions are reset before returning.
func (o *Orchestrator) RunAll(ctx context.Context, iterations int) (*RunResult, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIterationCount, iterations)
	}

	// the context may be canceled by the time we return
	defer o.Network.Reset(context.Background())

	run := &RunResult{}
	for idx := 1; idx <= iterations; idx++ {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		o.logger.Infof("netbench: starting iteration %d/%d", idx, iterations)
		record, err := o.RunIteration(ctx, idx)
		if err != nil {
			return run, err
		}
		if err := run.Append(record); err != nil {
			return run, err
		}
		if err := o.store.SaveResults(run); err != nil {
			return run, err
		}
		o.logger.Infof("netbench: completed iteration %d/%d", idx, iterations)
	}

	summary, err := Summarize(run)
	if err != nil {
		return run, err
	}
	if err := o.store.SaveSummary(summary); err != nil {
		return run, err
	}
	return run, nil
}

// RunIteration runs all the stages of a single iteration and returns the
// corresponding record. The collectors absorb measurement failures, so this
// function only fails if two stages produce the same metric name.
func (o *Orchestrator) RunIteration(ctx context.Context, index int) (*IterationRecord, error) {
	record := NewIterationRecord(index, o.timeNow(), o.config.Protocol)

	// baseline
	o.Network.Reset(ctx)
	if err := record.Merge("", o.Throughput.Collect(ctx, o.config.ThroughputDuration)); err != nil {
		return nil, err
	}
	if err := record.Merge("", o.Latency.Collect(ctx, o.config.ProbeCount)); err != nil {
		return nil, err
	}
	if err := record.Merge("", o.Resources.Collect(ctx, o.config.ResourceWindow)); err != nil {
		return nil, err
	}

	// file transfer
	if err := record.Merge("", o.FileTransfer.Collect(ctx, o.config.FileSizeMB)); err != nil {
		return nil, err
	}

	// mixed workload
	if err := record.Merge(MixedPrefix, o.Workload.Run(ctx, o.config.WorkloadDuration)); err != nil {
		return nil, err
	}

	// adverse network conditions
	o.Network.Apply(ctx, o.config.AdverseImpairment())
	if err := record.Merge(AdversePrefix, o.Throughput.Collect(ctx, o.config.ThroughputDuration)); err != nil {
		return nil, err
	}

	return record, nil
}
