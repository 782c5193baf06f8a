// Package netbench is a harness that measures the network performance
// of a remote host in a repeatable way.
//
// The harness drives the host through a fixed sequence of stages for
// each iteration:
//
// - baseline throughput, latency and resource usage, as measured by
// the [ThroughputCollector], [LatencyCollector] and [ResourceCollector];
//
// - bulk file transfer, as measured by the [FileTransferCollector];
//
// - a mixed workload, where the [WorkloadSimulator] keeps background
// load generators running while it repeats the baseline measurements;
//
// - degraded network conditions, where the [NetworkConditionController]
// adds latency and packet loss to the egress interface before we
// measure the throughput again.
//
// The [Orchestrator] sequences these stages, builds an [IterationRecord]
// per iteration and saves the cumulative [RunResult] through a
// [ResultStore] after each iteration. When all iterations are done, it
// computes a [Summary] using [Summarize].
//
// Collectors never fail: when a tool is missing, exits with an error or
// produces output we cannot parse, they log the error and return an
// absent [MetricSample]. Therefore, a run produces one record per
// iteration even when several measurements are broken.
//
// All external tools are invoked through the [ToolAdapter] model. The
// [ExecTool] struct implements it using the [os/exec] package, while
// tests use [MockableToolAdapter] to provide canned outputs.
package netbench
