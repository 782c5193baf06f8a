package netbench

//
// Data model
//

import (
	"context"
	"time"
)

// Logger is the logger we're using.
type Logger interface {
	// Debugf formats and emits a debug message.
	Debugf(format string, v ...any)

	// Debug emits a debug message.
	Debug(message string)

	// Infof formats and emits an informational message.
	Infof(format string, v ...any)

	// Info emits an informational message.
	Info(message string)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...any)

	// Warn emits a warning message.
	Warn(message string)

	// Errorf formats and emits an error message.
	Errorf(format string, v ...any)

	// Error emits an error message.
	Error(message string)
}

// ToolResult is the result of running an external tool to completion.
type ToolResult struct {
	// Stdout contains the bytes the tool wrote on the standard output.
	Stdout string

	// Stderr contains the bytes the tool wrote on the standard error.
	Stderr string

	// ExitStatus is the tool's exit status.
	ExitStatus int
}

// ToolAdapter allows to invoke external measurement and shaping tools.
type ToolAdapter interface {
	// Invoke runs the given command with the given arguments and waits
	// for it to terminate. A zero timeout means no timeout. This function
	// returns an error when the tool could not run to completion (e.g., the
	// binary is missing or the timeout expired). A tool that runs and exits
	// with a nonzero status is NOT an error: use [ToolResult.Check].
	Invoke(ctx context.Context, command string, args []string, timeout time.Duration) (*ToolResult, error)

	// Launch starts the given command in the background without waiting
	// for it to terminate. You MUST call [BackgroundProcess.Terminate] when
	// you are done with the returned process.
	Launch(command string, args ...string) (BackgroundProcess, error)
}

// BackgroundProcess is a process started by [ToolAdapter.Launch].
type BackgroundProcess interface {
	// Terminate asks the process to terminate and waits for it to
	// exit. This method is idempotent.
	Terminate() error
}

// ResultStore persists the results of a run.
type ResultStore interface {
	// SaveResults replaces the persisted records with the given [RunResult].
	SaveResults(run *RunResult) error

	// SaveSummary persists the given [Summary].
	SaveSummary(summary Summary) error
}

// NetworkImpairmentSpec describes the degradation to add to the egress path.
type NetworkImpairmentSpec struct {
	// LatencyMS is the extra latency in milliseconds.
	LatencyMS int

	// PacketLossPct is the packet loss percentage within [0, 100].
	PacketLossPct float64
}
