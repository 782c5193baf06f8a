package netbench

//
// Stdlib-based implementation of [ToolAdapter]
//

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// ExecTool implements [ToolAdapter] using [os/exec]. The zero
// value of this structure is ready to use.
type ExecTool struct {
	// TerminateGrace is the OPTIONAL time [BackgroundProcess.Terminate]
	// waits after SIGTERM before killing the process. When zero, we
	// use [DefaultTerminateGrace].
	TerminateGrace time.Duration
}

// DefaultTerminateGrace is the default [ExecTool] TerminateGrace.
const DefaultTerminateGrace = 5 * time.Second

var _ ToolAdapter = &ExecTool{}

// Invoke implements ToolAdapter
func (et *ExecTool) Invoke(
	ctx context.Context, command string, args []string, timeout time.Duration) (*ToolResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// make sure we don't block on pipes held open by grandchildren
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s after %s", ErrToolTimeout, command, timeout)
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		result := &ToolResult{
			Stdout:     stdout.String(),
			Stderr:     stderr.String(),
			ExitStatus: exitErr.ExitCode(),
		}
		return result, nil

	case err != nil:
		return nil, err

	default:
		result := &ToolResult{
			Stdout:     stdout.String(),
			Stderr:     stderr.String(),
			ExitStatus: 0,
		}
		return result, nil
	}
}

// Launch implements ToolAdapter
func (et *ExecTool) Launch(command string, args ...string) (BackgroundProcess, error) {
	// a nil Stdout and Stderr connect the process to the null device
	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	proc := &execProcess{
		cmd:   cmd,
		done:  make(chan any),
		grace: et.terminateGrace(),
		once:  sync.Once{},
	}
	go proc.wait()
	return proc, nil
}

// terminateGrace returns the grace period for terminating processes.
func (et *ExecTool) terminateGrace() time.Duration {
	if et.TerminateGrace > 0 {
		return et.TerminateGrace
	}
	return DefaultTerminateGrace
}

// execProcess is the [BackgroundProcess] returned by [ExecTool.Launch].
type execProcess struct {
	// cmd is the running command.
	cmd *exec.Cmd

	// done is closed when the process has been reaped.
	done chan any

	// grace is the time to wait after SIGTERM.
	grace time.Duration

	// once provides Terminate with "once" semantics.
	once sync.Once

	// terr is the error returned by Terminate.
	terr error
}

// wait reaps the process. This function runs in a background goroutine.
func (p *execProcess) wait() {
	_ = p.cmd.Wait()
	close(p.done)
}

// Terminate implements BackgroundProcess
func (p *execProcess) Terminate() error {
	p.once.Do(func() {
		select {
		case <-p.done:
			return
		default:
		}
		grace := p.grace
		switch err := p.cmd.Process.Signal(syscall.SIGTERM); {
		case errors.Is(err, os.ErrProcessDone):
			// the process exited in the meanwhile
			<-p.done
			return
		case err != nil:
			p.terr = err
			grace = 0
		}
		select {
		case <-p.done:
		case <-time.After(grace):
			if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				p.terr = err
			}
			<-p.done
		}
	})
	return p.terr
}

// Check returns [ErrToolExit] if the tool exited with a nonzero status.
func (tr *ToolResult) Check() error {
	if tr.ExitStatus != 0 {
		return fmt.Errorf("%w: status %d: %s", ErrToolExit, tr.ExitStatus, strings.TrimSpace(tr.Stderr))
	}
	return nil
}

// invokeAndCheck invokes a tool and returns its standard output only
// when the tool has run to completion and returned a zero status.
func invokeAndCheck(ctx context.Context, tool ToolAdapter,
	timeout time.Duration, command string, args ...string) (string, error) {
	result, err := tool.Invoke(ctx, command, args, timeout)
	if err != nil {
		return "", err
	}
	if err := result.Check(); err != nil {
		return "", err
	}
	return result.Stdout, nil
}
