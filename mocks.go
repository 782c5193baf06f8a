package netbench

//
// Mockable tools
//

import (
	"context"
	"time"
)

// MockableToolAdapter is a mockable [ToolAdapter].
type MockableToolAdapter struct {
	// MockInvoke allows to mock [ToolAdapter.Invoke].
	MockInvoke func(ctx context.Context, command string, args []string, timeout time.Duration) (*ToolResult, error)

	// MockLaunch allows to mock [ToolAdapter.Launch].
	MockLaunch func(command string, args ...string) (BackgroundProcess, error)
}

var _ ToolAdapter = &MockableToolAdapter{}

// Invoke implements ToolAdapter
func (m *MockableToolAdapter) Invoke(
	ctx context.Context, command string, args []string, timeout time.Duration) (*ToolResult, error) {
	return m.MockInvoke(ctx, command, args, timeout)
}

// Launch implements ToolAdapter
func (m *MockableToolAdapter) Launch(command string, args ...string) (BackgroundProcess, error) {
	return m.MockLaunch(command, args...)
}

// MockableBackgroundProcess is a mockable [BackgroundProcess].
type MockableBackgroundProcess struct {
	// MockTerminate allows to mock [BackgroundProcess.Terminate].
	MockTerminate func() error
}

var _ BackgroundProcess = &MockableBackgroundProcess{}

// Terminate implements BackgroundProcess
func (m *MockableBackgroundProcess) Terminate() error {
	return m.MockTerminate()
}
