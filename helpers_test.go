package netbench

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Canned outputs of the tools we invoke.
const (
	iperf3TCPOutput = `Connecting to host 10.0.0.1, port 5201
[  5] local 10.0.0.2 port 51234 connected to 10.0.0.1 port 5201
[ ID] Interval           Transfer     Bitrate         Retr  Cwnd
[  5]   0.00-1.00   sec   112 MBytes   941 Mbits/sec    0    395 KBytes
- - - - - - - - - - - - - - - - - - - - - - - - -
[ ID] Interval           Transfer     Bitrate         Retr
[  5]   0.00-10.00  sec  1.09 GBytes   938 Mbits/sec    0             sender
[  5]   0.00-10.00  sec  1.09 GBytes   936 Mbits/sec                  receiver

iperf Done.
`

	iperf3UDPOutput = `Connecting to host 10.0.0.1, port 5201
[  5] local 10.0.0.2 port 40000 connected to 10.0.0.1 port 5201
[ ID] Interval           Transfer     Bitrate         Jitter    Lost/Total Datagrams
[  5]   0.00-10.00  sec  1.25 MBytes  1.05 Mbits/sec  0.000 ms  0/906 (0%)  sender
[  5]   0.00-10.04  sec  1.24 MBytes  1.04 Mbits/sec  0.012 ms  0/906 (0%)  receiver

iperf Done.
`

	iperf3RefusedOutput = "iperf3: error - unable to connect to server: Connection refused\n"

	pingOutput = `PING 10.0.0.1 (10.0.0.1) 56(84) bytes of data.
64 bytes from 10.0.0.1: icmp_seq=1 ttl=64 time=10.0 ms
64 bytes from 10.0.0.1: icmp_seq=2 ttl=64 time=20.0 ms
64 bytes from 10.0.0.1: icmp_seq=3 ttl=64 time=30.0 ms

--- 10.0.0.1 ping statistics ---
3 packets transmitted, 3 received, 0% packet loss, time 2003ms
rtt min/avg/max/mdev = 10.000/20.000/30.000/8.165 ms
`

	sarCPUOutput = `Linux 6.1.0 (server) 	10/14/2026 	_x86_64_	(4 CPU)

12:00:01 PM     CPU     %user     %nice   %system   %iowait    %steal     %idle
12:00:02 PM     all      2.51      0.00      1.00      0.00      0.00     96.49
Average:        all      2.51      0.00      1.00      0.00      0.00     96.49
`

	sarMemOutput = `Linux 6.1.0 (server) 	10/14/2026 	_x86_64_	(4 CPU)

12:00:01 PM kbmemfree   kbavail kbmemused  %memused kbbuffers  kbcached
12:00:02 PM   6012345   7012345   1234567     15.32     12345    456789
Average:      6012345   7012345   1234567     15.32     12345    456789
`

	ipRouteOutput = `default via 10.0.0.254 dev eth0 proto dhcp metric 100
10.0.0.0/24 dev eth0 proto kernel scope link src 10.0.0.2
`
)

// toolCall records an invocation of a fake tool.
type toolCall struct {
	Command string
	Args    []string
}

// String returns the command line of the call.
func (tc toolCall) String() string {
	return strings.Join(append([]string{tc.Command}, tc.Args...), " ")
}

// toolHandler emulates a tool given its arguments.
type toolHandler func(args []string) (*ToolResult, error)

// fakeTools is a set of fake tools for building a [MockableToolAdapter].
type fakeTools struct {
	// handlers maps a command name to its handler.
	handlers map[string]toolHandler

	// calls contains the invocations and launches in order.
	calls []toolCall

	// processes contains the launched processes in order.
	processes []*fakeProcess

	// launchErr maps a command name to the error returned by Launch.
	launchErr map[string]error

	mu sync.Mutex
}

// newFakeTools creates a [fakeTools] without handlers.
func newFakeTools() *fakeTools {
	return &fakeTools{
		handlers:  map[string]toolHandler{},
		launchErr: map[string]error{},
	}
}

// handle registers a handler for a command.
func (ft *fakeTools) handle(command string, handler toolHandler) *fakeTools {
	ft.handlers[command] = handler
	return ft
}

// adapter returns the corresponding [MockableToolAdapter].
func (ft *fakeTools) adapter() *MockableToolAdapter {
	return &MockableToolAdapter{
		MockInvoke: func(ctx context.Context, command string, args []string, timeout time.Duration) (*ToolResult, error) {
			ft.mu.Lock()
			ft.calls = append(ft.calls, toolCall{Command: command, Args: args})
			handler := ft.handlers[command]
			ft.mu.Unlock()
			if handler == nil {
				return nil, fmt.Errorf("exec: %q: %w", command, exec.ErrNotFound)
			}
			return handler(args)
		},
		MockLaunch: func(command string, args ...string) (BackgroundProcess, error) {
			ft.mu.Lock()
			defer ft.mu.Unlock()
			ft.calls = append(ft.calls, toolCall{Command: command, Args: args})
			if err := ft.launchErr[command]; err != nil {
				return nil, err
			}
			proc := &fakeProcess{name: command}
			ft.processes = append(ft.processes, proc)
			return proc, nil
		},
	}
}

// commandLines returns the command lines of the calls of the given command.
func (ft *fakeTools) commandLines(command string) []string {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	var out []string
	for _, call := range ft.calls {
		if call.Command == command {
			out = append(out, call.String())
		}
	}
	return out
}

// fakeProcess is a fake [BackgroundProcess].
type fakeProcess struct {
	name       string
	terminated int
	err        error
}

// Terminate implements BackgroundProcess
func (fp *fakeProcess) Terminate() error {
	fp.terminated++
	return fp.err
}

// stdout returns a handler that always succeeds with the given output.
func stdout(output string) toolHandler {
	return func(args []string) (*ToolResult, error) {
		return &ToolResult{Stdout: output}, nil
	}
}

// exitStatus returns a handler that always fails with the given status.
func exitStatus(status int, stderr string) toolHandler {
	return func(args []string) (*ToolResult, error) {
		return &ToolResult{Stderr: stderr, ExitStatus: status}, nil
	}
}

// failing returns a handler that always fails to run the tool.
func failing(err error) toolHandler {
	return func(args []string) (*ToolResult, error) {
		return nil, err
	}
}

// iperf3 returns a handler emulating iperf3 with distinct TCP and UDP outputs.
func iperf3(tcp, udp toolHandler) toolHandler {
	return func(args []string) (*ToolResult, error) {
		for _, arg := range args {
			if arg == "-u" {
				return udp(args)
			}
		}
		return tcp(args)
	}
}

// sar returns a handler emulating sar with distinct CPU and memory outputs.
func sar(cpu, mem toolHandler) toolHandler {
	return func(args []string) (*ToolResult, error) {
		if len(args) > 0 && args[0] == "-r" {
			return mem(args)
		}
		return cpu(args)
	}
}

// fakeShaper emulates the root qdisc of network interfaces.
type fakeShaper struct {
	// qdiscs maps an interface to its netem parameters.
	qdiscs map[string]string

	// failAdd makes adding a discipline fail.
	failAdd bool
}

// newFakeShaper creates a [fakeShaper] without disciplines.
func newFakeShaper() *fakeShaper {
	return &fakeShaper{qdiscs: map[string]string{}}
}

// errShaper is the error emitted by fakeShaper for invalid operations.
var errShaper = errors.New("RTNETLINK answers: invalid argument")

// tc emulates the tc tool: tc qdisc {add|change|del|show} dev IFACE [root ...].
func (fs *fakeShaper) tc(args []string) (*ToolResult, error) {
	if len(args) < 4 || args[0] != "qdisc" || args[2] != "dev" {
		return &ToolResult{Stderr: "usage", ExitStatus: 255}, nil
	}
	verb, iface := args[1], args[3]
	_, active := fs.qdiscs[iface]
	switch verb {
	case "add":
		if active || fs.failAdd {
			return &ToolResult{Stderr: "Error: Exclusivity flag on, cannot modify.", ExitStatus: 2}, nil
		}
		fs.qdiscs[iface] = strings.Join(args[6:], " ")
	case "change":
		if !active {
			return &ToolResult{Stderr: errShaper.Error(), ExitStatus: 2}, nil
		}
		fs.qdiscs[iface] = strings.Join(args[6:], " ")
	case "del":
		if !active {
			return &ToolResult{Stderr: "Error: Cannot delete qdisc with handle of zero.", ExitStatus: 2}, nil
		}
		delete(fs.qdiscs, iface)
	case "show":
		if !active {
			return &ToolResult{Stdout: "qdisc noqueue 0: root refcnt 2\n"}, nil
		}
		return &ToolResult{Stdout: "qdisc netem 8001: root refcnt 2 limit 1000 " + fs.qdiscs[iface] + "\n"}, nil
	}
	return &ToolResult{}, nil
}

// sudo emulates sudo for the tc tool.
func (fs *fakeShaper) sudo(args []string) (*ToolResult, error) {
	if len(args) <= 0 || args[0] != "tc" {
		return &ToolResult{Stderr: "unexpected sudo command", ExitStatus: 1}, nil
	}
	return fs.tc(args[1:])
}

// newWorkingTools returns [fakeTools] where every tool succeeds.
func newWorkingTools(shaper *fakeShaper) *fakeTools {
	return newFakeTools().
		handle("iperf3", iperf3(stdout(iperf3TCPOutput), stdout(iperf3UDPOutput))).
		handle("ping", stdout(pingOutput)).
		handle("sar", sar(stdout(sarCPUOutput), stdout(sarMemOutput))).
		handle("scp", stdout("")).
		handle("ip", stdout(ipRouteOutput)).
		handle("tc", shaper.tc).
		handle("sudo", shaper.sudo)
}

// newTestConfig returns a [Config] suitable for tests.
func newTestConfig(localDir string) *Config {
	config := DefaultConfig()
	config.Host = "10.0.0.1"
	config.User = "bench"
	config.LocalDir = localDir
	config.FileSizeMB = 1
	return config
}
