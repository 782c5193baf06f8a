package netbench

//
// Run configuration
//

import (
	"fmt"
	"time"
)

// Config contains the configuration of a run. Use [DefaultConfig] to
// obtain a configuration with sensible defaults, then override the fields
// you care about. The mapstructure tags match the command line flags.
type Config struct {
	// Host is the MANDATORY address of the host under test.
	Host string `mapstructure:"host"`

	// User is the user for copying files to and from the host.
	User string `mapstructure:"user"`

	// Protocol is a free-form label identifying the configuration
	// under test (e.g., "wireguard").
	Protocol string `mapstructure:"protocol"`

	// Iterations is the number of iterations to run.
	Iterations int `mapstructure:"iterations"`

	// IperfPort is the port where the bandwidth test server listens.
	IperfPort int `mapstructure:"iperf-port"`

	// ThroughputDuration is the duration of each baseline bandwidth test.
	ThroughputDuration time.Duration `mapstructure:"throughput-duration"`

	// ProbeCount is the number of baseline echo probes.
	ProbeCount int `mapstructure:"probe-count"`

	// ResourceWindow is the duration of the baseline resource sampling.
	ResourceWindow time.Duration `mapstructure:"resource-window"`

	// FileSizeMB is the size of the transferred file in MB.
	FileSizeMB int `mapstructure:"file-size-mb"`

	// LocalDir is the local directory for the transferred files.
	LocalDir string `mapstructure:"local-dir"`

	// RemoteDir is the remote directory for the transferred files.
	RemoteDir string `mapstructure:"remote-dir"`

	// TransferTimeout bounds the duration of each file copy.
	TransferTimeout time.Duration `mapstructure:"transfer-timeout"`

	// WorkloadDuration is the resource sampling window of the mixed workload.
	WorkloadDuration time.Duration `mapstructure:"workload-duration"`

	// WorkloadThroughputDuration is the duration of each bandwidth
	// test performed during the mixed workload.
	WorkloadThroughputDuration time.Duration `mapstructure:"workload-throughput-duration"`

	// WorkloadProbeCount is the number of echo probes performed
	// during the mixed workload.
	WorkloadProbeCount int `mapstructure:"workload-probe-count"`

	// HTTPRequests is the number of requests of the HTTP load generator.
	HTTPRequests int `mapstructure:"http-requests"`

	// HTTPConcurrency is the concurrency of the HTTP load generator.
	HTTPConcurrency int `mapstructure:"http-concurrency"`

	// StreamURL is the OPTIONAL URL of the media stream. When empty, we
	// use rtsp://HOST/test.mp4.
	StreamURL string `mapstructure:"stream-url"`

	// AdverseLatencyMS is the latency added during the adverse stage.
	AdverseLatencyMS int `mapstructure:"adverse-latency-ms"`

	// AdversePacketLossPct is the packet loss added during the adverse stage.
	AdversePacketLossPct float64 `mapstructure:"adverse-packet-loss-pct"`

	// Sudo indicates whether to run the traffic shaping tools using sudo.
	Sudo bool `mapstructure:"sudo"`

	// ToolTimeoutSlack is added to the expected runtime of a tool to
	// obtain the timeout after which we give up waiting for it.
	ToolTimeoutSlack time.Duration `mapstructure:"tool-timeout-slack"`
}

// DefaultConfig returns the default [Config].
func DefaultConfig() *Config {
	return &Config{
		Host:                       "",
		User:                       "",
		Protocol:                   "wireguard",
		Iterations:                 20,
		IperfPort:                  5201,
		ThroughputDuration:         60 * time.Second,
		ProbeCount:                 100,
		ResourceWindow:             60 * time.Second,
		FileSizeMB:                 5000,
		LocalDir:                   "/tmp",
		RemoteDir:                  "/tmp",
		TransferTimeout:            time.Hour,
		WorkloadDuration:           300 * time.Second,
		WorkloadThroughputDuration: 30 * time.Second,
		WorkloadProbeCount:         50,
		HTTPRequests:               100,
		HTTPConcurrency:            10,
		StreamURL:                  "",
		AdverseLatencyMS:           100,
		AdversePacketLossPct:       1.0,
		Sudo:                       true,
		ToolTimeoutSlack:           30 * time.Second,
	}
}

// Validate returns [ErrInvalidConfig] when the config is not valid.
func (c *Config) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("%w: empty host", ErrInvalidConfig)
	case c.Iterations <= 0:
		return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, ErrInvalidIterationCount, c.Iterations)
	case c.IperfPort <= 0 || c.IperfPort > 65535:
		return fmt.Errorf("%w: invalid iperf port %d", ErrInvalidConfig, c.IperfPort)
	case c.ProbeCount <= 0 || c.WorkloadProbeCount <= 0:
		return fmt.Errorf("%w: probe counts must be positive", ErrInvalidConfig)
	case c.FileSizeMB <= 0:
		return fmt.Errorf("%w: file size must be positive", ErrInvalidConfig)
	case c.ThroughputDuration < time.Second || c.WorkloadThroughputDuration < time.Second:
		return fmt.Errorf("%w: throughput durations must be at least one second", ErrInvalidConfig)
	case c.ResourceWindow < time.Second || c.WorkloadDuration < time.Second:
		return fmt.Errorf("%w: resource windows must be at least one second", ErrInvalidConfig)
	case c.HTTPRequests <= 0 || c.HTTPConcurrency <= 0:
		return fmt.Errorf("%w: HTTP load must be positive", ErrInvalidConfig)
	}
	if err := c.AdverseImpairment().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// AdverseImpairment returns the impairment used by the adverse stage.
func (c *Config) AdverseImpairment() NetworkImpairmentSpec {
	return NetworkImpairmentSpec{
		LatencyMS:     c.AdverseLatencyMS,
		PacketLossPct: c.AdversePacketLossPct,
	}
}

// streamURL returns the URL of the media stream.
func (c *Config) streamURL() string {
	if c.StreamURL != "" {
		return c.StreamURL
	}
	return fmt.Sprintf("rtsp://%s/test.mp4", c.Host)
}

// toolTimeout returns the timeout for a tool expected to run for d.
func (c *Config) toolTimeout(d time.Duration) time.Duration {
	return d + c.ToolTimeoutSlack
}

// seconds converts a duration to whole seconds for command line arguments.
func seconds(d time.Duration) int {
	return int(d / time.Second)
}
