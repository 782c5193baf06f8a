package main

import (
	"strings"

	"github.com/bassosimone/netbench"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of the environment variables we honour.
const envPrefix = "NETBENCH"

// addConfigFlags adds a flag for each field of [netbench.Config].
func addConfigFlags(flags *pflag.FlagSet) {
	def := netbench.DefaultConfig()
	flags.String("host", def.Host, "address of the host under test")
	flags.String("user", def.User, "user for the SSH check and for copying files")
	flags.Int("iterations", def.Iterations, "number of iterations")
	flags.Int("iperf-port", def.IperfPort, "port of the iperf3 server")
	flags.Duration("throughput-duration", def.ThroughputDuration, "duration of each baseline bandwidth test")
	flags.Int("probe-count", def.ProbeCount, "number of baseline echo probes")
	flags.Duration("resource-window", def.ResourceWindow, "duration of the baseline resource sampling")
	flags.Int("file-size-mb", def.FileSizeMB, "size of the transferred file in MB")
	flags.String("local-dir", def.LocalDir, "local directory for the transferred files")
	flags.String("remote-dir", def.RemoteDir, "remote directory for the transferred files")
	flags.Duration("transfer-timeout", def.TransferTimeout, "timeout of each file copy")
	flags.Duration("workload-duration", def.WorkloadDuration, "resource sampling window of the mixed workload")
	flags.Duration("workload-throughput-duration", def.WorkloadThroughputDuration, "duration of each bandwidth test of the mixed workload")
	flags.Int("workload-probe-count", def.WorkloadProbeCount, "number of echo probes of the mixed workload")
	flags.Int("http-requests", def.HTTPRequests, "number of requests of the HTTP load generator")
	flags.Int("http-concurrency", def.HTTPConcurrency, "concurrency of the HTTP load generator")
	flags.String("stream-url", def.StreamURL, "media stream URL (default rtsp://HOST/test.mp4)")
	flags.Int("adverse-latency-ms", def.AdverseLatencyMS, "latency added during the adverse stage")
	flags.Float64("adverse-packet-loss-pct", def.AdversePacketLossPct, "packet loss added during the adverse stage")
	flags.Bool("sudo", def.Sudo, "run tc using sudo")
	flags.Duration("tool-timeout-slack", def.ToolTimeoutSlack, "extra time granted to each tool")
}

// newViper layers, from lowest to highest priority, the flag defaults, the
// OPTIONAL config file, the NETBENCH_* environment variables and the flags
// explicitly set on the command line.
func newViper(flags *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// decodeConfig returns the [netbench.Config] described by v.
func decodeConfig(v *viper.Viper) (*netbench.Config, error) {
	config := netbench.DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}
	return config, nil
}
