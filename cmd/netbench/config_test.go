package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bassosimone/netbench"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
)

// newTestFlags returns the config flags after parsing args.
func newTestFlags(t *testing.T, args ...string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addConfigFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	return flags
}

func TestDecodeConfig(t *testing.T) {
	t.Run("without overrides we get the defaults", func(t *testing.T) {
		v, err := newViper(newTestFlags(t), "")
		if err != nil {
			t.Fatal(err)
		}
		config, err := decodeConfig(v)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(netbench.DefaultConfig(), config); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("flags, environment and config file are layered", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "netbench.yaml")
		content := []byte("host: 10.1.1.1\niterations: 5\nthroughput-duration: 10s\nhttp-requests: 10\n")
		if err := os.WriteFile(configFile, content, 0600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("NETBENCH_ITERATIONS", "7")
		t.Setenv("NETBENCH_IPERF_PORT", "5301")
		t.Setenv("NETBENCH_HTTP_REQUESTS", "20")

		flags := newTestFlags(t, "--http-requests=30", "--sudo=false")
		v, err := newViper(flags, configFile)
		if err != nil {
			t.Fatal(err)
		}
		config, err := decodeConfig(v)
		if err != nil {
			t.Fatal(err)
		}

		expect := netbench.DefaultConfig()
		expect.Host = "10.1.1.1"                     // config file
		expect.ThroughputDuration = 10 * time.Second // config file
		expect.Iterations = 7                        // environment beats config file
		expect.IperfPort = 5301                      // environment
		expect.HTTPRequests = 30                     // flag beats environment
		expect.Sudo = false                          // flag
		if diff := cmp.Diff(expect, config); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with a missing config file", func(t *testing.T) {
		if _, err := newViper(newTestFlags(t), filepath.Join(t.TempDir(), "nonexistent.yaml")); err == nil {
			t.Fatal("expected an error")
		}
	})
}
