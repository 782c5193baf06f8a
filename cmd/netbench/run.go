package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/bassosimone/netbench"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runOptions contains the options of the run command that are not
// part of [netbench.Config].
type runOptions struct {
	configFile    string
	keyPath       string
	logLevel      string
	outputDir     string
	protocols     []string
	skipPreflight bool
	sshPort       int
}

// newRunCmd creates the run command.
func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	// only the config flags flow through viper
	configFlags := pflag.NewFlagSet("config", pflag.ContinueOnError)
	addConfigFlags(configFlags)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark against a remote host",
		Long: `run drives the remote host through baseline, file transfer, mixed workload
and adverse network stages for each iteration. Each protocol label gets a
results directory containing test_results.csv, summary_statistics.csv and
netbench.log. Flags override NETBENCH_* environment variables, which
override the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(configFlags, opts.configFile)
			if err != nil {
				return err
			}
			config, err := decodeConfig(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			for _, protocol := range opts.protocols {
				if err := runProtocol(ctx, opts, config, protocol); err != nil {
					return err
				}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.AddFlagSet(configFlags)
	flags.StringVar(&opts.configFile, "config", "", "OPTIONAL YAML config file")
	flags.StringVar(&opts.keyPath, "key", "", "private key for the SSH connectivity check")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVarP(&opts.outputDir, "output", "o", ".", "directory where to create the results directories")
	flags.StringSliceVarP(&opts.protocols, "protocol", "p", []string{"wireguard"}, "protocol label (repeatable)")
	flags.BoolVar(&opts.skipPreflight, "skip-preflight", false, "do not check SSH connectivity before running")
	flags.IntVar(&opts.sshPort, "ssh-port", 22, "SSH port for the connectivity check")
	return cmd
}

// runProtocol runs all the iterations for the given protocol label.
func runProtocol(ctx context.Context, opts *runOptions, base *netbench.Config, protocol string) error {
	config := *base
	config.Protocol = protocol
	if err := config.Validate(); err != nil {
		return err
	}

	dir := filepath.Join(opts.outputDir, fmt.Sprintf("results_%s_%s", protocol, time.Now().Format("20060102_150405")))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(dir, opts.logLevel)
	if err != nil {
		return err
	}
	defer closeLog()
	entry := logger.WithFields(log.Fields{
		"protocol": protocol,
		"run":      uuid.NewString(),
	})

	if !opts.skipPreflight {
		target := &netbench.SSHTarget{
			Addr:    net.JoinHostPort(config.Host, strconv.Itoa(opts.sshPort)),
			User:    config.User,
			KeyPath: opts.keyPath,
		}
		if err := netbench.CheckConnectivity(ctx, target, entry); err != nil {
			return err
		}
	}

	orchestrator := netbench.NewOrchestrator(&config, &netbench.ExecTool{}, &netbench.CSVResultStore{Dir: dir}, entry)
	run, err := orchestrator.RunAll(ctx, config.Iterations)
	if err != nil {
		entry.WithError(err).Error("run failed")
		return err
	}
	entry.Infof("completed %d iterations; results in %s", run.Len(), dir)
	return nil
}
