package main

import "github.com/spf13/cobra"

// newRootCmd creates the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "netbench",
		Short:         "Repeatable network performance benchmarks",
		Long:          "netbench measures throughput, latency, resource usage, file transfer speed\nand degraded network performance of a remote host over many iterations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newSummarizeCmd())
	return cmd
}
