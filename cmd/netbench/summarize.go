package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/bassosimone/netbench"
	"github.com/spf13/cobra"
)

// newSummarizeCmd creates the summarize command.
func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize RESULTS_CSV",
		Short: "Recompute the summary statistics of a results file",
		Long:  "summarize reads a test_results.csv file and writes summary_statistics.csv\nin the same directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetHandler(cli.New(os.Stderr))
			summary, err := summarizeFile(args[0])
			if err != nil {
				return err
			}
			log.Infof("summarized %d metrics", len(summary))
			return printSummary(cmd, summary)
		},
	}
}

// summarizeFile loads a results file and saves its summary next to it.
func summarizeFile(filename string) (netbench.Summary, error) {
	run, err := netbench.LoadResults(filename)
	if err != nil {
		return nil, err
	}
	summary, err := netbench.Summarize(run)
	if err != nil {
		return nil, err
	}
	store := &netbench.CSVResultStore{Dir: filepath.Dir(filename)}
	if err := store.SaveSummary(summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// printSummary prints the summary as a table on the command output.
func printSummary(cmd *cobra.Command, summary netbench.Summary) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Metric\tMean\tMedian\tStdDev\tMin\tMax")
	for _, e := range summary {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n", e.Metric, e.Mean, e.Median, e.StdDev, e.Min, e.Max)
	}
	return tw.Flush()
}
