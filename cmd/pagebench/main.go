// Package main provides the CLI entry point for pagebench, a pair of
// OS-level benchmark suites probing file readahead behavior and
// page-fault latency over anonymous memory.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const (
	kb = int64(1024)
	mb = 1024 * kb
	gb = 1024 * mb
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("benchmark failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "pagebench",
		Short: "OS page cache and page fault benchmarks",
		Long: `Pagebench measures two kernel behaviors from userspace: how file
readahead serves sequential, random, strided and reverse read patterns,
and how quickly page faults populate anonymous memory under the same
access orders. It implements neither; both live in the kernel, and
pagebench only issues syscalls, times them, and tabulates the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newReadaheadCmd(logger))
	root.AddCommand(newPrefetchCmd(logger))

	return root
}
