package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/weiihann/pagebench/bench"
	"github.com/weiihann/pagebench/report"
)

// strideCaseSize is the fixed region size for the stride, random and
// reverse cases, large enough that fault latency dominates loop
// overhead.
const strideCaseSize = 256 * mb

func newPrefetchCmd(logger *slog.Logger) *cobra.Command {
	var (
		seed       int64
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "prefetch",
		Short: "Benchmark page-fault latency over anonymous memory",
		Long: `Allocate anonymous memory regions and touch their pages sequentially,
in reverse, with fixed strides, and in a deterministic random order,
timing each pass and counting the page faults it takes. Every
iteration gets a fresh mapping so no fault state carries over.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPrefetch(logger, prefetchConfig{
				seed:       seed,
				iterations: iterations,
			})
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&seed, "seed", 0xDEADBEEF,
		"Seed for the random page order")
	flags.IntVar(&iterations, "iterations", 3,
		"Iterations per case (averaged)")

	return cmd
}

type prefetchConfig struct {
	seed       int64
	iterations int
}

func runPrefetch(logger *slog.Logger, cfg prefetchConfig) error {
	pageSize := int64(os.Getpagesize())
	out := os.Stdout

	report.Banner(out,
		"Memory Prefetch Benchmark",
		fmt.Sprintf("Page size: %d bytes | Iterations: %d",
			pageSize, cfg.iterations),
	)

	table := report.NewTable(out, true)

	run := func(c bench.MemCase) {
		c.Iterations = cfg.iterations

		res, err := bench.MeasureMemory(c)
		if err != nil {
			logger.Warn("case failed",
				slog.String("case", c.Name),
				slog.String("error", err.Error()),
			)

			return
		}

		table.Row(res)
	}

	sizes := []int64{4 * mb, 64 * mb, 256 * mb, 1 * gb}

	table.Section("Sequential Write (basic fault handling)")
	table.Header()

	for _, size := range sizes {
		run(bench.MemCase{
			Name: "seq_write",
			Size: int(size),
			Pattern: bench.Pattern{
				Kind:      bench.Sequential,
				BlockSize: pageSize,
				Access:    bench.AccessWrite,
			},
		})
	}

	table.Section("Sequential Read (read-fault latency)")
	table.Header()

	for _, size := range sizes {
		run(bench.MemCase{
			Name: "seq_read",
			Size: int(size),
			Pattern: bench.Pattern{
				Kind:      bench.Sequential,
				BlockSize: pageSize,
				Access:    bench.AccessRead,
			},
		})
	}

	table.Section("Stride Write (prefetch distance)")
	table.Header()

	for _, pages := range []int64{1, 2, 4, 8, 16, 32} {
		run(bench.MemCase{
			Name: fmt.Sprintf("stride_%d_pg", pages),
			Size: int(strideCaseSize),
			Pattern: bench.Pattern{
				Kind:      bench.Strided,
				BlockSize: pageSize,
				Stride:    pages * pageSize,
				Access:    bench.AccessWrite,
			},
		})
	}

	table.Section("Random Access (worst-case fault latency)")
	table.Header()

	run(bench.MemCase{
		Name: "random_write",
		Size: int(strideCaseSize),
		Pattern: bench.Pattern{
			Kind:      bench.Random,
			BlockSize: pageSize,
			Perm:      bench.NewPermutation(strideCaseSize/pageSize, cfg.seed),
			Access:    bench.AccessWrite,
		},
	})

	table.Section("Reverse Write (descending fault order)")
	table.Header()

	run(bench.MemCase{
		Name: "reverse_write",
		Size: int(strideCaseSize),
		Pattern: bench.Pattern{
			Kind:      bench.Reverse,
			BlockSize: pageSize,
			Access:    bench.AccessWrite,
		},
	})

	fmt.Fprintln(out)
	report.Banner(out, "Benchmark Complete")

	return nil
}
