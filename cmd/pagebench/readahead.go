package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/weiihann/pagebench/bench"
	"github.com/weiihann/pagebench/report"
	"github.com/weiihann/pagebench/workload"
)

// defaultTestFile matches the path used when no argument is given.
const defaultTestFile = "/tmp/readahead_test_file"

// filePageSize is the block granularity the random read order is
// expressed in.
const filePageSize = 4 * kb

// randomReads caps the number of reads in the random-order case so it
// stays comparable to a partial pass rather than a full one.
const randomReads = 1024

func newReadaheadCmd(logger *slog.Logger) *cobra.Command {
	var (
		fileSize   int64
		seed       int64
		iterations int
		advise     bool
	)

	cmd := &cobra.Command{
		Use:   "readahead [file]",
		Short: "Benchmark file readahead across read patterns",
		Long: `Create a test file, then read it back sequentially, in reverse, with
fixed strides, in a deterministic random order, and hot from the page
cache, timing each pattern. The page cache is dropped (best-effort)
before every cold case so rows reflect readahead behavior rather than
cache residency.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := defaultTestFile
			if len(args) == 1 {
				path = args[0]
			}

			return runReadahead(logger, readaheadConfig{
				path:       path,
				size:       fileSize,
				seed:       seed,
				iterations: iterations,
				advise:     advise,
			})
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&fileSize, "size", 16*mb,
		"Test file size in bytes")
	flags.Int64Var(&seed, "seed", 12345,
		"Seed for the random read order")
	flags.IntVar(&iterations, "iterations", 1,
		"Timed passes per case (averaged)")
	flags.BoolVar(&advise, "advise", false,
		"Issue posix_fadvise hints matching each pattern")

	return cmd
}

type readaheadConfig struct {
	path       string
	size       int64
	seed       int64
	iterations int
	advise     bool
}

func runReadahead(logger *slog.Logger, cfg readaheadConfig) error {
	logger.Info("creating test file",
		slog.String("path", cfg.path),
		slog.Int64("size", cfg.size),
	)

	if err := workload.CreateFile(cfg.path, cfg.size); err != nil {
		return fmt.Errorf("provision test file: %w", err)
	}

	defer func() {
		if err := os.Remove(cfg.path); err != nil {
			logger.Warn("remove test file",
				slog.String("error", err.Error()),
			)
		}
	}()

	if !workload.DropCaches() {
		logger.Warn("cache drop unsupported; cold-cache rows may be warm")
	}

	out := os.Stdout

	report.Banner(out, "File Readahead Benchmark")
	fmt.Fprintf(out, "Test file: %s\n", cfg.path)
	fmt.Fprintf(out, "File size: %s\n", report.FormatBytes(cfg.size))
	fmt.Fprintf(out, "Page size: %d bytes\n", filePageSize)

	table := report.NewTable(out, false)

	run := func(c bench.FileCase) {
		c.Iterations = cfg.iterations

		res, err := bench.MeasureFile(c)
		if err != nil {
			logger.Warn("case failed",
				slog.String("case", c.Name),
				slog.String("error", err.Error()),
			)

			return
		}

		table.Row(res)
	}

	seqAdvise := adviseFunc(cfg.advise, workload.AdviseSequential)
	randAdvise := adviseFunc(cfg.advise, workload.AdviseRandom)

	table.Section("Cold vs Hot Cache Sequential Read (4KB block)")
	table.Header()
	run(bench.FileCase{
		Name:      "cold_cache_sequential",
		Path:      cfg.path,
		Pattern:   bench.Pattern{Kind: bench.Sequential, BlockSize: 4 * kb},
		DropCache: true,
		Advise:    seqAdvise,
	})
	run(bench.FileCase{
		Name:    "hot_cache_read (2nd pass)",
		Path:    cfg.path,
		Pattern: bench.Pattern{Kind: bench.HotRepeat, BlockSize: 4 * kb},
		Advise:  seqAdvise,
	})

	table.Section("Access Pattern Comparison (4KB block)")
	table.Header()
	run(bench.FileCase{
		Name:      "sequential",
		Path:      cfg.path,
		Pattern:   bench.Pattern{Kind: bench.Sequential, BlockSize: 4 * kb},
		DropCache: true,
		Advise:    seqAdvise,
	})
	run(bench.FileCase{
		Name:      "random_read",
		Path:      cfg.path,
		Pattern:   randomPattern(cfg.size, cfg.seed),
		DropCache: true,
		Advise:    randAdvise,
	})
	run(bench.FileCase{
		Name:      "reverse_sequential_read",
		Path:      cfg.path,
		Pattern:   bench.Pattern{Kind: bench.Reverse, BlockSize: 4 * kb},
		DropCache: true,
	})

	table.Section("Stride Access (4KB block)")
	table.Header()

	for _, stride := range []int64{4 * kb, 8 * kb, 16 * kb, 64 * kb, 256 * kb} {
		run(bench.FileCase{
			Name: fmt.Sprintf("stride_read (stride=%dKB)", stride/kb),
			Path: cfg.path,
			Pattern: bench.Pattern{
				Kind:      bench.Strided,
				BlockSize: 4 * kb,
				Stride:    stride,
			},
			DropCache: true,
		})
	}

	table.Section("Block Size Impact on Sequential Read")
	table.Header()

	for _, block := range []int64{512, 1 * kb, 4 * kb, 16 * kb, 64 * kb, 256 * kb} {
		run(bench.FileCase{
			Name:      fmt.Sprintf("sequential (block=%dB)", block),
			Path:      cfg.path,
			Pattern:   bench.Pattern{Kind: bench.Sequential, BlockSize: block},
			DropCache: true,
			Advise:    seqAdvise,
		})
	}

	table.Section("Mapped Sequential Read (4KB step)")
	table.Header()

	mapped, err := bench.MeasureMappedFile(bench.FileCase{
		Name:       "mapped_sequential_read",
		Path:       cfg.path,
		Pattern:    bench.Pattern{Kind: bench.Sequential, BlockSize: filePageSize},
		Iterations: cfg.iterations,
		DropCache:  true,
	})
	if err != nil {
		logger.Warn("case failed",
			slog.String("case", "mapped_sequential_read"),
			slog.String("error", err.Error()),
		)
	} else {
		table.Row(mapped)
	}

	fmt.Fprintln(out)
	report.Banner(out, "Benchmark Complete")

	return nil
}

// randomPattern builds the deterministic random read order: a
// permutation of the file's 4KB pages, truncated to randomReads
// visits.
func randomPattern(size, seed int64) bench.Pattern {
	perm := bench.NewPermutation(size/filePageSize, seed)
	if int64(len(perm)) > randomReads {
		perm = perm[:randomReads]
	}

	return bench.Pattern{
		Kind:      bench.Random,
		BlockSize: filePageSize,
		Perm:      perm,
	}
}

func adviseFunc(enabled bool, fn func(*os.File) error) func(*os.File) error {
	if !enabled {
		return nil
	}

	return fn
}
