package bench

import (
	"fmt"
	"os"
	"time"

	"github.com/weiihann/pagebench/workload"
)

// settleDelay is how long to wait after a successful cache-drop
// request before timing starts, so the drop can take effect.
const settleDelay = 100 * time.Millisecond

// FileCase describes one file benchmark case. The file at Path is
// provisioned by the caller and opened once per case; when DropCache
// is set, a system-wide cache drop is requested before every timed
// pass. Advise, when non-nil, is applied to the open file descriptor
// before measurement and is best-effort.
type FileCase struct {
	Name       string
	Path       string
	Pattern    Pattern
	Iterations int
	DropCache  bool
	Advise     func(*os.File) error
}

// MemCase describes one anonymous-memory benchmark case. A fresh
// mapping is created for every iteration so no fault state carries
// over between passes.
type MemCase struct {
	Name       string
	Size       int
	Pattern    Pattern
	Iterations int
}

// MeasureFile runs the case's pattern over the file and returns the
// mean elapsed time across iterations. The warm-up traversal of a
// HotRepeat pattern is never timed and never counted.
func MeasureFile(c FileCase) (Result, error) {
	iters := c.Iterations
	if iters <= 0 {
		iters = 1
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", c.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", c.Path, err)
	}

	size := info.Size()

	if c.Advise != nil {
		_ = c.Advise(f)
	}

	offs := c.Pattern.Offsets(size)

	var (
		elapsed time.Duration
		bytes   int64
	)

	for i := 0; i < iters; i++ {
		if c.DropCache && workload.DropCaches() {
			time.Sleep(settleDelay)
		}

		if c.Pattern.Kind == HotRepeat {
			if _, err := readBlocks(f, offs, c.Pattern.BlockSize); err != nil {
				return Result{}, fmt.Errorf("%s: warm pass: %w", c.Name, err)
			}
		}

		start := time.Now()

		n, err := readBlocks(f, offs, c.Pattern.BlockSize)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", c.Name, err)
		}

		elapsed += time.Since(start)
		bytes = n
	}

	return Result{
		Name:       c.Name,
		TotalBytes: bytes,
		BlockSize:  c.Pattern.BlockSize,
		Stride:     c.Pattern.Stride,
		Elapsed:    elapsed / time.Duration(iters),
	}, nil
}

// MeasureMappedFile measures a pass over a file-backed memory mapping
// instead of read syscalls. Faults are served from the page cache, so
// kernel readahead still applies to the fault stream.
func MeasureMappedFile(c FileCase) (Result, error) {
	iters := c.Iterations
	if iters <= 0 {
		iters = 1
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", c.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", c.Path, err)
	}

	size := info.Size()
	offs := c.Pattern.Offsets(size)

	var elapsed time.Duration

	for i := 0; i < iters; i++ {
		if c.DropCache && workload.DropCaches() {
			time.Sleep(settleDelay)
		}

		m, err := workload.MapFile(f)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", c.Name, err)
		}

		start := time.Now()
		touchPages(m, offs, AccessRead)
		elapsed += time.Since(start)

		if err := m.Unmap(); err != nil {
			return Result{}, fmt.Errorf("%s: unmap: %w", c.Name, err)
		}
	}

	return Result{
		Name:       c.Name,
		TotalBytes: size,
		BlockSize:  c.Pattern.BlockSize,
		Elapsed:    elapsed / time.Duration(iters),
	}, nil
}

// MeasureMemory runs the case's pattern over a fresh anonymous
// mapping per iteration, recording the page-fault delta around each
// timed pass. Fault counters are best-effort and report 0 when the
// underlying counter is unavailable.
func MeasureMemory(c MemCase) (Result, error) {
	iters := c.Iterations
	if iters <= 0 {
		iters = 1
	}

	// Offsets are materialized before timing so their allocation
	// faults never land in the measured window.
	offs := c.Pattern.Offsets(int64(c.Size))

	var (
		elapsed time.Duration
		faults  int64
	)

	for i := 0; i < iters; i++ {
		mem, err := workload.MapAnonymous(c.Size)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", c.Name, err)
		}

		if c.Pattern.Kind == HotRepeat {
			touchPages(mem, offs, c.Pattern.Access)
		}

		faultsBefore := pageFaults()
		start := time.Now()

		touchPages(mem, offs, c.Pattern.Access)

		elapsed += time.Since(start)
		faults += pageFaults() - faultsBefore

		if err := workload.Unmap(mem); err != nil {
			return Result{}, fmt.Errorf("%s: unmap: %w", c.Name, err)
		}
	}

	return Result{
		Name:       c.Name,
		TotalBytes: int64(c.Size),
		BlockSize:  c.Pattern.BlockSize,
		Stride:     c.Pattern.Stride,
		Elapsed:    elapsed / time.Duration(iters),
		Faults:     faults / int64(iters),
	}, nil
}
