package bench

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/weiihann/pagebench/workload"
)

func TestMeasureFileSequential(t *testing.T) {
	const (
		size  = int64(16 * 1024 * 1024)
		block = int64(4096)
	)

	path := filepath.Join(t.TempDir(), "readahead_test_file")
	if err := workload.CreateFile(path, size); err != nil {
		t.Fatalf("provision test file: %v", err)
	}

	res, err := MeasureFile(FileCase{
		Name:    "sequential",
		Path:    path,
		Pattern: Pattern{Kind: Sequential, BlockSize: block},
	})
	if err != nil {
		t.Fatalf("MeasureFile failed: %v", err)
	}

	if res.TotalBytes != size {
		t.Errorf("total_bytes = %d, want %d", res.TotalBytes, size)
	}
	if res.BlockSize != block {
		t.Errorf("block_size = %d, want %d", res.BlockSize, block)
	}
	if res.Elapsed <= 0 {
		t.Errorf("elapsed = %v, want > 0", res.Elapsed)
	}
}

func TestMeasureFileHotRepeatCountsOnePass(t *testing.T) {
	const size = int64(1 << 20)

	path := filepath.Join(t.TempDir(), "hot")
	if err := workload.CreateFile(path, size); err != nil {
		t.Fatalf("provision test file: %v", err)
	}

	res, err := MeasureFile(FileCase{
		Name:    "hot",
		Path:    path,
		Pattern: Pattern{Kind: HotRepeat, BlockSize: 4096},
	})
	if err != nil {
		t.Fatalf("MeasureFile failed: %v", err)
	}

	// The warm-up traversal must contribute neither time nor bytes:
	// the reported pass covers the file exactly once.
	if res.TotalBytes != size {
		t.Errorf("total_bytes = %d, want %d", res.TotalBytes, size)
	}
}

func TestMeasureFileMissingFile(t *testing.T) {
	_, err := MeasureFile(FileCase{
		Name:    "missing",
		Path:    filepath.Join(t.TempDir(), "nope"),
		Pattern: Pattern{Kind: Sequential, BlockSize: 4096},
	})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMeasureMappedFile(t *testing.T) {
	const size = int64(1 << 20)

	path := filepath.Join(t.TempDir(), "mapped")
	if err := workload.CreateFile(path, size); err != nil {
		t.Fatalf("provision test file: %v", err)
	}

	res, err := MeasureMappedFile(FileCase{
		Name:    "mapped",
		Path:    path,
		Pattern: Pattern{Kind: Sequential, BlockSize: 4096},
	})
	if err != nil {
		t.Fatalf("MeasureMappedFile failed: %v", err)
	}

	if res.TotalBytes != size {
		t.Errorf("total_bytes = %d, want %d", res.TotalBytes, size)
	}
}

func TestMeasureMemoryFaultBounds(t *testing.T) {
	size := 4 * 1024 * 1024
	pageSize := os.Getpagesize()

	res, err := MeasureMemory(MemCase{
		Name: "seq_write",
		Size: size,
		Pattern: Pattern{
			Kind:      Sequential,
			BlockSize: int64(pageSize),
			Access:    AccessWrite,
		},
		Iterations: 3,
	})
	if err != nil {
		t.Fatalf("MeasureMemory failed: %v", err)
	}

	maxFaults := int64(size / pageSize)

	if res.Faults < 1 {
		t.Errorf("faults = %d, want at least 1", res.Faults)
	}
	if res.Faults > maxFaults {
		t.Errorf("faults = %d, want at most %d (one per page)",
			res.Faults, maxFaults)
	}
	if res.TotalBytes != int64(size) {
		t.Errorf("total_bytes = %d, want %d", res.TotalBytes, size)
	}
}

func TestMeasureMemoryReadAccess(t *testing.T) {
	size := 1 << 20

	res, err := MeasureMemory(MemCase{
		Name: "seq_read",
		Size: size,
		Pattern: Pattern{
			Kind:      Sequential,
			BlockSize: int64(os.Getpagesize()),
			Access:    AccessRead,
		},
	})
	if err != nil {
		t.Fatalf("MeasureMemory failed: %v", err)
	}

	if res.TotalBytes != int64(size) {
		t.Errorf("total_bytes = %d, want %d", res.TotalBytes, size)
	}
}
