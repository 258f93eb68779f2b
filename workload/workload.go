// Package workload provisions the substrates the benchmarks run
// against: fixed-size test files on disk and anonymous memory
// mappings, plus the best-effort page-cache controls around them.
package workload

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

// fillChunk is the write granularity when creating test files.
const fillChunk = 4096

// dropCachesPath is the Linux cache-control pseudo-file. Writing "3"
// asks the kernel to drop the page cache plus dentries and inodes.
const dropCachesPath = "/proc/sys/vm/drop_caches"

// CreateFile writes size bytes of a deterministic repeating byte
// pattern to path and forces the data to stable storage. An existing
// file at path is truncated.
func CreateFile(path string, size int64) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create test file %s: %w", path, err)
	}

	buf := make([]byte, fillChunk)
	for i := range buf {
		buf[i] = byte(i)
	}

	var written int64

	for written < size {
		n := int64(len(buf))
		if size-written < n {
			n = size - written
		}

		if _, err := f.Write(buf[:n]); err != nil {
			f.Close()

			return fmt.Errorf("write test file %s: %w", path, err)
		}

		written += n
	}

	if err := f.Sync(); err != nil {
		f.Close()

		return fmt.Errorf("sync test file %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close test file %s: %w", path, err)
	}

	return nil
}

// MapAnonymous returns a zero-initialized private anonymous mapping
// of the given size. Pages are not resident until first touch; the
// fault taken on that first touch is exactly what the memory
// benchmark measures.
func MapAnonymous(size int) ([]byte, error) {
	mem, err := unix.Mmap(
		-1,
		0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}

	return mem, nil
}

// Unmap releases a mapping returned by MapAnonymous.
func Unmap(mem []byte) error {
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}

	return nil
}

// MapFile maps f read-only into memory.
func MapFile(f *os.File) (mmap.MMap, error) {
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", f.Name(), err)
	}

	return m, nil
}

// DropCaches requests a system-wide page cache drop. The return value
// reports only whether the control write succeeded; on platforms
// without the pseudo-file, or without the privilege to write it, the
// request is silently unsupported and cold-cache numbers may actually
// be warm.
func DropCaches() bool {
	f, err := os.OpenFile(dropCachesPath, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	defer f.Close()

	_, err = f.Write([]byte("3"))

	return err == nil
}
