//go:build linux

package workload

import (
	"os"

	"golang.org/x/sys/unix"
)

// AdviseSequential hints the kernel that f will be read sequentially,
// which enables aggressive readahead for the whole file.
func AdviseSequential(f *os.File) error {
	return unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}

// AdviseRandom hints the kernel that f will be read in random order,
// which disables readahead for the whole file.
func AdviseRandom(f *os.File) error {
	return unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_RANDOM)
}
