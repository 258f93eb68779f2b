//go:build !linux

package workload

import "os"

// AdviseSequential is a no-op on platforms without posix_fadvise.
func AdviseSequential(_ *os.File) error { return nil }

// AdviseRandom is a no-op on platforms without posix_fadvise.
func AdviseRandom(_ *os.File) error { return nil }
