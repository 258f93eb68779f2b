// Package bench executes access patterns over file and memory
// substrates and measures how long the kernel takes to serve them.
package bench

import "time"

// Result holds the averaged measurements for one benchmark case.
// Elapsed and Faults are arithmetic means over the case's iterations;
// derived metrics are computed on demand and guarded against
// zero-duration and zero-fault runs.
type Result struct {
	Name       string
	TotalBytes int64
	BlockSize  int64
	Stride     int64
	Elapsed    time.Duration
	Faults     int64
}

// ThroughputMBs returns the throughput in MB/s, or 0 when the elapsed
// time rounds to zero within measurement resolution.
func (r Result) ThroughputMBs() float64 {
	secs := r.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}

	return float64(r.TotalBytes) / (1 << 20) / secs
}

// MicrosPerFault returns the mean time per page fault in microseconds,
// or 0 when no faults were observed.
func (r Result) MicrosPerFault() float64 {
	if r.Faults <= 0 {
		return 0
	}

	return float64(r.Elapsed.Nanoseconds()) / 1000 / float64(r.Faults)
}
