package bench

import (
	"errors"
	"fmt"
	"io"
	mrand "math/rand"
	"os"
)

// Kind identifies one of the supported access patterns.
type Kind int

const (
	// Sequential touches block 0, 1, 2, ... to the end of the
	// substrate, including a partial final block.
	Sequential Kind = iota
	// Reverse touches the same blocks as Sequential in reversed order.
	Reverse
	// Strided advances by Stride bytes per touch while a full block
	// still fits before the end of the substrate.
	Strided
	// Random visits a precomputed permutation of block indices, each
	// exactly once.
	Random
	// HotRepeat is a sequential pass preceded by one untimed warm-up
	// pass over the same blocks.
	HotRepeat
)

// Access selects whether a memory pattern reads or writes each page.
type Access int

const (
	AccessWrite Access = iota
	AccessRead
)

// Pattern describes an access pattern over a substrate. BlockSize is
// the touch granularity (a read size for files, the page size for
// memory). Stride applies to Strided only and may exceed BlockSize;
// Perm applies to Random only and is owned by the case that built it.
type Pattern struct {
	Kind      Kind
	BlockSize int64
	Stride    int64
	Perm      []int64
	Access    Access
}

// Offsets returns the block start offsets the pattern touches, in
// touch order, for a substrate of the given size. The offset list
// fully defines a pattern; both the file reader and the memory
// toucher walk it verbatim.
func (p Pattern) Offsets(size int64) []int64 {
	switch p.Kind {
	case Sequential, HotRepeat:
		return seqOffsets(size, p.BlockSize)

	case Reverse:
		offs := seqOffsets(size, p.BlockSize)
		for i, j := 0, len(offs)-1; i < j; i, j = i+1, j-1 {
			offs[i], offs[j] = offs[j], offs[i]
		}

		return offs

	case Strided:
		if p.Stride <= 0 || p.BlockSize <= 0 {
			return nil
		}

		offs := make([]int64, 0, size/p.Stride+1)
		for off := int64(0); off+p.BlockSize <= size; off += p.Stride {
			offs = append(offs, off)
		}

		return offs

	case Random:
		offs := make([]int64, len(p.Perm))
		for i, idx := range p.Perm {
			offs[i] = idx * p.BlockSize
		}

		return offs
	}

	return nil
}

func seqOffsets(size, block int64) []int64 {
	if block <= 0 {
		return nil
	}

	offs := make([]int64, 0, (size+block-1)/block)
	for off := int64(0); off < size; off += block {
		offs = append(offs, off)
	}

	return offs
}

// NewPermutation returns a Fisher-Yates shuffle of [0, n) that is
// deterministic for a fixed seed, so runs are reproducible.
func NewPermutation(n, seed int64) []int64 {
	rng := mrand.New(mrand.NewSource(seed))

	perm := make([]int64, n)
	for i := range perm {
		perm[i] = int64(i)
	}

	for i := n - 1; i > 0; i-- {
		j := rng.Int63n(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	return perm
}

// readBlocks reads one block at each offset and returns the total
// bytes read. A partial block at the end of the file is counted as
// read; end of file terminates the walk cleanly.
func readBlocks(f *os.File, offs []int64, block int64) (int64, error) {
	buf := make([]byte, block)

	var total int64

	for _, off := range offs {
		n, err := f.ReadAt(buf, off)
		total += int64(n)

		if errors.Is(err, io.EOF) {
			if n == 0 {
				break
			}

			continue
		}

		if err != nil {
			return total, fmt.Errorf("read at offset %d: %w", off, err)
		}
	}

	return total, nil
}

// touchSink keeps read-only passes from being eliminated as dead code.
var touchSink byte

// touchPages touches the first byte of the block at each offset. A
// write dirties the page; a read folds the byte into a sum that is
// published through touchSink.
func touchPages(mem []byte, offs []int64, access Access) {
	if access == AccessRead {
		var sum byte
		for _, off := range offs {
			sum += mem[off]
		}

		touchSink = sum

		return
	}

	for _, off := range offs {
		mem[off] = 1
	}
}
