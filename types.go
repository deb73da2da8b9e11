// Package memalloc implements a mmap-backed block allocator with an
// in-band free-block index.
package memalloc

import "os"

const (
	// Align is the alignment boundary every block payload and header is
	// rounded to.
	Align = 16

	// ArenaPages is the number of pages requested from the kernel for a
	// regular (non-oversized) arena.
	ArenaPages = 16

	flagBusy uint64 = 0x1
	flagLast uint64 = 0x2
	flagMask        = flagBusy | flagLast
)

// PageSize is the size in bytes of a single page on the current platform.
var PageSize = os.Getpagesize()

// roundBytes rounds size up to the next multiple of Align.
func roundBytes(size uint64) uint64 {
	return (size + Align - 1) &^ (Align - 1)
}

// arenaSize returns the size in bytes of a regular arena request.
func arenaSize() uint64 {
	return uint64(ArenaPages) * uint64(PageSize)
}

// blockSizeMax is the largest payload size handed out of a regular arena.
// Requests above this are served directly by the kernel (the "oversized"
// path) and never enter the free-block tree.
func blockSizeMax() uint64 {
	return arenaSize() - blockStructSize
}
