// Package memalloc is a single-threaded, mmap-backed block allocator.
//
// Every allocation and free region carries an in-band header (size_curr,
// size_prev, offset) with two flag bits stolen from size_curr's low bits
// (BUSY, LAST). Free blocks are indexed by a balanced tree keyed on
// size, with the tree node physically overlaid on the first bytes of the
// block's own payload rather than separately allocated. Allocate finds a
// best-fit free block or pulls a fresh arena from the kernel; Free
// coalesces with address-adjacent free neighbours and, when a whole
// arena becomes free, releases it; Resize tries in-place shrink/grow
// before falling back to allocate-copy-free.
//
// There is no locking anywhere in this package. Concurrent calls from
// more than one goroutine are undefined behavior; see the rpc package
// for a single-mutex boundary that makes the allocator safe to expose
// over a connection.
package memalloc
