package memalloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func writePattern(ptr unsafe.Pointer, n uint64, b byte) {
	s := unsafe.Slice((*byte)(ptr), n)
	for i := range s {
		s[i] = b
	}
}

func readPattern(ptr unsafe.Pointer, n uint64) []byte {
	s := unsafe.Slice((*byte)(ptr), n)
	out := make([]byte, n)
	copy(out, s)
	return out
}

func TestBasicAllocateFree(t *testing.T) {
	p := Allocate(128)
	require.NotNil(t, p)
	writePattern(p, 128, 0xab)
	Free(p)
}

func TestMultipleAllocationsDistinctRanges(t *testing.T) {
	var ptrs []unsafe.Pointer
	for i := 0; i < 16; i++ {
		p := Allocate(256)
		require.NotNil(t, p)
		ptrs = append(ptrs, p)
	}
	seen := map[unsafe.Pointer]bool{}
	for _, p := range ptrs {
		require.False(t, seen[p], "duplicate pointer returned by Allocate")
		seen[p] = true
	}
	for _, p := range ptrs {
		Free(p)
	}
}

// S1: allocating more than fits in a regular arena goes straight to the
// kernel and is never visible in the free tree.
func TestOversizedAllocationBypassesTree(t *testing.T) {
	before := treeSize(t)
	size := blockSizeMax() + 4096
	p := Allocate(size)
	require.NotNil(t, p)
	require.Equal(t, before, treeSize(t), "oversized allocation must not touch the tree")
	Free(p)
}

// S2/S3-ish: a too-small request is rounded up to the minimum block
// size and alignment.
func TestTinyAllocationRoundsUpToMinimum(t *testing.T) {
	p := Allocate(1)
	require.NotNil(t, p)
	b := payloadToBlock(p)
	require.GreaterOrEqual(t, b.sizeCurr(), blockSizeMin)
	require.True(t, b.busy())
	Free(p)
}

// S4: freeing and reallocating the same size should reuse the freed
// block via the tree rather than pulling a new arena. a and c are kept
// busy so freeing b can't coalesce it away into the whole-arena release
// path.
func TestFreeThenReallocateReusesBlock(t *testing.T) {
	a := Allocate(4096)
	b := Allocate(4096)
	c := Allocate(4096)
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.NotNil(t, c)

	Free(b)

	before := treeSize(t)
	require.Greater(t, before, 0)

	b2 := Allocate(4096)
	require.NotNil(t, b2)
	require.Equal(t, b, b2, "freed block should be reused for an identical-size request")

	Free(a)
	Free(b2)
	Free(c)
}

// S5: adjacent free blocks coalesce into one.
func TestAdjacentFreeBlocksCoalesce(t *testing.T) {
	a := Allocate(2048)
	b := Allocate(2048)
	c := Allocate(2048)
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.NotNil(t, c)

	Free(a)
	Free(c)

	beforeMerge := treeSize(t)
	Free(b)
	afterMerge := treeSize(t)

	// a, b and c were contiguous, so freeing b must merge with both
	// neighbours rather than adding a third disjoint entry.
	require.Less(t, afterMerge, beforeMerge+1)
}

// S6: resize that shrinks in place keeps the same pointer and merges the
// carved remainder with a free right neighbour.
func TestResizeShrinkInPlaceKeepsPointer(t *testing.T) {
	d := Allocate(4096)
	require.NotNil(t, d)
	e := Allocate(512)
	require.NotNil(t, e)
	Free(e)

	writePattern(d, 4096, 0x42)
	got := Resize(d, 2543)
	require.Equal(t, d, got)

	data := readPattern(got, 2543)
	for _, c := range data {
		require.Equal(t, byte(0x42), c)
	}
	Free(got)
}

func TestResizeGrowInPlaceWhenNeighbourFits(t *testing.T) {
	a := Allocate(1024)
	b := Allocate(1024)
	require.NotNil(t, a)
	require.NotNil(t, b)
	Free(b)

	writePattern(a, 1024, 0x11)
	got := Resize(a, 1900)
	require.NotNil(t, got)
	require.Equal(t, a, got)

	data := readPattern(got, 1024)
	for _, c := range data {
		require.Equal(t, byte(0x11), c)
	}
	Free(got)
}

func TestResizeMovesWhenNoRoom(t *testing.T) {
	a := Allocate(256)
	b := Allocate(256)
	require.NotNil(t, a)
	require.NotNil(t, b) // keep b busy so a has nowhere to grow

	writePattern(a, 256, 0x99)
	got := Resize(a, blockSizeMax()+8192)
	require.NotNil(t, got)

	data := readPattern(got, 256)
	for _, c := range data {
		require.Equal(t, byte(0x99), c)
	}
	Free(got)
	Free(b)
}

func TestResizeNilActsLikeAllocate(t *testing.T) {
	p := Resize(nil, 64)
	require.NotNil(t, p)
	Free(p)
}

func TestFreeNilIsNoop(t *testing.T) {
	Free(nil)
}

// S7: allocate and free every block in a fresh arena; the arena must be
// released and the tree must end up empty.
func TestFullArenaCycleEmptiesTree(t *testing.T) {
	size := uint64(4096)
	count := int(blockSizeMax() / (size + blockStructSize))

	var ptrs []unsafe.Pointer
	for i := 0; i < count; i++ {
		p := Allocate(size)
		require.NotNil(t, p)
		ptrs = append(ptrs, p)
	}
	for _, p := range ptrs {
		Free(p)
	}
	require.True(t, blocksTree.isEmpty())
}

func treeSize(t *testing.T) int {
	t.Helper()
	n := 0
	blocksTree.walk(func(*avlNode) { n++ })
	return n
}
