package memalloc

import "unsafe"

// block is the header that precedes every block's payload in an arena.
// It is never allocated on its own: it is overlaid directly on raw
// kernel-provided memory via unsafe.Pointer, so its layout here must stay
// exactly these three uint64 fields, in this order, for block.go and
// split.go's offset arithmetic to line up with what kernelAlloc handed
// back.
type block struct {
	size     uint64 // size of the payload, flagBusy/flagLast packed into the low bits
	sizePrev uint64 // size of the previous block's payload, 0 if this is the first block in the arena
	offset   uint64 // offset of this block from the start of the arena
}

// blockStructSize is sizeof(block), rounded up to Align.
var blockStructSize = roundBytes(uint64(unsafe.Sizeof(block{})))

// blockSizeMin is the smallest payload size a free block may have: it
// must be big enough to host an avlNode in place, since free blocks are
// indexed in the tree without any separate node allocation.
var blockSizeMin = roundBytes(uint64(unsafe.Sizeof(avlNode{})))

func blockToPayload(b *block) unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(b)) + uintptr(blockStructSize))
}

func payloadToBlock(ptr unsafe.Pointer) *block {
	return (*block)(unsafe.Pointer(uintptr(ptr) - uintptr(blockStructSize)))
}

func blockToNode(b *block) *avlNode {
	return (*avlNode)(blockToPayload(b))
}

func nodeToBlock(n *avlNode) *block {
	return payloadToBlock(unsafe.Pointer(n))
}

func (b *block) setSizeCurr(size uint64) {
	b.size = size | (b.size & flagMask)
}

func (b *block) sizeCurr() uint64 {
	return b.size &^ flagMask
}

func (b *block) setSizePrev(size uint64) {
	b.sizePrev = size
}

func (b *block) sizePrevVal() uint64 {
	return b.sizePrev
}

func (b *block) setBusy() {
	b.size |= flagBusy
}

func (b *block) busy() bool {
	return b.size&flagBusy != 0
}

func (b *block) clrBusy() {
	b.size &^= flagBusy
}

func (b *block) first() bool {
	return b.sizePrev == 0
}

func (b *block) setLast() {
	b.size |= flagLast
}

func (b *block) last() bool {
	return b.size&flagLast != 0
}

func (b *block) clrLast() {
	b.size &^= flagLast
}

func (b *block) setOffset(offset uint64) {
	b.offset = offset
}

func (b *block) getOffset() uint64 {
	return b.offset
}

// next returns the block physically following b in the arena. Only valid
// when b is not the last block.
func (b *block) next() *block {
	return (*block)(unsafe.Pointer(uintptr(unsafe.Pointer(b)) + uintptr(blockStructSize) + uintptr(b.sizeCurr())))
}

// prev returns the block physically preceding b in the arena. Only valid
// when b is not the first block.
func (b *block) prev() *block {
	return (*block)(unsafe.Pointer(uintptr(unsafe.Pointer(b)) - uintptr(blockStructSize) - uintptr(b.sizePrevVal())))
}

// arenaInit sets up the single block that spans a freshly obtained arena.
func arenaInit(b *block, size uint64) {
	b.size = size
	b.sizePrev = 0
	b.offset = 0
	b.setLast()
}

// blockInit clears the flags inherited from whatever this memory used to
// be, leaving size/sizePrev/offset for the caller to fill in.
func blockInit(b *block) {
	b.clrBusy()
	b.clrLast()
}
