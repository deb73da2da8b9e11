package memalloc

import "unsafe"

// split carves a block of exactly size bytes of payload off the front of
// b, marking b busy, and returns the free block made from whatever
// payload is left over. It returns nil if what's left over isn't big
// enough to hold its own header plus a minimum-sized free block, in
// which case b is left as a single busy block sized however much larger
// than size it already was.
func split(b *block, size uint64) *block {
	b.setBusy()

	sizeRest := b.sizeCurr() - size
	if sizeRest < blockStructSize+blockSizeMin {
		return nil
	}
	sizeRest -= blockStructSize

	b.setSizeCurr(size)

	r := b.next()
	blockInit(r)
	r.setSizeCurr(sizeRest)
	r.setSizePrev(size)
	r.setOffset(b.getOffset() + size + blockStructSize)

	if b.last() {
		b.clrLast()
		r.setLast()
	} else {
		r.next().setSizePrev(sizeRest)
	}
	return r
}

// merge combines b with the free block immediately following it, r, into
// a single block owned by b. b's busy flag is left as it was.
func merge(b, r *block) {
	size := b.sizeCurr() + r.sizeCurr() + blockStructSize
	b.setSizeCurr(size)

	if r.last() {
		b.setLast()
	} else {
		b.next().setSizePrev(size)
	}
}

// dontneed advises the kernel to drop the pages covered by b's payload
// that lie strictly between the header/tree-node prefix and the block's
// tail, if b spans more than one page. The bytes at the front of the
// payload where b's tree node goes are never touched, since Free indexes
// b right after this runs.
func dontneed(b *block) {
	sizeCurr := b.sizeCurr()
	nodeSize := uint64(unsafe.Sizeof(avlNode{}))
	if sizeCurr-nodeSize < uint64(PageSize) {
		return
	}

	offset := b.getOffset()
	pageMask := uint64(PageSize) - 1

	offset1 := offset + blockStructSize + nodeSize
	offset1 = (offset1 + pageMask) &^ pageMask

	offset2 := offset + sizeCurr + blockStructSize
	offset2 &^= pageMask

	if offset1 == offset2 {
		return
	}

	base := uintptr(unsafe.Pointer(b)) - uintptr(offset)
	kernelReset(unsafe.Pointer(base+uintptr(offset1)), offset2-offset1)
}
