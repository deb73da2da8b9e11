package memalloc

import "unsafe"

// Allocate reserves size bytes and returns a pointer to the payload, or
// nil if the kernel is out of memory. Requests above the regular arena's
// capacity are served directly from the kernel and never enter the
// free-block tree — such a block is also never marked busy, since
// nothing in the oversized path ever inspects that flag again before
// Free tears the whole arena back down.
func Allocate(size uint64) unsafe.Pointer {
	if size > blockSizeMax() {
		if size > ^uint64(0)-uint64(PageSize)-blockStructSize {
			return nil // overflow
		}
		arenaBytes := (roundBytes(size)+uint64(PageSize)-1)/uint64(PageSize)*uint64(PageSize) + blockStructSize
		b := arenaAlloc(arenaBytes)
		if b == nil {
			return nil
		}
		Debug("allocate: oversized request of %d bytes served directly (%d byte arena)", size, arenaBytes)
		return blockToPayload(b)
	}

	if size < blockSizeMin {
		size = blockSizeMin
	}
	size = roundBytes(size)

	var b *block
	node := blocksTree.findBest(size)
	if node == nil {
		b = arenaAlloc(size)
		if b == nil {
			return nil
		}
		Debug("allocate: no fit for %d bytes, pulled a fresh arena", size)
	} else {
		blocksTree.remove(node)
		b = nodeToBlock(node)
	}

	if r := split(b, size); r != nil {
		treeAddBlock(r)
	}
	return blockToPayload(b)
}

// Free releases the block that ptr points into. Freeing nil is a no-op.
// Freeing a pointer that wasn't returned by Allocate, or that has
// already been freed, is undefined behavior: the allocator trusts the
// header it finds there.
func Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	b := payloadToBlock(ptr)
	b.clrBusy()

	if b.sizeCurr() > blockSizeMax() {
		kernelFree(b, b.sizeCurr()+blockStructSize)
		return
	}

	if !b.last() {
		r := b.next()
		if !r.busy() {
			treeRemoveBlock(r)
			merge(b, r)
		}
	}
	if !b.first() {
		l := b.prev()
		if !l.busy() {
			treeRemoveBlock(l)
			merge(l, b)
			b = l
		}
	}

	if b.first() && b.last() {
		kernelFree(b, arenaSize())
		return
	}

	dontneed(b)
	treeAddBlock(b)
}

// Resize changes the size of the block ptr points into, preserving its
// contents up to the smaller of the old and new sizes. ptr may be nil,
// in which case Resize behaves like Allocate. It returns nil only if
// growing or moving the block failed to find memory; the original block
// is left untouched in that case.
func Resize(ptr unsafe.Pointer, size uint64) unsafe.Pointer {
	if size < blockSizeMin {
		size = blockSizeMin
	}
	size = roundBytes(size)

	if ptr == nil {
		return Allocate(size)
	}

	b := payloadToBlock(ptr)
	sizeCurr := b.sizeCurr()

	if sizeCurr > blockSizeMax() {
		if size == sizeCurr {
			return ptr
		}
		return moveBlock(ptr, sizeCurr, size)
	}

	if size == sizeCurr {
		return ptr
	}

	if size < sizeCurr {
		if b.last() {
			// The last block of an arena is not split when shrinking;
			// it's returned unchanged rather than attempting a move:
			// the caller asked for less, not more, and this pointer is
			// still perfectly valid for that.
			return ptr
		}
		if r := split(b, size); r != nil {
			n := r.next()
			if !n.busy() {
				treeRemoveBlock(n)
				merge(r, n)
			}
			treeAddBlock(r)
			return blockToPayload(b)
		}
		return ptr
	}

	// size > sizeCurr
	if !b.last() {
		r := b.next()
		if !r.busy() {
			total := sizeCurr + r.sizeCurr() + blockStructSize
			if total >= size {
				treeRemoveBlock(r)
				merge(b, r)
				if n := split(b, size); n != nil {
					treeAddBlock(n)
				}
				return blockToPayload(b)
			}
		}
	}

	return moveBlock(ptr, sizeCurr, size)
}

func moveBlock(ptr unsafe.Pointer, sizeCurr, size uint64) unsafe.Pointer {
	dst := Allocate(size)
	if dst == nil {
		return nil
	}
	n := sizeCurr
	if size < n {
		n = size
	}
	copyBytes(dst, ptr, n)
	Free(ptr)
	return dst
}

func copyBytes(dst, src unsafe.Pointer, n uint64) {
	d := unsafe.Slice((*byte)(dst), n)
	s := unsafe.Slice((*byte)(src), n)
	copy(d, s)
}

// BlockSizeOf returns the current payload size of the block ptr points
// into. Intended for diagnostics; the façade itself never needs this.
func BlockSizeOf(ptr unsafe.Pointer) uint64 {
	return payloadToBlock(ptr).sizeCurr()
}

// Show prints every free block currently indexed, in ascending size
// order, along with its busy/first/last flags. Intended for debugging
// and the demo driver, not for anything on the hot path.
func Show(msg string) {
	Info("%s:", msg)
	if blocksTree.isEmpty() {
		Info("tree is empty")
		return
	}
	blocksTree.walk(func(n *avlNode) {
		b := nodeToBlock(n)
		state := "free"
		if b.busy() {
			state = "busy"
		}
		tags := ""
		if b.first() {
			tags += " first"
		}
		if b.last() {
			tags += " last"
		}
		Info("[%p] size=%d size_prev=%d %s%s", b, b.sizeCurr(), b.sizePrevVal(), state, tags)
	})
}
