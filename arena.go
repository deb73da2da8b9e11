package memalloc

// arenaAlloc obtains a fresh arena from the kernel. If size exceeds the
// largest payload a regular arena can hand out, the kernel is asked for
// exactly enough pages to cover size; otherwise a full regular arena is
// requested, regardless of how much of it the caller actually needs.
func arenaAlloc(size uint64) *block {
	var b *block
	if size > blockSizeMax() {
		b = kernelAlloc(size)
		if b != nil {
			arenaInit(b, size-blockStructSize)
		}
	} else {
		b = kernelAlloc(arenaSize())
		if b != nil {
			arenaInit(b, arenaSize()-blockStructSize)
		}
	}
	return b
}
