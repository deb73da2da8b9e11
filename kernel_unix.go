//go:build unix

package memalloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const debugKernelReset = true

// kernelAlloc obtains size bytes of anonymous, zero-filled memory
// directly from the kernel via mmap(2). It returns nil on ENOMEM and is
// fatal on any other mmap failure.
func kernelAlloc(size uint64) *block {
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		if err == unix.ENOMEM {
			return nil
		}
		failedKernelAlloc()
		return nil
	}
	return (*block)(unsafe.Pointer(&data[0]))
}

// kernelFree releases memory previously obtained from kernelAlloc via
// munmap(2).
func kernelFree(b *block, size uint64) {
	data := unsafe.Slice((*byte)(unsafe.Pointer(b)), size)
	if err := unix.Munmap(data); err != nil {
		failedKernelFree()
	}
}

// kernelReset advises the kernel that the given region is no longer
// needed, letting it reclaim the backing pages, via madvise(2)
// MADV_DONTNEED. While debugKernelReset is true (as it is here) the region
// is pre-filled with a recognizable pattern first, so stale reads show up
// obviously.
func kernelReset(ptr unsafe.Pointer, size uint64) {
	data := unsafe.Slice((*byte)(ptr), size)
	if debugKernelReset {
		for i := range data {
			data[i] = 0x7e
		}
	}
	if err := unix.Madvise(data, unix.MADV_DONTNEED); err != nil {
		failedKernelReset()
	}
}
