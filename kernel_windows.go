//go:build windows

package memalloc

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

const debugKernelReset = true

// kernelAlloc obtains size bytes of memory via VirtualAlloc, reserving
// and committing it in one call.
func kernelAlloc(size uint64) *block {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil || addr == 0 {
		if err == windows.ERROR_NOT_ENOUGH_MEMORY || err == windows.ERROR_COMMITMENT_LIMIT {
			return nil
		}
		failedKernelAlloc()
		return nil
	}
	return (*block)(unsafe.Pointer(addr))
}

// kernelFree releases memory previously obtained from kernelAlloc via
// VirtualFree.
func kernelFree(b *block, size uint64) {
	if err := windows.VirtualFree(uintptr(unsafe.Pointer(b)), 0, windows.MEM_RELEASE); err != nil {
		failedKernelFree()
	}
}

// kernelReset resets the given region via VirtualAlloc with MEM_RESET,
// letting the kernel discard its contents without unmapping it.
func kernelReset(ptr unsafe.Pointer, size uint64) {
	if debugKernelReset {
		data := unsafe.Slice((*byte)(ptr), size)
		for i := range data {
			data[i] = 0x7e
		}
	}
	if _, err := windows.VirtualAlloc(uintptr(ptr), uintptr(size), windows.MEM_RESET, windows.PAGE_READWRITE); err != nil {
		failedKernelReset()
	}
}
