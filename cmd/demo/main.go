// Command demo runs a fixed allocate/resize/free sequence against the
// allocator and prints the block sizes it observes at each step, the
// same script the test suite's seed scenarios are drawn from.
package main

import (
	"fmt"

	"github.com/shenjiangwei/memalloc"
)

func main() {
	fmt.Println("Starting allocator demo")
	fmt.Println()

	p1 := memalloc.Allocate(100000)
	memalloc.Show("first allocated block constitutes an arena bigger than the max block size")
	fmt.Printf("allocated size for p1: %d\n\n", memalloc.BlockSizeOf(p1))

	p2 := memalloc.Allocate(5)
	fmt.Printf("allocated size for p2 (requested 5, rounded up to minimum): %d\n", memalloc.BlockSizeOf(p2))

	p3 := memalloc.Allocate(543)
	fmt.Printf("allocated size for p3: %d\n", memalloc.BlockSizeOf(p3))

	p4 := memalloc.Allocate(4096)
	fmt.Printf("allocated size for p4: %d\n", memalloc.BlockSizeOf(p4))

	memalloc.Show("result of allocations")

	p5 := memalloc.Allocate(543)
	fmt.Printf("\nallocated size for p5: %d\n\n", memalloc.BlockSizeOf(p5))

	memalloc.Show("result of another allocation")

	p1 = memalloc.Resize(p1, 80000)
	memalloc.Show("\nreallocated p1 from 100000 -> 80000")

	memalloc.Free(p5)
	memalloc.Show("\nfreed p5")

	p4 = memalloc.Resize(p4, 2543)
	memalloc.Show("\nreallocated p4 -> 2543")
	fmt.Printf("\nnew allocated size for p4: %d\n", memalloc.BlockSizeOf(p4))

	memalloc.Free(p1)
	memalloc.Free(p2)
	memalloc.Free(p3)
	memalloc.Free(p4)
	memalloc.Show("\nfreed remaining blocks")
}
