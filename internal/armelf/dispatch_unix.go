//go:build unix

package armelf

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// protectForExecution performs the cache-flush-plus-protection-change step
// the Design Notes mandate for any host with a W^X memory model
// (SPEC_FULL.md §5 "Memory protection"): mprotect the text region from
// RW to RX, then flush the instruction cache on architectures where the
// data and instruction caches are not coherent. The source has neither
// step; this is the one place this implementation adds behavior the
// source never had, and it is isolated here per the "Unsafe boundary"
// design note.
func protectForExecution(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return fmt.Errorf("%w: mprotect RX: %v", ErrAlloc, err)
	}
	if runtime.GOARCH == "arm" {
		flushInstructionCache(mem)
	}
	return nil
}
