//go:build arm

package armelf

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// flushInstructionCache issues the Linux/ARM cacheflush syscall over mem,
// required because a written-then-executed region is not guaranteed
// coherent between the data and instruction caches on ARM (§5).
func flushInstructionCache(mem []byte) {
	if len(mem) == 0 {
		return
	}
	start := uintptr(unsafe.Pointer(&mem[0]))
	end := start + uintptr(len(mem))
	unix.Syscall(unix.SYS_CACHEFLUSH, start, end, 0)
}
