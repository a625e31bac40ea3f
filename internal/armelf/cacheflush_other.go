//go:build !arm

package armelf

// flushInstructionCache is a no-op off ARM: non-ARM hosts either don't
// need it (coherent caches) or this package was cross-built for
// inspection/testing rather than for on-target dispatch.
func flushInstructionCache(mem []byte) {}
