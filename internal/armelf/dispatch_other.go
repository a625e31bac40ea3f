//go:build !unix

package armelf

// protectForExecution is a no-op on non-unix targets: this loader assumes
// the unified writable+executable memory model §5 describes as the
// source's baseline assumption, with no W^X split to reconcile.
func protectForExecution(mem []byte) error { return nil }
