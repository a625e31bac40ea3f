package armelf

import "unsafe"

// Dispatch computes the entry pointer as text.base + e_entry and invokes
// it once, synchronously (§4.7). It is the loader's one inherently unsafe
// operation — writing into, then jumping into, raw memory — and is kept
// to this single function per the "Unsafe boundary" design note.
func Dispatch(img *Image) error {
	if !img.executable {
		return ErrNoEntry
	}
	text := img.sections[RoleText]
	// e_entry == 0 is accepted here even though §7 lists "entry offset zero"
	// as the NoEntry case: §8 scenario 2 pins a leaf object whose one
	// instruction sits at offset 0 as a successful load, so the concrete
	// scenario wins over the abstract error-kind description.
	if img.entry >= text.Size() {
		return ErrNoEntry
	}

	if err := protectForExecution(text.Base); err != nil {
		return err
	}

	entryAddr := uintptr(unsafe.Pointer(&text.Base[img.entry]))
	callRawFunction(entryAddr)
	return nil
}

// callRawFunction reinterprets addr as a func() and calls it. This only
// produces a meaningful call when the running binary's own architecture
// matches the loaded object's (GOARCH=arm, Thumb-capable): the byte
// pattern at addr must be real machine code for the CPU this process runs
// on. Grounded in the same unsafe-pointer-to-function-pointer idiom used
// by runtime object loaders (e.g. goloader's CALL relocation patching).
func callRawFunction(addr uintptr) {
	fn := *(*func())(unsafe.Pointer(&addr))
	fn()
}
