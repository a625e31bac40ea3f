// Package armelf parses ELF32 ARM relocatable objects, loads their payload
// sections into memory, resolves symbols, applies relocations, and dispatches
// to the entry point. See SPEC_FULL.md for the full component breakdown.
package armelf

import "errors"

// Sentinel error kinds (SPEC_FULL.md §7). Callers distinguish failures with
// errors.Is; the wrapped message carries the offending detail.
var (
	ErrIO               = errors.New("armelf: i/o error")
	ErrParseShape       = errors.New("armelf: malformed object")
	ErrAlloc            = errors.New("armelf: allocation failed")
	ErrUnresolved       = errors.New("armelf: unresolved symbol")
	ErrUnknownRelocType = errors.New("armelf: unknown relocation type")
	ErrNoEntry          = errors.New("armelf: no entry point")
)
