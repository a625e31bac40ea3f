package armelf

import (
	"fmt"
	"log/slog"
)

// Options configures one ExecELF call.
type Options struct {
	Log          *slog.Logger
	OnRelocation func(RelocationEvent)
}

// ExecELF is the loader's single entry point (SPEC_FULL.md §6): parse path,
// load its payload sections, resolve symbols, apply relocations, and
// dispatch to the entry point exactly once. exported is the host's
// read-only symbol table. Any failure along the pipeline tears down
// whatever was already allocated and returns a wrapped sentinel error from
// errors.go; success means the loaded code ran and returned.
func ExecELF(path string, exported []HostSymbol, opts Options) error {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	img, err := OpenFile(path, exported, log)
	if err != nil {
		return err
	}
	defer img.Close()

	if !img.Valid() {
		return fmt.Errorf("%w: missing .symtab or .strtab", ErrParseShape)
	}
	if !img.Executable() {
		return fmt.Errorf("%w: missing .text", ErrParseShape)
	}

	if err := LoadSections(img); err != nil {
		return err
	}

	if err := Relocate(img, opts.OnRelocation); err != nil {
		return err
	}

	log.Info("dispatching", "path", path, "entry", img.Entry())
	if err := Dispatch(img); err != nil {
		return err
	}
	log.Info("returned from entry point", "path", path)
	return nil
}
