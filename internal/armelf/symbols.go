package armelf

import "fmt"

// Symbol is a transient view over one symbol-table entry (SPEC_FULL.md §3
// "Symbol").
type Symbol struct {
	Name    string
	Shndx   uint16
	Value   uint32
	address uint32
}

// readSymbol decodes the k-th entry of .symtab and resolves its name
// (§4.4): via .strtab when st_name != 0, otherwise via the section-header
// string table for a section symbol.
func readSymbol(img *Image, k uint32) (Symbol, error) {
	if k >= img.symCount {
		return Symbol{}, fmt.Errorf("%w: symbol index %d out of range (%d symbols)", ErrParseShape, k, img.symCount)
	}
	var raw sym32
	if err := img.reader.readStruct(img.symtabOff+int64(k)*symSize, &raw); err != nil {
		return Symbol{}, err
	}

	sym := Symbol{Shndx: raw.Shndx, Value: raw.Value}

	if raw.Name != 0 {
		name, err := img.reader.readCString(img.strtabOff + int64(raw.Name))
		if err != nil {
			return Symbol{}, err
		}
		sym.Name = name
	} else {
		name, err := sectionSymbolName(img, raw.Shndx)
		if err != nil {
			return Symbol{}, err
		}
		sym.Name = name
	}
	return sym, nil
}

// sectionSymbolName resolves an unnamed (section) symbol's name via the
// section-header string table, by re-reading the header of section index
// shndx (§4.4).
func sectionSymbolName(img *Image, shndx uint16) (string, error) {
	hdrOff := img.shoff + int64(shndx)*shdrSize
	var sh shdr32
	if err := img.reader.readStruct(hdrOff, &sh); err != nil {
		return "", err
	}
	return img.reader.readCString(img.shstrOff + int64(sh.Name))
}

// ResolveSymbolAddress determines the runtime address of symbol index k
// (§4.4): the host-exported table when st_shndx == SHN_UNDEF, otherwise
// section_base(st_shndx) + st_value.
func ResolveSymbolAddress(img *Image, k uint32) (uint32, error) {
	sym, err := readSymbol(img, k)
	if err != nil {
		return 0, err
	}

	if sym.Shndx == shnUndef {
		addr, ok := Lookup(img.exported, sym.Name)
		if !ok {
			return 0, fmt.Errorf("%w: external symbol %q", ErrUnresolved, sym.Name)
		}
		return addr, nil
	}

	for role := Role(0); role < numRoles; role++ {
		sec := img.sections[role]
		if sec.Present() && sec.Index == sym.Shndx {
			base := sectionRuntimeBase(img, role)
			return base + sym.Value, nil
		}
	}
	return 0, fmt.Errorf("%w: symbol %q references untracked section index %d", ErrUnresolved, sym.Name, sym.Shndx)
}

// ListSymbols decodes every .symtab entry, for the inspector TUI. It never
// fails on an individual symbol's address not resolving to a tracked
// section; Symbol itself carries only name/shndx/value, which are always
// derivable from the table.
func ListSymbols(img *Image) ([]Symbol, error) {
	syms := make([]Symbol, 0, img.symCount)
	for k := uint32(0); k < img.symCount; k++ {
		sym, err := readSymbol(img, k)
		if err != nil {
			return nil, err
		}
		syms = append(syms, sym)
	}
	return syms, nil
}

// sectionRuntimeBase returns the loaded payload's address, modeled as the
// byte slice's backing array address. Patches happen by index into Base
// directly; this is only needed to express "section_base + st_value" as a
// number (e.g. for R_ARM_ABS32 and diagnostics) and for bounds checks.
func sectionRuntimeBase(img *Image, role Role) uint32 {
	return runtimeAddress(img.sections[role].Base)
}
