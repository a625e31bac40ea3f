package armelf

import (
	"encoding/binary"
	"fmt"

	"github.com/Manu343726/armldr/internal/armrel"
)

// RelocationEvent is one applied relocation, reported after the patch
// succeeds and used by the structured diagnostic sink. Rejected entries
// produce no event; the inspector TUI uses RelocationInfo instead.
type RelocationEvent struct {
	Section    Role
	Offset     uint32
	Type       uint8
	Symbol     string
	Before     uint32
	After      uint32
}

// Relocate walks every present .rel.X section and applies its entries
// against section X (SPEC_FULL.md §4.5). Unlike the source, which always
// patches .text regardless of which .rel.X is being processed, this
// passes the correct target section X — seeing DESIGN.md for why that bug
// is fixed rather than preserved.
func Relocate(img *Image, onEvent func(RelocationEvent)) error {
	for role := Role(0); role < numRoles; role++ {
		sec := img.sections[role]
		if sec.RelOff == 0 {
			continue
		}
		if err := relocateSection(img, sec, onEvent); err != nil {
			return fmt.Errorf("relocating .rel.%s: %w", role, err)
		}
	}
	return nil
}

func relocateSection(img *Image, sec *Section, onEvent func(RelocationEvent)) error {
	var sh shdr32
	if err := img.reader.readStruct(sec.RelOff, &sh); err != nil {
		return err
	}
	count := sh.Size / relSize
	base := sectionRuntimeBase(img, sec.Role)

	for i := uint32(0); i < count; i++ {
		var raw rel32
		if err := img.reader.readStruct(int64(sh.Offset)+int64(i)*relSize, &raw); err != nil {
			return err
		}
		if raw.Offset >= uint32(len(sec.Base)) {
			return fmt.Errorf("%w: relocation offset %#x outside %s (size %#x)", ErrParseShape, raw.Offset, sec.Role, len(sec.Base))
		}
		// Every recognized relocation type patches a 4-byte window (ABS32:
		// one word; THM_CALL/THM_JUMP24: two half-words); an offset that
		// passes the check above but leaves fewer than 4 bytes to the
		// section end would otherwise panic inside applyRelocation.
		if raw.Offset+4 > uint32(len(sec.Base)) {
			return fmt.Errorf("%w: relocation offset %#x leaves less than 4 bytes in %s (size %#x)", ErrParseShape, raw.Offset, sec.Role, len(sec.Base))
		}

		sym, err := readSymbol(img, raw.symIndex())
		if err != nil {
			return err
		}
		symAddr, err := ResolveSymbolAddress(img, raw.symIndex())
		if err != nil {
			return err
		}

		patchSite := sec.Base[raw.Offset:]
		patchAddr := base + raw.Offset
		before := binary.LittleEndian.Uint32(pad4(patchSite))

		if err := applyRelocation(raw.relType(), patchSite, patchAddr, symAddr); err != nil {
			return err
		}

		if onEvent != nil {
			onEvent(RelocationEvent{
				Section: sec.Role,
				Offset:  raw.Offset,
				Type:    raw.relType(),
				Symbol:  sym.Name,
				Before:  before,
				After:   binary.LittleEndian.Uint32(pad4(patchSite)),
			})
		}
	}
	return nil
}

// RelocationInfo is a read-only view of one relocation entry, for the
// inspector TUI: it never patches memory and tolerates an unresolved
// symbol (reported as ResolveErr rather than aborting), since browsing an
// object ahead of running it should work even when the host manifest
// doesn't cover every external reference yet.
type RelocationInfo struct {
	Section    Role
	Offset     uint32
	Type       uint8
	Symbol     string
	Address    uint32
	ResolveErr error
}

// ListRelocations decodes every .rel.X entry across all present sections
// without applying any patch. Used by cmd/inspect.go.
func ListRelocations(img *Image) ([]RelocationInfo, error) {
	var out []RelocationInfo
	for role := Role(0); role < numRoles; role++ {
		sec := img.sections[role]
		if sec.RelOff == 0 {
			continue
		}
		var sh shdr32
		if err := img.reader.readStruct(sec.RelOff, &sh); err != nil {
			return nil, err
		}
		count := sh.Size / relSize
		for i := uint32(0); i < count; i++ {
			var raw rel32
			if err := img.reader.readStruct(int64(sh.Offset)+int64(i)*relSize, &raw); err != nil {
				return nil, err
			}
			sym, err := readSymbol(img, raw.symIndex())
			if err != nil {
				return nil, err
			}
			addr, resolveErr := ResolveSymbolAddress(img, raw.symIndex())
			out = append(out, RelocationInfo{
				Section:    role,
				Offset:     raw.Offset,
				Type:       raw.relType(),
				Symbol:     sym.Name,
				Address:    addr,
				ResolveErr: resolveErr,
			})
		}
	}
	return out, nil
}

// pad4 returns a 4-byte view even for a branch patch site that only needs
// 4 bytes read as two half-words; it exists purely so the diagnostic
// before/after snapshot has a uniform 32-bit shape regardless of
// relocation kind.
func pad4(b []byte) []byte {
	if len(b) >= 4 {
		return b[:4]
	}
	buf := make([]byte, 4)
	copy(buf, b)
	return buf
}

// applyRelocation dispatches on relType and patches patchSite in place
// (§4.6). patchAddr is P, symAddr is S.
func applyRelocation(relType uint8, patchSite []byte, patchAddr, symAddr uint32) error {
	switch relType {
	case armrel.TypeNone:
		return nil

	case armrel.TypeABS32:
		a := binary.LittleEndian.Uint32(patchSite[:4])
		binary.LittleEndian.PutUint32(patchSite[:4], a+symAddr)
		return nil

	case armrel.TypeTHMCall, armrel.TypeTHMJump24:
		upper := binary.LittleEndian.Uint16(patchSite[0:2])
		lower := binary.LittleEndian.Uint16(patchSite[2:4])

		off := armrel.DecodeThumb2Branch(upper, lower)
		newOff := off + int32(symAddr-patchAddr)

		newUpper, newLower := armrel.EncodeThumb2Branch(upper, lower, newOff)
		binary.LittleEndian.PutUint16(patchSite[0:2], newUpper)
		binary.LittleEndian.PutUint16(patchSite[2:4], newLower)
		return nil

	default:
		return fmt.Errorf("%w: type %s", ErrUnknownRelocType, armrel.TypeName(relType))
	}
}
