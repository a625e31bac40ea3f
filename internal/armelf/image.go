package armelf

import (
	"fmt"
	"io"
	"log/slog"
)

// Role names the four payload sections the loader tracks (SPEC_FULL.md §2,
// §4.2). Index order is the fixed order Roles() returns.
type Role int

const (
	RoleText Role = iota
	RoleRodata
	RoleData
	RoleBSS
	numRoles
)

func (r Role) String() string {
	switch r {
	case RoleText:
		return "text"
	case RoleRodata:
		return "rodata"
	case RoleData:
		return "data"
	case RoleBSS:
		return "bss"
	default:
		return "unknown"
	}
}

func (r Role) sectionName() string { return "." + r.String() }
func (r Role) relName() string     { return ".rel." + r.String() }

// Roles lists the four tracked payload roles in fixed order, for callers
// (e.g. cmd/inspect.go) that need to enumerate them without reaching into
// the unexported role count.
func Roles() []Role { return []Role{RoleText, RoleRodata, RoleData, RoleBSS} }

// Section is one of the four tracked payload sections (SPEC_FULL.md §3
// "Section record"). Base is the owned, loaded allocation; it is nil until
// LoadSections runs and freed (set back to nil) on teardown.
type Section struct {
	Role      Role
	Index     uint16 // 0 if this role is absent from the object
	HeaderOff int64  // file offset of this section's header, 0 if absent
	RelOff    int64  // file offset of its .rel.X header, 0 if none
	Align     uint32
	Base      []byte
}

// Present reports whether the object declared this section at all.
func (s *Section) Present() bool { return s.Index != 0 && s.HeaderOff != 0 }

// Size is the loaded payload length, 0 before LoadSections runs.
func (s *Section) Size() uint32 { return uint32(len(s.Base)) }

// HexDump renders the loaded payload as a hex dump, the structured
// equivalent of the source's dumpSection debug aid (SPEC_FULL.md
// "Supplemented features"). Bytes are printed in memory order; no byte
// swapping is applied.
func (s *Section) HexDump(w io.Writer, bytesPerLine int) {
	if bytesPerLine <= 0 {
		bytesPerLine = 16
	}
	for off := 0; off < len(s.Base); off += bytesPerLine {
		end := off + bytesPerLine
		if end > len(s.Base) {
			end = len(s.Base)
		}
		fmt.Fprintf(w, "%08x  ", off)
		for _, b := range s.Base[off:end] {
			fmt.Fprintf(w, "%02x ", b)
		}
		fmt.Fprintln(w)
	}
}

// HostSymbol is one (name, address) binding the host firmware exports
// (SPEC_FULL.md §3 "Host-exported entry"). The host's array is terminated
// by a null-address sentinel in the original C layout; in Go the slice
// length is the terminator and no sentinel entry is needed, but Lookup
// still treats an explicit zero-address entry as absent for parity with
// manifests transcribed from C headers (internal/hostsyms).
type HostSymbol struct {
	Name    string
	Address uint32
}

// Lookup performs the linear scan §4.4 specifies for externally-resolved
// symbols.
func Lookup(table []HostSymbol, name string) (uint32, bool) {
	for _, sym := range table {
		if sym.Address == 0 {
			continue
		}
		if sym.Name == name {
			return sym.Address, true
		}
	}
	return 0, false
}

// Image is one loaded object (SPEC_FULL.md §3 "Object image"). It owns the
// four section allocations and the underlying file for its lifetime.
type Image struct {
	reader   *Reader
	closer   io.Closer
	log      *slog.Logger
	exported []HostSymbol

	entry       uint32
	numSections uint16
	shoff       int64
	shstrOff    int64
	symtabOff   int64
	symCount    uint32
	strtabOff   int64

	sections [numRoles]*Section

	valid      bool
	executable bool
}

// Section returns the tracked record for role (never nil, but may be
// !Present()).
func (img *Image) Section(role Role) *Section { return img.sections[role] }

// Valid reports whether both .symtab and .strtab were found (§4.2).
func (img *Image) Valid() bool { return img.valid }

// Executable reports Valid() plus .text present (§4.2).
func (img *Image) Executable() bool { return img.executable }

// Entry is the raw e_entry field, an offset within the text section.
func (img *Image) Entry() uint32 { return img.entry }

// Close releases the four section allocations and the underlying file.
// Safe to call multiple times and safe to call on a partially loaded image.
func (img *Image) Close() error {
	for _, s := range img.sections {
		s.Base = nil
	}
	if img.closer != nil {
		err := img.closer.Close()
		img.closer = nil
		return err
	}
	return nil
}
