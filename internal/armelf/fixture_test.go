package armelf

import (
	"bytes"
	"encoding/binary"
)

// Hand-built synthetic ELF32/ARM object fixtures, in the spirit of the
// byte-offset construction the ecosystem's own ELF parser tests use
// (binary.LittleEndian.PutUint32/16 at exact offsets) rather than a
// generic ELF-writing library, since the point is to exercise this
// package's own positional reads.

type payloadSpec struct {
	data   []byte
	nobits bool
	size   uint32
	align  uint32
}

type symSpec struct {
	name  string
	value uint32
	// role names the payload section this symbol belongs to (".text",
	// ".rodata", ".data", ".bss"), resolved to the section's index by
	// buildObject itself once it knows the layout. Empty means the symbol
	// is external (SHN_UNDEF) -- callers never need to thread a computed
	// index back into the spec that produces it.
	role string
}

type relSpec struct {
	offset uint32
	symIdx uint32
	typ    uint8
}

type objSpec struct {
	entry                                uint32
	text, rodata, data, bss              *payloadSpec
	symbols                              []symSpec
	relText, relRodata, relData, relBSS  []relSpec
	// omitSymtab skips emitting .symtab/.strtab entirely, for the "empty
	// object" scenario (spec.md §8 scenario 1) where neither is present.
	omitSymtab bool
}

type fixtureSection struct {
	name    string
	typ     uint32
	size    uint32
	offset  uint32
	align   uint32
	content []byte // nil for NOBITS
}

// buildObject assembles a complete ELF32 little-endian EM_ARM ET_REL file
// from spec, returning its bytes plus the section index each present
// payload role was assigned. spec.symbols reference sections by role name
// (symSpec.role) rather than by this index directly, so no caller needs to
// thread the computed map back into the spec that produces it; the map is
// returned for callers that want to assert on raw section indices.
func buildObject(spec objSpec) ([]byte, map[string]uint16) {
	var sections []fixtureSection
	sections = append(sections, fixtureSection{name: ""}) // NULL section, index 0
	roleIndex := make(map[string]uint16)

	addPayload := func(name string, p *payloadSpec) {
		if p == nil {
			return
		}
		fs := fixtureSection{name: name, typ: 1, align: p.align}
		if fs.align == 0 {
			fs.align = 4
		}
		if p.nobits {
			fs.typ = shtNOBITS
			fs.size = p.size
		} else {
			fs.content = p.data
			fs.size = uint32(len(p.data))
		}
		sections = append(sections, fs)
		roleIndex[name] = uint16(len(sections) - 1)
	}
	addPayload(".text", spec.text)
	addPayload(".rodata", spec.rodata)
	addPayload(".data", spec.data)
	addPayload(".bss", spec.bss)

	addRel := func(name string, entries []relSpec) {
		if len(entries) == 0 {
			return
		}
		buf := &bytes.Buffer{}
		for _, e := range entries {
			info := (e.symIdx << 8) | uint32(e.typ)
			binary.Write(buf, binary.LittleEndian, uint32(e.offset))
			binary.Write(buf, binary.LittleEndian, info)
		}
		sections = append(sections, fixtureSection{name: name, typ: 9, content: buf.Bytes(), size: uint32(buf.Len()), align: 4})
	}
	addRel(".rel.text", spec.relText)
	addRel(".rel.rodata", spec.relRodata)
	addRel(".rel.data", spec.relData)
	addRel(".rel.bss", spec.relBSS)

	// .symtab: conventional null symbol at index 0, then spec.symbols.
	if !spec.omitSymtab {
		strtabBuf := &bytes.Buffer{}
		strtabBuf.WriteByte(0)
		symtabBuf := &bytes.Buffer{}
		writeSym := func(nameOff uint32, value uint32, shndx uint16) {
			binary.Write(symtabBuf, binary.LittleEndian, nameOff) // st_name
			binary.Write(symtabBuf, binary.LittleEndian, value)   // st_value
			binary.Write(symtabBuf, binary.LittleEndian, uint32(0)) // st_size
			symtabBuf.WriteByte(0)                                // st_info
			symtabBuf.WriteByte(0)                                // st_other
			binary.Write(symtabBuf, binary.LittleEndian, shndx)   // st_shndx
		}
		writeSym(0, 0, 0)
		for _, s := range spec.symbols {
			var nameOff uint32
			if s.name != "" {
				nameOff = uint32(strtabBuf.Len())
				strtabBuf.WriteString(s.name)
				strtabBuf.WriteByte(0)
			}
			writeSym(nameOff, s.value, roleIndex[s.role])
		}
		sections = append(sections, fixtureSection{name: ".symtab", typ: 2, content: symtabBuf.Bytes(), size: uint32(symtabBuf.Len()), align: 4})
		sections = append(sections, fixtureSection{name: ".strtab", typ: 3, content: strtabBuf.Bytes(), size: uint32(strtabBuf.Len()), align: 1})
	}

	// .shstrtab: name table for section headers themselves.
	shstrBuf := &bytes.Buffer{}
	shstrBuf.WriteByte(0)
	nameOffsets := make([]uint32, len(sections))
	for i, s := range sections {
		if s.name == "" {
			nameOffsets[i] = 0
			continue
		}
		nameOffsets[i] = uint32(shstrBuf.Len())
		shstrBuf.WriteString(s.name)
		shstrBuf.WriteByte(0)
	}
	shstrndx := uint16(len(sections))
	sections = append(sections, fixtureSection{name: ".shstrtab", typ: 3, content: shstrBuf.Bytes(), size: uint32(shstrBuf.Len()), align: 1})
	nameOffsets = append(nameOffsets, nameOffsets[0]) // unused, .shstrtab's own name never looked up by the loader

	shnum := uint16(len(sections))
	shoff := uint32(ehdrSize)
	dataStart := shoff + uint32(shnum)*shdrSize

	// Assign file offsets to sections with content, in declaration order.
	offsets := make([]uint32, len(sections))
	cursor := dataStart
	for i, s := range sections {
		if s.name == "" {
			continue
		}
		offsets[i] = cursor
		if s.typ != shtNOBITS {
			cursor += uint32(len(s.content))
		}
	}

	buf := &bytes.Buffer{}

	// ELF header.
	ident := make([]byte, 16)
	ident[0], ident[1], ident[2], ident[3] = elfMag0, elfMag1, elfMag2, elfMag3
	ident[4] = elfClass32
	ident[5] = elfData2LSB
	ident[6] = 1 // EV_CURRENT
	buf.Write(ident)
	binary.Write(buf, binary.LittleEndian, uint16(etREL))
	binary.Write(buf, binary.LittleEndian, uint16(emARM))
	binary.Write(buf, binary.LittleEndian, uint32(1)) // e_version
	binary.Write(buf, binary.LittleEndian, spec.entry) // e_entry
	binary.Write(buf, binary.LittleEndian, uint32(0))  // e_phoff
	binary.Write(buf, binary.LittleEndian, shoff)      // e_shoff
	binary.Write(buf, binary.LittleEndian, uint32(0))  // e_flags
	binary.Write(buf, binary.LittleEndian, uint16(ehdrSize))
	binary.Write(buf, binary.LittleEndian, uint16(0)) // e_phentsize
	binary.Write(buf, binary.LittleEndian, uint16(0)) // e_phnum
	binary.Write(buf, binary.LittleEndian, uint16(shdrSize))
	binary.Write(buf, binary.LittleEndian, shnum)
	binary.Write(buf, binary.LittleEndian, shstrndx)

	// Section header table.
	for i, s := range sections {
		align := s.align
		if align == 0 {
			align = 1
		}
		binary.Write(buf, binary.LittleEndian, nameOffsets[i])
		binary.Write(buf, binary.LittleEndian, s.typ)
		binary.Write(buf, binary.LittleEndian, uint32(0)) // sh_flags
		binary.Write(buf, binary.LittleEndian, uint32(0)) // sh_addr
		binary.Write(buf, binary.LittleEndian, offsets[i])
		binary.Write(buf, binary.LittleEndian, s.size)
		binary.Write(buf, binary.LittleEndian, uint32(0)) // sh_link
		binary.Write(buf, binary.LittleEndian, uint32(0)) // sh_info
		binary.Write(buf, binary.LittleEndian, align)
		binary.Write(buf, binary.LittleEndian, uint32(0)) // sh_entsize
	}

	// Section payloads, in the same order offsets were assigned.
	for _, s := range sections {
		if s.name == "" || s.typ == shtNOBITS {
			continue
		}
		buf.Write(s.content)
	}

	return buf.Bytes(), roleIndex
}

// memFile adapts an in-memory byte slice to the fileHandle interface
// OpenFile expects, so tests never touch the filesystem.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(data []byte) fileHandle {
	return memFile{bytes.NewReader(data)}
}
