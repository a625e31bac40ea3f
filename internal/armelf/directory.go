package armelf

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// fileHandle is the minimal surface OpenFile needs from an opened object
// file: positional reads plus close. Tests substitute an in-memory
// implementation over a synthetic fixture (see directory_test.go).
type fileHandle interface {
	io.ReaderAt
	io.Closer
}

// foundFlags is the running bitmask of discovered roles (§4.2, §9). The
// source reuses one bit (FoundRelText) for all three non-text .rel.*
// siblings; that copy-paste bug is fixed here by giving each relocation
// sibling its own bit, so the early-exit short circuit actually covers
// every recognized section once all are seen. See DESIGN.md.
type foundFlags uint16

const (
	foundSymtab foundFlags = 1 << iota
	foundStrtab
	foundText
	foundRodata
	foundData
	foundBSS
	foundRelText
	foundRelRodata
	foundRelData
	foundRelBSS

	foundValid = foundSymtab | foundStrtab
	foundAll   = foundValid | foundText | foundRodata | foundData | foundBSS |
		foundRelText | foundRelRodata | foundRelData | foundRelBSS
)

// OpenFile opens path and returns a positioned, section-directory-parsed
// Image. On any error the file is closed and no Image is returned.
func OpenFile(path string, exported []HostSymbol, log *slog.Logger) (*Image, error) {
	f, err := openOSFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrIO, path, err)
	}
	if log == nil {
		log = slog.Default()
	}
	img := &Image{
		reader:   NewReader(f),
		closer:   f,
		log:      log,
		exported: exported,
	}
	for role := Role(0); role < numRoles; role++ {
		img.sections[role] = &Section{Role: role}
	}
	if err := parseSectionDirectory(img); err != nil {
		img.Close()
		return nil, err
	}
	return img, nil
}

// openOSFile is split out so tests can substitute an in-memory ReaderAt
// without going through the filesystem (see directory_test.go).
var openOSFile = func(path string) (fileHandle, error) {
	return os.Open(path)
}

func parseSectionDirectory(img *Image) error {
	var hdr ehdr32
	if err := img.reader.readStruct(0, &hdr); err != nil {
		return err
	}
	if hdr.Ident[0] != elfMag0 || hdr.Ident[1] != elfMag1 || hdr.Ident[2] != elfMag2 || hdr.Ident[3] != elfMag3 {
		return fmt.Errorf("%w: bad ELF magic", ErrParseShape)
	}
	if hdr.Ident[4] != elfClass32 {
		return fmt.Errorf("%w: not ELFCLASS32", ErrParseShape)
	}
	if hdr.Ident[5] != elfData2LSB {
		return fmt.Errorf("%w: not little-endian", ErrParseShape)
	}
	if hdr.Type != etREL {
		return fmt.Errorf("%w: not ET_REL", ErrParseShape)
	}
	if hdr.Machine != emARM {
		return fmt.Errorf("%w: not EM_ARM", ErrParseShape)
	}

	img.entry = hdr.Entry
	img.numSections = hdr.Shnum
	img.shoff = int64(hdr.Shoff)

	if hdr.Shnum == 0 {
		return nil
	}

	var shstrHdr shdr32
	if err := img.reader.readStruct(img.shoff+int64(hdr.Shstrndx)*shdrSize, &shstrHdr); err != nil {
		return err
	}
	img.shstrOff = int64(shstrHdr.Offset)

	var flags foundFlags
	for n := uint16(1); n < hdr.Shnum; n++ {
		if flags&foundAll == foundAll {
			break
		}
		hdrOff := img.shoff + int64(n)*shdrSize
		var sh shdr32
		if err := img.reader.readStruct(hdrOff, &sh); err != nil {
			return err
		}
		name, err := img.reader.readCString(img.shstrOff + int64(sh.Name))
		if err != nil {
			return err
		}

		switch name {
		case ".symtab":
			img.symtabOff = int64(sh.Offset)
			img.symCount = sh.Size / symSize
			flags |= foundSymtab
		case ".strtab":
			img.strtabOff = int64(sh.Offset)
			flags |= foundStrtab
		case ".text":
			img.sections[RoleText].Index = n
			img.sections[RoleText].HeaderOff = hdrOff
			flags |= foundText
		case ".rodata":
			img.sections[RoleRodata].Index = n
			img.sections[RoleRodata].HeaderOff = hdrOff
			flags |= foundRodata
		case ".data":
			img.sections[RoleData].Index = n
			img.sections[RoleData].HeaderOff = hdrOff
			flags |= foundData
		case ".bss":
			img.sections[RoleBSS].Index = n
			img.sections[RoleBSS].HeaderOff = hdrOff
			flags |= foundBSS
		case ".rel.text":
			img.sections[RoleText].RelOff = hdrOff
			flags |= foundRelText
		case ".rel.rodata":
			img.sections[RoleRodata].RelOff = hdrOff
			flags |= foundRelRodata
		case ".rel.data":
			img.sections[RoleData].RelOff = hdrOff
			flags |= foundRelData
		case ".rel.bss":
			img.sections[RoleBSS].RelOff = hdrOff
			flags |= foundRelBSS
		default:
			// unrecognized section, ignored per §4.2
		}
	}

	img.valid = flags&foundValid == foundValid
	img.executable = img.valid && flags&foundText != 0

	img.log.Debug("section directory parsed",
		"sections", hdr.Shnum, "valid", img.valid, "executable", img.executable)

	return nil
}
