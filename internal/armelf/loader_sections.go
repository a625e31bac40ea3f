package armelf

import "fmt"

// LoadSections allocates and populates the four payload sections
// (SPEC_FULL.md §4.3). Sections absent from the object are left with a nil
// Base and are silently skipped by later stages.
func LoadSections(img *Image) error {
	for role := Role(0); role < numRoles; role++ {
		sec := img.sections[role]
		if !sec.Present() {
			continue
		}
		var sh shdr32
		if err := img.reader.readStruct(sec.HeaderOff, &sh); err != nil {
			return fmt.Errorf("loading %s section header: %w", role, err)
		}
		sec.Align = sh.Addralign

		if sh.Type == shtNOBITS {
			sec.Base = make([]byte, sh.Size)
			img.log.Debug("section zero-initialized", "role", role.String(), "size", sh.Size)
			continue
		}

		data, err := img.reader.readPayload(int64(sh.Offset), sh.Size)
		if err != nil {
			return fmt.Errorf("loading %s payload: %w", role, err)
		}
		sec.Base = data
		img.log.Debug("section loaded", "role", role.String(), "size", sh.Size, "align", sh.Addralign)
	}

	if img.executable {
		text := img.sections[RoleText]
		if img.entry >= text.Size() {
			return fmt.Errorf("%w: entry offset %#x outside text section of size %#x", ErrParseShape, img.entry, text.Size())
		}
	}
	return nil
}
