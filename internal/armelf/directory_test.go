package armelf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func withFixture(data []byte) func() {
	orig := openOSFile
	openOSFile = func(path string) (fileHandle, error) { return newMemFile(data), nil }
	return func() { openOSFile = orig }
}

func TestOpenFile_EmptyObject(t *testing.T) {
	data, _ := buildObject(objSpec{omitSymtab: true})
	defer withFixture(data)()

	img, err := OpenFile("fixture.o", nil, nil)
	require.NoError(t, err)
	defer img.Close()

	require.False(t, img.Valid(), "empty object has no .symtab/.strtab")
	require.False(t, img.Executable())
}

func TestOpenFile_ValidExecutable(t *testing.T) {
	data, _ := buildObject(objSpec{
		entry: 0,
		text:  &payloadSpec{data: []byte{0x70, 0x47}}, // BX LR
		symbols: []symSpec{
			{name: "main", value: 0, role: ".text"},
		},
	})
	defer withFixture(data)()

	img, err := OpenFile("fixture.o", nil, nil)
	require.NoError(t, err)
	defer img.Close()

	require.True(t, img.Valid())
	require.True(t, img.Executable())
	require.True(t, img.Section(RoleText).Present())
	require.False(t, img.Section(RoleData).Present())
}

func TestOpenFile_RejectsWrongMachine(t *testing.T) {
	data, _ := buildObject(objSpec{text: &payloadSpec{data: []byte{0, 0}}})
	// Corrupt e_machine (offset 18, a uint16) to something other than EM_ARM.
	data[18] = 0xFF
	data[19] = 0xFF
	defer withFixture(data)()

	_, err := OpenFile("fixture.o", nil, nil)
	require.ErrorIs(t, err, ErrParseShape)
}
