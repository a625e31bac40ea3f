package armelf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Reader is the loader's byte-access component (SPEC_FULL.md §4.1). Every
// read is positional (pread-style): offset plus length, with no shared
// cursor. This sidesteps the save/restore discipline the C source needs
// around nested reads, per the Design Notes' "prefer positional reads"
// guidance, and is naturally safe for concurrent reads should that ever
// matter.
type Reader struct {
	r io.ReaderAt
}

// NewReader wraps r for positional access. r is typically an *os.File.
func NewReader(r io.ReaderAt) *Reader {
	return &Reader{r: r}
}

func (r *Reader) readAt(buf []byte, off int64) error {
	n, err := r.r.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%w: read at offset %d: %v", ErrIO, off, err)
	}
	if n != len(buf) {
		return fmt.Errorf("%w: short read at offset %d: got %d of %d bytes", ErrIO, off, n, len(buf))
	}
	return nil
}

// readStruct decodes a fixed-size little-endian value at off.
func (r *Reader) readStruct(off int64, v any) error {
	size := binary.Size(v)
	if size < 0 {
		return fmt.Errorf("%w: type %T has no fixed binary size", ErrParseShape, v)
	}
	buf := make([]byte, size)
	if err := r.readAt(buf, off); err != nil {
		return err
	}
	return binary.Read(bytes.NewReader(buf), binary.LittleEndian, v)
}

// readPayload copies n bytes starting at off, for section payload loading.
func (r *Reader) readPayload(off int64, n uint32) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := r.readAt(buf, off); err != nil {
		return nil, err
	}
	return buf, nil
}

// readCString streams a NUL-terminated name starting at off. Unlike the
// source's fixed 33-byte buffers (Design Notes), this has no length
// ceiling and stops exactly at the terminator or at EOF, whichever comes
// first — a name that happens to run to the end of the file is still
// returned rather than treated as an error.
func (r *Reader) readCString(off int64) (string, error) {
	const chunk = 32
	var out []byte
	buf := make([]byte, chunk)
	for {
		n, err := r.r.ReadAt(buf, off+int64(len(out)))
		if n > 0 {
			if i := bytes.IndexByte(buf[:n], 0); i >= 0 {
				out = append(out, buf[:i]...)
				return string(out), nil
			}
			out = append(out, buf[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				return string(out), nil
			}
			return "", fmt.Errorf("%w: reading string at offset %d: %v", ErrIO, off, err)
		}
	}
}
