package hexdump

import (
	"fmt"
	"os"
)

// Buffer is an immutable view of a loaded file.
type Buffer struct {
	b []byte
}

// NewBuffer copies data so later writes by the caller are not observed.
func NewBuffer(data []byte) Buffer {
	return Buffer{b: cloneBytes(data)}
}

// Load reads the whole file at path.
func Load(path string) (Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Buffer{}, fmt.Errorf("load %s: %w", path, err)
	}
	return Buffer{b: data}, nil
}

func (b Buffer) Len() int {
	return len(b.b)
}

func (b Buffer) At(i int) byte {
	return b.b[i]
}

// Slice returns a copy of the bytes in r, clamped to the buffer.
func (b Buffer) Slice(r ByteRange) []byte {
	r = r.Clamp(len(b.b))
	return cloneBytes(b.b[r.Start:r.End])
}

func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
