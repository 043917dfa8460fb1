package hexdump

import (
	"strings"
)

const hexDigits = "0123456789abcdef"

// OffsetWidth is the minimum number of hex digits in an offset field.
const OffsetWidth = 4

// Lanes holds the three rendered views of a buffer.
type Lanes struct {
	Offset string
	Hex    string
	Ascii  string
}

func (l Lanes) Text(lane Lane) string {
	switch lane {
	case LaneHex:
		return l.Hex
	case LaneAscii:
		return l.Ascii
	default:
		return l.Offset
	}
}

// Render produces the offset, hex and ascii lanes for buf. The layout must
// already be valid.
func Render(buf Buffer, layout Layout) Lanes {
	n := buf.Len()
	if n == 0 {
		return Lanes{}
	}
	rows := layout.Rows(n)

	var offset, hex, ascii strings.Builder
	offset.Grow(rows * (OffsetWidth + 1))
	hex.Grow(rows * layout.HexStride())
	ascii.Grow(rows * layout.AsciiStride())

	for i := 0; i < n; i++ {
		b := buf.At(i)
		_, col := layout.split(i)
		if col == 0 {
			writeHex(&offset, uint64(i), OffsetWidth)
			offset.WriteByte('\n')
		}

		writeHex(&hex, uint64(b), layout.ByteWidth)
		ascii.WriteByte(AsciiChar(b))

		switch {
		case col+1 == layout.RowLength:
			hex.WriteByte('\n')
			ascii.WriteByte('\n')
		case (col+1)%layout.RowSpacing == 0:
			hex.WriteString("  ")
		default:
			hex.WriteByte(' ')
		}
	}
	return Lanes{Offset: offset.String(), Hex: hex.String(), Ascii: ascii.String()}
}

// AsciiChar returns the ascii lane character for b. Whitespace, control
// characters and bytes outside printable ASCII render as '.'.
func AsciiChar(b byte) byte {
	if b <= ' ' || b >= 0x7f {
		return '.'
	}
	return b
}

// HexByte formats b as width zero-padded lowercase hex digits.
func HexByte(b byte, width int) string {
	var sb strings.Builder
	writeHex(&sb, uint64(b), width)
	return sb.String()
}

func writeHex(sb *strings.Builder, v uint64, width int) {
	var buf [16]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	for pad := width - (len(buf) - i); pad > 0; pad-- {
		sb.WriteByte('0')
	}
	sb.Write(buf[i:])
}
