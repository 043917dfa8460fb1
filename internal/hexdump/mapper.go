package hexdump

import (
	"fmt"
	"strings"
)

// Strategy selects how lane spans are converted back to byte ranges.
type Strategy int

const (
	// StrategyExact derives row and column directly from the lane offset.
	StrategyExact Strategy = iota
	// StrategyLegacy counts non-space characters and corrects the count
	// for row breaks. It drifts for selections that cross a row boundary.
	StrategyLegacy
)

func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "exact":
		return StrategyExact, nil
	case "legacy":
		return StrategyLegacy, nil
	}
	return StrategyExact, fmt.Errorf("unknown selection mapping %q", name)
}

func (s Strategy) String() string {
	if s == StrategyLegacy {
		return "legacy"
	}
	return "exact"
}

// Mapper converts between byte positions and lane offsets.
type Mapper struct {
	layout   Layout
	strategy Strategy
}

func NewMapper(layout Layout, strategy Strategy) *Mapper {
	return &Mapper{layout: layout, strategy: strategy}
}

func (m *Mapper) Strategy() Strategy {
	return m.strategy
}

// HexPosition returns the offset of the first digit of byte i in the hex lane.
func (m *Mapper) HexPosition(i int) int {
	l := m.layout
	row, col := l.split(i)
	return row*l.HexStride() + col*l.ByteWidth + col + col/l.RowSpacing
}

// AsciiPosition returns the offset of byte i in the ascii lane.
func (m *Mapper) AsciiPosition(i int) int {
	row, col := m.layout.split(i)
	return row*m.layout.AsciiStride() + col
}

// Position returns the offset of byte i in lane. The offset lane has no
// per-byte position; it reports the start of the byte's row.
func (m *Mapper) Position(lane Lane, i int) int {
	switch lane {
	case LaneHex:
		return m.HexPosition(i)
	case LaneAscii:
		return m.AsciiPosition(i)
	}
	row, _ := m.layout.split(i)
	return row * (OffsetWidth + 1)
}

// LaneSpan returns the characters that represent r in lane.
func (m *Mapper) LaneSpan(lane Lane, r ByteRange) Span {
	if r.IsEmpty() {
		p := m.Position(lane, max(r.Start, 0))
		return Span{Start: p, End: p}
	}
	last := r.End - 1
	switch lane {
	case LaneHex:
		return Span{Start: m.HexPosition(r.Start), End: m.HexPosition(last) + m.layout.ByteWidth}
	case LaneAscii:
		return Span{Start: m.AsciiPosition(r.Start), End: m.AsciiPosition(last) + 1}
	}
	return Span{}
}

// ByteRange maps a span of lane text back to the bytes it covers. text is
// the full lane text the span was taken from and size is the buffer length.
// Spans outside the text are clamped; the result always lies in [0, size].
func (m *Mapper) ByteRange(lane Lane, text string, span Span, size int) ByteRange {
	if size <= 0 {
		return ByteRange{}
	}
	span = span.Clamp(len(text))
	var r ByteRange
	switch {
	case lane == LaneOffset:
		return ByteRange{}
	case m.strategy == StrategyLegacy && lane == LaneHex:
		r = m.legacyHexRange(text, span)
	case m.strategy == StrategyLegacy:
		r = m.legacyAsciiRange(text, span)
	case lane == LaneHex:
		r = ByteRange{Start: m.hexBoundary(span.Start, true), End: m.hexBoundary(span.End, false)}
	default:
		r = ByteRange{Start: m.asciiBoundary(span.Start), End: m.asciiBoundary(span.End)}
	}
	return r.Clamp(size)
}

// hexBoundary converts a hex lane offset to a byte boundary. An offset in
// the separator after a byte belongs to the next boundary. For a span
// start, an offset inside a byte's digits includes that byte; for a span
// end it includes the byte unless the offset sits on its first digit.
func (m *Mapper) hexBoundary(off int, start bool) int {
	l := m.layout
	row := off / l.HexStride()
	within := off % l.HexStride()

	cell := l.ByteWidth + 1
	groupChars := l.RowSpacing*cell + 1
	g := within / groupChars
	rest := within - g*groupChars
	c := rest / cell
	if c >= l.RowSpacing {
		// the extra space closing a group
		c = l.RowSpacing - 1
	}
	col := g*l.RowSpacing + c
	inCell := rest - c*cell

	boundary := row*l.RowLength + col
	switch {
	case inCell >= l.ByteWidth:
		boundary++
	case !start && inCell > 0:
		boundary++
	}
	return boundary
}

func (m *Mapper) asciiBoundary(off int) int {
	stride := m.layout.AsciiStride()
	return off/stride*m.layout.RowLength + off%stride
}

func (m *Mapper) legacyHexRange(text string, span Span) ByteRange {
	prefix := strings.ReplaceAll(text[:span.Start], "\n", " ")
	start := m.negativeCompensation(valuableCount(prefix))
	total := m.negativeCompensation(valuableCount(text[span.Start:span.End]))
	return ByteRange{Start: start, End: start + total}
}

func (m *Mapper) legacyAsciiRange(text string, span Span) ByteRange {
	// The prefix is cut from the text after its line breaks are removed,
	// at the offset measured in the text that still had them.
	flat := strings.ReplaceAll(text, "\n", "")
	cut := min(span.Start, len(flat))
	stride := m.layout.ByteWidth + 1
	start := m.positiveCompensation(valuableCount(flat[:cut])) / stride
	total := m.positiveCompensation(valuableCount(text[span.Start:span.End])) / stride
	return ByteRange{Start: start, End: start + total}
}

func (m *Mapper) negativeCompensation(v int) int {
	return (v + v/m.layout.RowLength) / m.layout.ByteWidth
}

func (m *Mapper) positiveCompensation(v int) int {
	return m.layout.ByteWidth*v + v
}

// valuableCount counts every character except the plain space. Line breaks
// are counted.
func valuableCount(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' {
			n++
		}
	}
	return n
}
