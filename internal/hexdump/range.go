package hexdump

import "fmt"

type Lane int

const (
	LaneOffset Lane = iota
	LaneHex
	LaneAscii
)

func (l Lane) String() string {
	switch l {
	case LaneOffset:
		return "offset"
	case LaneHex:
		return "hex"
	case LaneAscii:
		return "ascii"
	}
	return fmt.Sprintf("lane(%d)", int(l))
}

// Mirror returns the lane that highlights follow a selection into.
// The offset lane has no mirror.
func (l Lane) Mirror() (Lane, bool) {
	switch l {
	case LaneHex:
		return LaneAscii, true
	case LaneAscii:
		return LaneHex, true
	}
	return LaneOffset, false
}

// ByteRange is a half-open range of byte positions.
type ByteRange struct {
	Start int
	End   int
}

func (r ByteRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r ByteRange) IsEmpty() bool {
	return r.Len() == 0
}

// Clamp limits r to [0, n] and keeps Start <= End.
func (r ByteRange) Clamp(n int) ByteRange {
	r.Start = clampRange(r.Start, 0, n)
	r.End = clampRange(r.End, 0, n)
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Start, r.End)
}

// Span is a half-open range of character offsets into one lane's text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.Len() == 0
}

// Normalize returns a span where Start is never after End.
func (s Span) Normalize() Span {
	if s.Start > s.End {
		return Span{Start: s.End, End: s.Start}
	}
	return s
}

// Clamp normalizes s and limits it to a text of length n.
func (s Span) Clamp(n int) Span {
	s = s.Normalize()
	s.Start = clampRange(s.Start, 0, n)
	s.End = clampRange(s.End, 0, n)
	return s
}

func (s Span) Contains(off int) bool {
	return off >= s.Start && off < s.End
}

func clampRange(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
