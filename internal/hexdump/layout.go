package hexdump

import (
	"errors"
	"fmt"
)

const (
	DefaultRowLength  = 16
	DefaultRowSpacing = 4
	DefaultByteWidth  = 2
)

// ErrInvalidLayout is wrapped by every error returned from Layout.Validate.
var ErrInvalidLayout = errors.New("invalid layout")

// LayoutError names the offending layout field.
type LayoutError struct {
	Field   string
	Value   int
	Message string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("invalid layout: %s = %d: %s", e.Field, e.Value, e.Message)
}

func (e *LayoutError) Unwrap() error {
	return ErrInvalidLayout
}

// Layout controls how bytes are arranged in the lanes.
type Layout struct {
	RowLength  int // bytes per row
	RowSpacing int // bytes per visual group; a wider gap separates groups
	ByteWidth  int // hex digits per byte
}

func DefaultLayout() Layout {
	return Layout{
		RowLength:  DefaultRowLength,
		RowSpacing: DefaultRowSpacing,
		ByteWidth:  DefaultByteWidth,
	}
}

func (l Layout) Validate() error {
	if l.RowLength <= 0 {
		return &LayoutError{Field: "row-length", Value: l.RowLength, Message: "must be positive"}
	}
	if l.RowSpacing <= 0 {
		return &LayoutError{Field: "row-spacing", Value: l.RowSpacing, Message: "must be positive"}
	}
	if l.RowLength%l.RowSpacing != 0 {
		return &LayoutError{
			Field:   "row-spacing",
			Value:   l.RowSpacing,
			Message: fmt.Sprintf("must divide row-length %d", l.RowLength),
		}
	}
	// One hex digit cannot hold a byte.
	if l.ByteWidth < 2 {
		return &LayoutError{Field: "byte-width", Value: l.ByteWidth, Message: "must be at least 2"}
	}
	return nil
}

// Groups returns the number of RowSpacing groups in a full row.
func (l Layout) Groups() int {
	return l.RowLength / l.RowSpacing
}

// RowChars is the width of a full hex row, excluding its line break.
func (l Layout) RowChars() int {
	return l.RowLength*l.ByteWidth + (l.RowLength - 1) + (l.Groups() - 1)
}

// HexStride is the distance between the starts of two hex rows.
func (l Layout) HexStride() int {
	return l.RowChars() + 1
}

// AsciiStride is the distance between the starts of two ascii rows.
func (l Layout) AsciiStride() int {
	return l.RowLength + 1
}

// Rows returns how many rows a buffer of size n occupies.
func (l Layout) Rows(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + l.RowLength - 1) / l.RowLength
}

func (l Layout) split(i int) (row, col int) {
	return i / l.RowLength, i % l.RowLength
}
