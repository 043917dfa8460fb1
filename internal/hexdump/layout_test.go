package hexdump

import (
	"errors"
	"testing"
)

func TestLayoutValidate(t *testing.T) {
	if err := DefaultLayout().Validate(); err != nil {
		t.Fatalf("default layout: %v", err)
	}
	bad := map[string]Layout{
		"row-length":  {RowLength: 0, RowSpacing: 4, ByteWidth: 2},
		"row-spacing": {RowLength: 16, RowSpacing: 5, ByteWidth: 2},
		"byte-width":  {RowLength: 16, RowSpacing: 4, ByteWidth: 1},
	}
	for field, layout := range bad {
		err := layout.Validate()
		if !errors.Is(err, ErrInvalidLayout) {
			t.Fatalf("%s: err = %v, want ErrInvalidLayout", field, err)
		}
		var le *LayoutError
		if !errors.As(err, &le) || le.Field != field {
			t.Fatalf("%s: err = %#v, want LayoutError for %s", field, err, field)
		}
	}
	if err := (Layout{RowLength: 16, RowSpacing: 0, ByteWidth: 2}).Validate(); err == nil {
		t.Fatalf("zero row spacing: want error")
	}
}

func TestLayoutWidths(t *testing.T) {
	l := DefaultLayout()
	if got := l.RowChars(); got != 50 {
		t.Fatalf("RowChars = %d, want 50", got)
	}
	if got := l.AsciiStride(); got != 17 {
		t.Fatalf("AsciiStride = %d, want 17", got)
	}
	if got := l.Rows(33); got != 3 {
		t.Fatalf("Rows(33) = %d, want 3", got)
	}
	if got := l.Rows(0); got != 0 {
		t.Fatalf("Rows(0) = %d, want 0", got)
	}
	single := Layout{RowLength: 8, RowSpacing: 8, ByteWidth: 2}
	if got := single.RowChars(); got != 23 {
		t.Fatalf("single group RowChars = %d, want 23", got)
	}
}
