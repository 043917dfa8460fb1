package clip

import (
	"errors"
	"testing"
)

func TestRegisterFallsBackToInternal(t *testing.T) {
	r := &Register{system: func(string) error { return errors.New("no clipboard") }}
	if r.Write("41 42") {
		t.Fatalf("Write reported system success")
	}
	if r.Text() != "41 42" {
		t.Fatalf("Text = %q, want %q", r.Text(), "41 42")
	}
}

func TestRegisterSystem(t *testing.T) {
	var got string
	r := &Register{system: func(s string) error { got = s; return nil }}
	if !r.Write("AB") {
		t.Fatalf("Write reported failure")
	}
	if got != "AB" {
		t.Fatalf("system got %q, want %q", got, "AB")
	}
	if r.Text() != "AB" {
		t.Fatalf("Text = %q, want %q", r.Text(), "AB")
	}
}
