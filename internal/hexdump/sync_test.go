package hexdump

import (
	"fmt"
	"testing"
)

type recordingStyler struct {
	calls []string
}

func (r *recordingStyler) ClearHighlight(lane Lane) {
	r.calls = append(r.calls, "clear "+lane.String())
}

func (r *recordingStyler) Highlight(lane Lane, span Span) {
	r.calls = append(r.calls, fmt.Sprintf("highlight %s %d-%d", lane, span.Start, span.End))
}

func newTestController(buf Buffer) (*Controller, *recordingStyler, *Mapper) {
	m := NewMapper(DefaultLayout(), StrategyExact)
	st := &recordingStyler{}
	c := NewController(m, st)
	c.Reset(Render(buf, DefaultLayout()), buf.Len())
	return c, st, m
}

func TestSyncHexToAscii(t *testing.T) {
	c, st, m := newTestController(letterBuffer(40))
	sel := m.LaneSpan(LaneHex, ByteRange{Start: 14, End: 18})
	r, ok := c.OnSelectionChanged(LaneHex, sel)
	if !ok {
		t.Fatalf("highlight not applied")
	}
	if want := (ByteRange{Start: 14, End: 18}); r != want {
		t.Fatalf("range = %v, want %v", r, want)
	}
	want := []string{"clear ascii", "highlight ascii 14-19"}
	if fmt.Sprint(st.calls) != fmt.Sprint(want) {
		t.Fatalf("calls = %v, want %v", st.calls, want)
	}
}

func TestSyncAsciiToHex(t *testing.T) {
	c, st, _ := newTestController(letterBuffer(40))
	if _, ok := c.OnSelectionChanged(LaneAscii, Span{Start: 17, End: 19}); !ok {
		t.Fatalf("highlight not applied")
	}
	want := []string{"clear hex", "highlight hex 51-56"}
	if fmt.Sprint(st.calls) != fmt.Sprint(want) {
		t.Fatalf("calls = %v, want %v", st.calls, want)
	}
}

func TestSyncClearsOnEmptySelection(t *testing.T) {
	c, st, _ := newTestController(letterBuffer(40))
	if _, ok := c.OnSelectionChanged(LaneAscii, Span{Start: 3, End: 3}); ok {
		t.Fatalf("empty selection applied a highlight")
	}
	if len(st.calls) != 1 || st.calls[0] != "clear hex" {
		t.Fatalf("calls = %v, want [clear hex]", st.calls)
	}
}

func TestSyncOffsetLaneIgnored(t *testing.T) {
	c, st, _ := newTestController(letterBuffer(40))
	if _, ok := c.OnSelectionChanged(LaneOffset, Span{Start: 0, End: 4}); ok {
		t.Fatalf("offset lane applied a highlight")
	}
	if len(st.calls) != 0 {
		t.Fatalf("calls = %v, want none", st.calls)
	}
}

func TestSyncEmptyBuffer(t *testing.T) {
	c, st, _ := newTestController(NewBuffer(nil))
	if _, ok := c.OnSelectionChanged(LaneHex, Span{Start: 0, End: 5}); ok {
		t.Fatalf("empty buffer applied a highlight")
	}
	if len(st.calls) != 0 {
		t.Fatalf("calls = %v, want none", st.calls)
	}
}

func TestSyncRepeatable(t *testing.T) {
	c, st, _ := newTestController(letterBuffer(40))
	sel := Span{Start: 0, End: 5}
	c.OnSelectionChanged(LaneHex, sel)
	first := append([]string(nil), st.calls...)
	st.calls = nil
	c.OnSelectionChanged(LaneHex, sel)
	if fmt.Sprint(st.calls) != fmt.Sprint(first) {
		t.Fatalf("second pass = %v, want %v", st.calls, first)
	}
}

func TestSyncTrace(t *testing.T) {
	c, _, _ := newTestController(letterBuffer(40))
	var traced ByteRange
	c.Trace = func(_ Lane, _ Span, r ByteRange, _ Lane, _ Span) {
		traced = r
	}
	c.OnSelectionChanged(LaneAscii, Span{Start: 0, End: 2})
	if want := (ByteRange{Start: 0, End: 2}); traced != want {
		t.Fatalf("traced = %v, want %v", traced, want)
	}
}
