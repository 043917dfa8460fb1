package viewer

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kobzarvs/qhex/internal/clip"
	"github.com/kobzarvs/qhex/internal/config"
	"github.com/kobzarvs/qhex/internal/hexdump"
	"github.com/kobzarvs/qhex/internal/logger"
	"github.com/kobzarvs/qhex/internal/session"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
)

// Viewer shows a buffer as offset, hex and ascii panes side by side.
type Viewer struct {
	layout   hexdump.Layout
	mapper   *hexdump.Mapper
	sync     *hexdump.Controller
	buf      hexdump.Buffer
	lanes    hexdump.Lanes
	lines    [3][]int // line start offsets per lane
	filename string
	modTime  int64 // unix nanoseconds of the loaded file, 0 if unknown

	mode          Mode
	keymap        map[string]string
	cmd           []rune
	statusMessage string
	quit          bool

	active       hexdump.Lane // LaneHex or LaneAscii
	cursor       int          // byte index
	anchor       int          // byte index where keyboard selection started
	selectMode   bool
	selection    hexdump.Span // live selection, in selectionLane coordinates
	selectionOn  bool
	selLane      hexdump.Lane
	highlights   [3]hexdump.Span
	dragging     bool
	dragAnchor   int // lane offset where the mouse went down
	scroll       int // first visible row
	freeScroll   bool
	viewHeight   int
	scrollMargin int

	styleMain      tcell.Style
	styleOffset    tcell.Style
	styleInactive  tcell.Style
	styleSelection tcell.Style
	styleHighlight tcell.Style
	styleCursor    tcell.Style
	styleStatus    tcell.Style
	styleCommand   tcell.Style
	register       *clip.Register
	log            *zap.SugaredLogger
	actionHook     func(action string)
	openRequested  string
}

// New builds a viewer from a loaded configuration. The layout and mapping
// strategy must already be valid.
func New(cfg config.Config) (*Viewer, error) {
	layout, err := cfg.Layout.Hexdump()
	if err != nil {
		return nil, err
	}
	strategy, err := hexdump.ParseStrategy(cfg.View.SelectionMapping)
	if err != nil {
		return nil, err
	}
	keymap := make(map[string]string, len(cfg.Keymap))
	for k, v := range cfg.Keymap {
		keymap[k] = v
	}

	mainFg := parseColor(cfg.Theme.Foreground, tcell.ColorWhite)
	mainBg := parseColor(cfg.Theme.Background, tcell.ColorBlack)
	statusFg := parseColor(cfg.Theme.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(cfg.Theme.StatuslineBackground, tcell.ColorGray)
	commandFg := parseColor(cfg.Theme.CommandlineForeground, statusFg)
	commandBg := parseColor(cfg.Theme.CommandlineBackground, statusBg)
	offsetFg := parseColor(cfg.Theme.OffsetForeground, tcell.ColorRed)
	inactiveFg := parseColor(cfg.Theme.InactiveForeground, tcell.ColorGray)
	selectionFg := parseColor(cfg.Theme.SelectionForeground, mainFg)
	selectionBg := parseColor(cfg.Theme.SelectionBackground, tcell.ColorNavy)
	highlightFg := parseColor(cfg.Theme.HighlightForeground, tcell.ColorBlack)
	highlightBg := parseColor(cfg.Theme.HighlightBackground, tcell.ColorRed)
	cursorBg := parseColor(cfg.Theme.CursorBackground, tcell.ColorYellow)

	v := &Viewer{
		layout:         layout,
		mapper:         hexdump.NewMapper(layout, strategy),
		mode:           ModeNormal,
		keymap:         keymap,
		active:         hexdump.LaneHex,
		scrollMargin:   cfg.View.ScrollMargin,
		styleMain:      tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		styleOffset:    tcell.StyleDefault.Foreground(offsetFg).Background(mainBg),
		styleInactive:  tcell.StyleDefault.Foreground(inactiveFg).Background(mainBg),
		styleSelection: tcell.StyleDefault.Foreground(selectionFg).Background(selectionBg),
		styleHighlight: tcell.StyleDefault.Foreground(highlightFg).Background(highlightBg),
		styleCursor:    tcell.StyleDefault.Foreground(mainBg).Background(cursorBg),
		styleStatus:    tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		styleCommand:   tcell.StyleDefault.Foreground(commandFg).Background(commandBg),
		register:       clip.New(),
		log:            logger.Named("viewer"),
	}
	v.sync = hexdump.NewController(v.mapper, v)
	v.sync.Trace = v.traceSync
	return v, nil
}

// Open loads path. On failure the viewer is left showing an empty buffer
// and the load error is returned.
func (v *Viewer) Open(path string) error {
	buf, err := hexdump.Load(path)
	v.filename = path
	if err != nil {
		v.SetBuffer(hexdump.Buffer{})
		v.setStatus(err.Error())
		v.log.Errorw("load failed", "path", path, "error", err)
		return err
	}
	v.SetBuffer(buf)
	if info, err := os.Stat(path); err == nil {
		v.modTime = info.ModTime().UnixNano()
	}
	v.setStatus("")
	v.log.Infow("file loaded", "path", path, "size", buf.Len())
	return nil
}

// Reload re-reads the current file, keeping the cursor and scroll where
// they still fit.
func (v *Viewer) Reload() error {
	if v.filename == "" {
		return nil
	}
	cursor, scroll, active := v.cursor, v.scroll, v.active
	if err := v.Open(v.filename); err != nil {
		return err
	}
	v.active = active
	v.cursor = clampByte(cursor, v.buf.Len())
	v.anchor = v.cursor
	v.scroll = min(scroll, max(v.rowCount()-1, 0))
	v.setStatus("reloaded")
	return nil
}

// SetBuffer replaces the displayed buffer and resets all view state.
func (v *Viewer) SetBuffer(buf hexdump.Buffer) {
	v.buf = buf
	v.modTime = 0
	v.lanes = hexdump.Render(buf, v.layout)
	for _, lane := range []hexdump.Lane{hexdump.LaneOffset, hexdump.LaneHex, hexdump.LaneAscii} {
		v.lines[lane] = lineStarts(v.lanes.Text(lane))
	}
	v.sync.Reset(v.lanes, buf.Len())
	v.cursor = 0
	v.anchor = 0
	v.scroll = 0
	v.selectMode = false
	v.dragging = false
	v.freeScroll = false
	v.clearSelection()
	for lane := range v.highlights {
		v.highlights[lane] = hexdump.Span{}
	}
}

func (v *Viewer) Lanes() hexdump.Lanes {
	return v.lanes
}

func (v *Viewer) Filename() string {
	return v.filename
}

func (v *Viewer) SetStatusMessage(msg string) {
	v.setStatus(msg)
}

func (v *Viewer) setStatus(msg string) {
	v.statusMessage = msg
}

// SetStrategy switches how selections are mapped back to bytes.
func (v *Viewer) SetStrategy(strategy hexdump.Strategy) {
	v.mapper = hexdump.NewMapper(v.layout, strategy)
	v.sync = hexdump.NewController(v.mapper, v)
	v.sync.Trace = v.traceSync
	v.sync.Reset(v.lanes, v.buf.Len())
	if v.selectionOn {
		v.sync.OnSelectionChanged(v.selLane, v.selection)
	}
}

// ClearHighlight implements hexdump.Styler.
func (v *Viewer) ClearHighlight(lane hexdump.Lane) {
	v.highlights[lane] = hexdump.Span{}
}

// Highlight implements hexdump.Styler. It only records a style range and
// never touches the live selection.
func (v *Viewer) Highlight(lane hexdump.Lane, span hexdump.Span) {
	v.highlights[lane] = span
}

func (v *Viewer) traceSync(source hexdump.Lane, sel hexdump.Span, r hexdump.ByteRange, target hexdump.Lane, hl hexdump.Span) {
	v.log.Debugw("selection synced",
		"source", source.String(), "sel", sel,
		"bytes", r.String(),
		"target", target.String(), "highlight", hl)
}

// selectSpan makes span the live selection of lane and mirrors it.
func (v *Viewer) selectSpan(lane hexdump.Lane, span hexdump.Span) {
	span = span.Clamp(len(v.lanes.Text(lane)))
	v.selection = span
	v.selLane = lane
	v.selectionOn = !span.IsEmpty()
	v.highlights[lane] = hexdump.Span{}
	v.sync.OnSelectionChanged(lane, span)
}

// selectBytes selects r in the active lane.
func (v *Viewer) selectBytes(r hexdump.ByteRange) {
	r = r.Clamp(v.buf.Len())
	v.selectSpan(v.active, v.mapper.LaneSpan(v.active, r))
}

func (v *Viewer) clearSelection() {
	v.selection = hexdump.Span{}
	v.selectionOn = false
	if other, ok := v.selLane.Mirror(); ok {
		v.highlights[other] = hexdump.Span{}
	}
}

// keyboardRange returns the byte range between the anchor and the cursor,
// both inclusive.
func (v *Viewer) keyboardRange() hexdump.ByteRange {
	start, end := v.anchor, v.cursor
	if start > end {
		start, end = end, start
	}
	return hexdump.ByteRange{Start: start, End: end + 1}
}

// SelectedRange returns the bytes covered by the live selection.
func (v *Viewer) SelectedRange() (hexdump.ByteRange, bool) {
	if !v.selectionOn || v.buf.Len() == 0 {
		return hexdump.ByteRange{}, false
	}
	r := v.mapper.ByteRange(v.selLane, v.lanes.Text(v.selLane), v.selection, v.buf.Len())
	return r, !r.IsEmpty()
}

// Highlighted returns the highlight applied to lane, if any.
func (v *Viewer) Highlighted(lane hexdump.Lane) (hexdump.Span, bool) {
	span := v.highlights[lane]
	return span, !span.IsEmpty()
}

// GotoOffset moves the cursor to byte off, clamped to the buffer.
func (v *Viewer) GotoOffset(off int) {
	if v.buf.Len() == 0 {
		return
	}
	v.cursor = clampByte(off, v.buf.Len())
	v.anchor = v.cursor
	v.selectMode = false
	v.freeScroll = false
	v.clearSelection()
	v.centerCursorRow()
}

func (v *Viewer) yank() {
	r, ok := v.SelectedRange()
	if !ok {
		if v.buf.Len() == 0 {
			v.setStatus("nothing to yank")
			return
		}
		r = hexdump.ByteRange{Start: v.cursor, End: v.cursor + 1}
	}
	text := v.formatBytes(v.active, r)
	if v.register.Write(text) {
		v.setStatus(fmt.Sprintf("yanked %d bytes", r.Len()))
	} else {
		v.setStatus(fmt.Sprintf("yanked %d bytes (register only)", r.Len()))
	}
}

// formatBytes renders r the way lane shows bytes, without row breaks.
func (v *Viewer) formatBytes(lane hexdump.Lane, r hexdump.ByteRange) string {
	data := v.buf.Slice(r)
	var sb strings.Builder
	for i, b := range data {
		if lane == hexdump.LaneAscii {
			sb.WriteByte(hexdump.AsciiChar(b))
			continue
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(hexdump.HexByte(b, v.layout.ByteWidth))
	}
	return sb.String()
}

// State captures what the session stores for the open file.
func (v *Viewer) State() session.FileState {
	st := session.FileState{
		Cursor:    v.cursor,
		ScrollRow: v.scroll,
		Lane:      v.active.String(),
		Size:      v.buf.Len(),
		ModTime:   v.modTime,
	}
	if r, ok := v.SelectedRange(); ok {
		st.SelectionStart = r.Start
		st.SelectionEnd = r.End
	}
	return st
}

// RestoreState applies a saved state. States saved for a different file
// size or modification time are ignored.
func (v *Viewer) RestoreState(st session.FileState) bool {
	n := v.buf.Len()
	if n == 0 || st.Size != n {
		return false
	}
	if st.ModTime != 0 && v.modTime != 0 && st.ModTime != v.modTime {
		return false
	}
	if st.Lane == hexdump.LaneAscii.String() {
		v.active = hexdump.LaneAscii
	} else {
		v.active = hexdump.LaneHex
	}
	v.cursor = clampByte(st.Cursor, n)
	v.anchor = v.cursor
	v.scroll = clampRange(st.ScrollRow, 0, max(v.rowCount()-1, 0))
	if st.SelectionEnd > st.SelectionStart {
		v.selectBytes(hexdump.ByteRange{Start: st.SelectionStart, End: st.SelectionEnd})
	}
	return true
}

func (v *Viewer) ShouldQuit() bool {
	return v.quit
}

// ConsumeOpenRequest returns a path the user asked to open with :e.
func (v *Viewer) ConsumeOpenRequest() (string, bool) {
	if v.openRequested == "" {
		return "", false
	}
	path := v.openRequested
	v.openRequested = ""
	return path, true
}

func (v *Viewer) rowCount() int {
	return v.layout.Rows(v.buf.Len())
}

func (v *Viewer) cursorRow() int {
	return v.cursor / v.layout.RowLength
}

func (v *Viewer) ensureCursorVisible(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	margin := v.scrollMargin
	if margin*2 >= viewHeight {
		margin = (viewHeight - 1) / 2
	}
	row := v.cursorRow()
	if row < v.scroll+margin {
		v.scroll = max(row-margin, 0)
		return
	}
	if row >= v.scroll+viewHeight-margin {
		v.scroll = row - viewHeight + margin + 1
	}
}

func (v *Viewer) centerCursorRow() {
	h := v.viewHeight
	if h <= 0 {
		h = 1
	}
	v.scroll = max(v.cursorRow()-h/2, 0)
}

func lineStarts(text string) []int {
	if text == "" {
		return nil
	}
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && i+1 < len(text) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func clampByte(i, n int) int {
	if n <= 0 {
		return 0
	}
	return clampRange(i, 0, n-1)
}

func clampRange(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
