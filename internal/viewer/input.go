package viewer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qhex/internal/hexdump"
)

func (v *Viewer) HandleKey(ev *tcell.EventKey) {
	if v.mode == ModeCommand {
		v.handleCommand(ev)
		return
	}
	key := keyString(ev)
	if key == "" {
		return
	}
	action, ok := v.keymap[key]
	if !ok {
		return
	}
	v.statusMessage = ""
	v.runAction(action)
}

func (v *Viewer) runAction(action string) {
	if v.actionHook != nil {
		v.actionHook(action)
	}
	rowLen := v.layout.RowLength
	switch action {
	case "move_left":
		v.moveTo(v.cursor-1, false)
	case "move_right":
		v.moveTo(v.cursor+1, false)
	case "move_up":
		v.moveTo(v.cursor-rowLen, false)
	case "move_down":
		v.moveTo(v.cursor+rowLen, false)
	case "select_left":
		v.moveTo(v.cursor-1, true)
	case "select_right":
		v.moveTo(v.cursor+1, true)
	case "select_up":
		v.moveTo(v.cursor-rowLen, true)
	case "select_down":
		v.moveTo(v.cursor+rowLen, true)
	case "row_start":
		v.moveTo(v.cursor-v.cursor%rowLen, false)
	case "row_end":
		v.moveTo(v.cursor-v.cursor%rowLen+rowLen-1, false)
	case "file_start":
		v.moveTo(0, false)
	case "file_end":
		v.moveTo(v.buf.Len()-1, false)
	case "page_up":
		v.moveTo(v.cursor-max(v.viewHeight, 1)*rowLen, false)
	case "page_down":
		v.moveTo(v.cursor+max(v.viewHeight, 1)*rowLen, false)
	case "scroll_up":
		v.scrollViewUp()
	case "scroll_down":
		v.scrollViewDown()
	case "switch_lane":
		v.switchLane()
	case "toggle_select":
		v.toggleSelect()
	case "collapse_selection":
		v.selectMode = false
		v.anchor = v.cursor
		v.clearSelection()
	case "select_all":
		if v.buf.Len() == 0 {
			return
		}
		v.anchor = 0
		v.cursor = v.buf.Len() - 1
		v.freeScroll = false
		v.selectBytes(v.keyboardRange())
	case "yank":
		v.yank()
	case "enter_command":
		v.enterCommand("")
	case "goto_offset_prompt":
		v.enterCommand("goto ")
	case "reload":
		v.reload()
	case "quit":
		v.quit = true
	default:
		v.setStatus("unknown action: " + action)
	}
}

// moveTo puts the cursor on byte i. With extend the selection grows from
// the anchor; otherwise it collapses unless select mode is on.
func (v *Viewer) moveTo(i int, extend bool) {
	n := v.buf.Len()
	if n == 0 {
		return
	}
	if extend && !v.selectionOn {
		v.anchor = v.cursor
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	v.cursor = i
	v.freeScroll = false
	if extend || v.selectMode {
		v.selectBytes(v.keyboardRange())
		return
	}
	v.anchor = v.cursor
	v.clearSelection()
}

func (v *Viewer) toggleSelect() {
	if v.buf.Len() == 0 {
		return
	}
	v.selectMode = !v.selectMode
	if v.selectMode {
		v.anchor = v.cursor
		v.selectBytes(v.keyboardRange())
	}
}

// switchLane moves focus between hex and ascii, carrying the selected
// bytes over to the newly active lane.
func (v *Viewer) switchLane() {
	r, ok := v.SelectedRange()
	if other, mirrored := v.active.Mirror(); mirrored {
		v.active = other
	}
	if ok {
		v.selectBytes(r)
	}
}

func (v *Viewer) reload() {
	if err := v.Reload(); err != nil {
		v.setStatus(err.Error())
	}
}

// scrollViewUp and scrollViewDown move the view by one row and drag the
// cursor along only when it would leave the screen.
func (v *Viewer) scrollViewUp() {
	if v.scroll <= 0 {
		return
	}
	v.scroll--
	v.keepCursorInView()
}

func (v *Viewer) scrollViewDown() {
	if v.scroll >= v.rowCount()-1 {
		return
	}
	v.scroll++
	v.keepCursorInView()
}

func (v *Viewer) HandleMouse(ev *tcell.EventMouse) {
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		v.scroll = max(v.scroll-3, 0)
		v.keepCursorInView()
	case ev.Buttons()&tcell.WheelDown != 0:
		v.scroll = min(v.scroll+3, max(v.rowCount()-1, 0))
		v.keepCursorInView()
	case ev.Buttons()&tcell.Button1 != 0:
		v.handleMouseDrag(ev)
	case ev.Buttons() == tcell.ButtonNone:
		v.dragging = false
	}
}

// keepCursorInView pulls the cursor onto the visible rows after the view
// was scrolled, and marks the scroll as user driven so the next frame
// does not pull the view back around the cursor.
func (v *Viewer) keepCursorInView() {
	if v.buf.Len() == 0 {
		return
	}
	row := v.cursorRow()
	col := v.cursor % v.layout.RowLength
	if row < v.scroll {
		v.moveTo(v.scroll*v.layout.RowLength+col, false)
	} else if v.viewHeight > 0 && row >= v.scroll+v.viewHeight {
		v.moveTo((v.scroll+v.viewHeight-1)*v.layout.RowLength+col, false)
	}
	v.freeScroll = true
}

func (v *Viewer) handleMouseDrag(ev *tcell.EventMouse) {
	x, y := ev.Position()
	lane, off, ok := v.hitTest(x, y)
	if !ok {
		return
	}
	if !v.dragging {
		if v.mode == ModeCommand {
			v.mode = ModeNormal
			v.cmd = v.cmd[:0]
		}
		v.dragging = true
		v.dragAnchor = off
		v.active = lane
		v.selectMode = false
		v.cursor = v.byteAt(lane, off)
		v.anchor = v.cursor
		v.clearSelection()
		return
	}
	if lane != v.active {
		return
	}
	v.cursor = v.byteAt(lane, off)
	if off == v.dragAnchor {
		v.clearSelection()
		return
	}
	v.anchor = v.byteAt(lane, v.dragAnchor)
	span := hexdump.Span{Start: min(v.dragAnchor, off), End: max(v.dragAnchor, off) + 1}
	v.selectSpan(lane, span)
}

// hitTest converts a screen cell into a lane and an offset inside that
// lane's text.
func (v *Viewer) hitTest(x, y int) (hexdump.Lane, int, bool) {
	if y < 0 || y >= v.viewHeight {
		return 0, 0, false
	}
	row := v.scroll + y
	if row >= v.rowCount() {
		return 0, 0, false
	}
	g := v.geometry()
	var lane hexdump.Lane
	var col int
	switch {
	case x >= g.asciiX && x < g.asciiX+v.layout.RowLength:
		lane, col = hexdump.LaneAscii, x-g.asciiX
	case x >= g.hexX && x < g.hexX+v.layout.RowChars():
		lane, col = hexdump.LaneHex, x-g.hexX
	default:
		return 0, 0, false
	}
	line := v.lineText(lane, row)
	if len(line) == 0 {
		return 0, 0, false
	}
	col = min(col, len(line)-1)
	return lane, v.lines[lane][row] + col, true
}

// byteAt returns the byte whose cell contains lane offset off, or the
// closest byte before it when off falls on a separator.
func (v *Viewer) byteAt(lane hexdump.Lane, off int) int {
	stride := v.layout.HexStride()
	if lane == hexdump.LaneAscii {
		stride = v.layout.AsciiStride()
	}
	row := off / stride
	rowStart := row * v.layout.RowLength
	i := rowStart
	for col := 1; col < v.layout.RowLength; col++ {
		if v.mapper.Position(lane, rowStart+col) > off {
			break
		}
		i = rowStart + col
	}
	return clampByte(i, v.buf.Len())
}

func (v *Viewer) enterCommand(prefill string) {
	v.mode = ModeCommand
	v.cmd = []rune(prefill)
}

func (v *Viewer) handleCommand(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.mode = ModeNormal
		v.cmd = v.cmd[:0]
	case tcell.KeyEnter:
		line := strings.TrimSpace(string(v.cmd))
		v.mode = ModeNormal
		v.cmd = v.cmd[:0]
		v.execCommand(line)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(v.cmd) == 0 {
			v.mode = ModeNormal
			return
		}
		v.cmd = v.cmd[:len(v.cmd)-1]
	case tcell.KeyCtrlU:
		v.cmd = v.cmd[:0]
	case tcell.KeyCtrlW:
		v.cmd = []rune(deleteLastWord(string(v.cmd)))
	case tcell.KeyRune:
		v.cmd = append(v.cmd, ev.Rune())
	}
}

func deleteLastWord(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	return s[:i+1]
}

func (v *Viewer) execCommand(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	name, args := fields[0], fields[1:]
	v.log.Debugw("command", "name", name, "args", args)
	switch name {
	case "q", "quit", "q!", "quit!":
		v.quit = true
	case "goto", "g":
		if len(args) != 1 {
			v.setStatus("usage: goto <offset>")
			return
		}
		v.gotoCommand(args[0])
	case "e", "open":
		if len(args) != 1 {
			v.setStatus("usage: e <path>")
			return
		}
		v.openRequested = args[0]
	case "yank", "y":
		v.yank()
	case "reload":
		v.reload()
	case "select":
		v.selectCommand(args)
	case "lane":
		if len(args) != 1 {
			v.setStatus("usage: lane hex|ascii")
			return
		}
		v.laneCommand(args[0])
	case "mapping":
		if len(args) != 1 {
			v.setStatus("mapping: " + v.mapper.Strategy().String())
			return
		}
		strategy, err := hexdump.ParseStrategy(args[0])
		if err != nil {
			v.setStatus(err.Error())
			return
		}
		v.SetStrategy(strategy)
		v.setStatus("mapping: " + strategy.String())
	default:
		if _, err := parseOffset(name, v.cursor); err == nil && len(args) == 0 {
			v.gotoCommand(name)
			return
		}
		v.setStatus("unknown command: " + name)
	}
}

func (v *Viewer) gotoCommand(arg string) {
	off, err := parseOffset(arg, v.cursor)
	if err != nil {
		v.setStatus(err.Error())
		return
	}
	if v.buf.Len() == 0 {
		v.setStatus("empty buffer")
		return
	}
	v.GotoOffset(off)
	if off != v.cursor {
		v.setStatus(fmt.Sprintf("offset %s clamped to %s", formatOffset(off), formatOffset(v.cursor)))
	}
}

func (v *Viewer) selectCommand(args []string) {
	if len(args) != 2 {
		v.setStatus("usage: select <start> <end>")
		return
	}
	start, err := parseOffset(args[0], v.cursor)
	if err != nil {
		v.setStatus(err.Error())
		return
	}
	end, err := parseOffset(args[1], v.cursor)
	if err != nil {
		v.setStatus(err.Error())
		return
	}
	r := hexdump.ByteRange{Start: start, End: end}.Clamp(v.buf.Len())
	if r.IsEmpty() {
		v.setStatus("empty range")
		return
	}
	v.anchor = r.Start
	v.cursor = r.End - 1
	v.selectBytes(r)
	v.centerCursorRow()
}

func (v *Viewer) laneCommand(name string) {
	var lane hexdump.Lane
	switch name {
	case "hex":
		lane = hexdump.LaneHex
	case "ascii":
		lane = hexdump.LaneAscii
	default:
		v.setStatus("unknown lane: " + name)
		return
	}
	if lane != v.active {
		v.switchLane()
	}
}

// parseOffset reads a decimal or 0x-prefixed offset. A leading + or -
// makes it relative to cur.
func parseOffset(s string, cur int) (int, error) {
	rel := 0
	switch {
	case strings.HasPrefix(s, "+"):
		rel, s = 1, s[1:]
	case strings.HasPrefix(s, "-"):
		rel, s = -1, s[1:]
	}
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base, digits = 16, s[2:]
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid offset: %q", s)
	}
	off := int(n)
	if rel != 0 {
		off = cur + rel*off
	}
	return max(off, 0), nil
}

func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	if mods&tcell.ModCtrl != 0 {
		switch ev.Key() {
		case tcell.KeyHome:
			return "ctrl+home"
		case tcell.KeyEnd:
			return "ctrl+end"
		case tcell.KeyRune:
			return "ctrl+" + strings.ToLower(string(ev.Rune()))
		}
	}
	if mods&tcell.ModShift != 0 {
		switch ev.Key() {
		case tcell.KeyUp:
			return "shift+up"
		case tcell.KeyDown:
			return "shift+down"
		case tcell.KeyLeft:
			return "shift+left"
		case tcell.KeyRight:
			return "shift+right"
		}
	}
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	// KeyTab, KeyEnter and KeyBackspace share codes with ctrl+i, ctrl+m
	// and ctrl+h, so they go first.
	switch ev.Key() {
	case tcell.KeyTab:
		if mods&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyEscape:
		return "esc"
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(key-tcell.KeyCtrlA)))
	}
	return ""
}
