package viewer

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qhex/internal/hexdump"
)

const paneGap = 2

// geometry holds the screen columns where each pane starts.
type geometry struct {
	offsetX int
	hexX    int
	asciiX  int
}

func (v *Viewer) geometry() geometry {
	offsetW := hexdump.OffsetWidth
	if n := len(v.lines[hexdump.LaneOffset]); n > 0 {
		offsetW = len(v.lineText(hexdump.LaneOffset, n-1))
	}
	g := geometry{offsetX: 0}
	g.hexX = g.offsetX + offsetW + paneGap
	g.asciiX = g.hexX + v.layout.RowChars() + paneGap
	return g
}

func (v *Viewer) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	statusY := h - 2
	cmdY := h - 1
	viewHeight := h - 2
	if h < 2 {
		statusY = h - 1
		cmdY = h - 1
	}
	if viewHeight < 0 {
		viewHeight = 0
	}
	v.viewHeight = viewHeight
	if !v.freeScroll && !v.dragging {
		v.ensureCursorVisible(viewHeight)
	}

	s.SetStyle(v.styleMain)
	s.Clear()

	g := v.geometry()
	rows := v.rowCount()
	for y := 0; y < viewHeight; y++ {
		row := v.scroll + y
		if row >= rows {
			clearLine(s, y, w, v.styleMain)
			continue
		}
		v.drawLane(s, hexdump.LaneOffset, row, g.offsetX, y, w)
		v.drawLane(s, hexdump.LaneHex, row, g.hexX, y, w)
		v.drawLane(s, hexdump.LaneAscii, row, g.asciiX, y, w)
	}

	if statusY >= 0 {
		v.renderStatusline(s, w, statusY)
	}
	cx, cy := -1, -1
	if cmdY >= 0 {
		cmdCursor := v.renderCommandline(s, w, cmdY)
		if v.mode == ModeCommand {
			cx, cy = cmdCursor, cmdY
		}
	}
	if v.mode == ModeNormal && v.buf.Len() > 0 {
		row := v.cursorRow()
		if row >= v.scroll && row < v.scroll+viewHeight {
			x := g.hexX
			if v.active == hexdump.LaneAscii {
				x = g.asciiX
			}
			pos := v.mapper.Position(v.active, v.cursor)
			cx = x + pos - v.lines[v.active][row]
			cy = row - v.scroll
		}
	}
	if cx >= 0 && cx < w && cy >= 0 {
		s.ShowCursor(cx, cy)
	} else {
		s.HideCursor()
	}
	s.Show()
}

// drawLane draws one row of lane starting at screen column x.
func (v *Viewer) drawLane(s tcell.Screen, lane hexdump.Lane, row, x, y, w int) {
	line := v.lineText(lane, row)
	start := v.lines[lane][row]
	cursor := hexdump.Span{}
	if lane == v.active && v.buf.Len() > 0 {
		pos := v.mapper.Position(lane, v.cursor)
		width := 1
		if lane == hexdump.LaneHex {
			width = v.layout.ByteWidth
		}
		cursor = hexdump.Span{Start: pos, End: pos + width}
	}
	for i := 0; i < len(line); i++ {
		if x+i >= w {
			return
		}
		s.SetContent(x+i, y, rune(line[i]), nil, v.cellStyle(lane, start+i, cursor))
	}
}

func (v *Viewer) cellStyle(lane hexdump.Lane, off int, cursor hexdump.Span) tcell.Style {
	if lane == hexdump.LaneOffset {
		return v.styleOffset
	}
	if v.mode == ModeNormal && cursor.Contains(off) {
		return v.styleCursor
	}
	if v.highlights[lane].Contains(off) {
		return v.styleHighlight
	}
	if v.selectionOn && v.selLane == lane && v.selection.Contains(off) {
		return v.styleSelection
	}
	if lane != v.active {
		return v.styleInactive
	}
	return v.styleMain
}

// lineText returns row of lane without its line break.
func (v *Viewer) lineText(lane hexdump.Lane, row int) string {
	starts := v.lines[lane]
	if row < 0 || row >= len(starts) {
		return ""
	}
	text := v.lanes.Text(lane)
	end := len(text)
	if row+1 < len(starts) {
		end = starts[row+1]
	}
	return strings.TrimSuffix(text[starts[row]:end], "\n")
}

func (v *Viewer) renderStatusline(s tcell.Screen, w, y int) {
	mode := "NORMAL"
	if v.mode == ModeCommand {
		mode = "COMMAND"
	} else if v.selectMode {
		mode = "SELECT"
	}
	name := v.filename
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}

	status := fmt.Sprintf(" %s | %s | %s ", mode, strings.ToUpper(v.active.String()), name)
	if v.statusMessage != "" {
		status += "| " + v.statusMessage + " "
	}
	right := fmt.Sprintf(" %s / %s ", formatOffset(v.cursor), formatOffset(v.buf.Len()))
	if v.buf.Len() == 0 {
		right = " empty "
	}
	if r, ok := v.SelectedRange(); ok {
		right = fmt.Sprintf(" sel %s %d bytes |", r.String(), r.Len()) + right
	}

	line := composeStatusLine(status, right, w)
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, v.styleStatus)
		x += max(runewidth.RuneWidth(r), 1)
	}
	for ; x < w; x++ {
		s.SetContent(x, y, ' ', nil, v.styleStatus)
	}
}

func (v *Viewer) renderCommandline(s tcell.Screen, w, y int) int {
	var cmdRunes []rune
	if v.mode == ModeCommand {
		cmdRunes = append([]rune{':'}, v.cmd...)
	}
	clearLine(s, y, w, v.styleCommand)
	x := 0
	for _, r := range cmdRunes {
		rw := max(runewidth.RuneWidth(r), 1)
		if x+rw > w {
			break
		}
		s.SetContent(x, y, r, nil, v.styleCommand)
		x += rw
	}
	return min(x, w-1)
}

// composeStatusLine fits left and right into width terminal cells. The
// right side wins when both do not fit.
func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	rightRunes := []rune(right)
	rightW := runewidth.StringWidth(right)
	for rightW > width && len(rightRunes) > 0 {
		rightW -= runewidth.RuneWidth(rightRunes[0])
		rightRunes = rightRunes[1:]
	}
	var line []rune
	used := 0
	for _, r := range left {
		rw := runewidth.RuneWidth(r)
		if used+rw > width-rightW {
			break
		}
		line = append(line, r)
		used += rw
	}
	for ; used < width-rightW; used++ {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func formatOffset(off int) string {
	return "0x" + strconv.FormatInt(int64(off), 16)
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		rgb, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return tcell.NewHexColor(int32(rgb))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
