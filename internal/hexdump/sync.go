package hexdump

// Styler applies highlight styles to lane text. Implementations must keep
// highlights apart from the lane's live selection: highlighting a range
// must never be reported back as a selection change.
type Styler interface {
	ClearHighlight(lane Lane)
	Highlight(lane Lane, span Span)
}

// Controller mirrors a selection in one lane as a highlight in the other.
type Controller struct {
	mapper *Mapper
	lanes  Lanes
	size   int
	styler Styler
	// Trace, when set, is called after every applied highlight.
	Trace func(source Lane, sel Span, r ByteRange, target Lane, hl Span)
}

func NewController(mapper *Mapper, styler Styler) *Controller {
	return &Controller{mapper: mapper, styler: styler}
}

// Reset points the controller at a newly rendered buffer.
func (c *Controller) Reset(lanes Lanes, size int) {
	c.lanes = lanes
	c.size = size
}

// OnSelectionChanged handles a selection of sel in source. It returns the
// selected byte range and whether a highlight was applied.
func (c *Controller) OnSelectionChanged(source Lane, sel Span) (ByteRange, bool) {
	target, ok := source.Mirror()
	if !ok || c.size == 0 {
		return ByteRange{}, false
	}
	c.styler.ClearHighlight(target)

	r := c.mapper.ByteRange(source, c.lanes.Text(source), sel, c.size)
	if r.IsEmpty() {
		return r, false
	}
	hl := c.mapper.LaneSpan(target, r).Clamp(len(c.lanes.Text(target)))
	c.styler.Highlight(target, hl)
	if c.Trace != nil {
		c.Trace(source, sel, r, target, hl)
	}
	return r, true
}
