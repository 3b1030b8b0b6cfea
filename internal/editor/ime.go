package editor

import "github.com/inkpad/inkcore/internal/textbuf"

// markedState tracks an active input-method composition: the marked
// text's range in the buffer and the selection within it. It exists
// only between SetMarkedText and the commit or removal that ends the
// composition; it is never partially persisted.
type markedState struct {
	r textbuf.Range
}

// HasMarkedText reports whether a composition is active.
func (c *Controller) HasMarkedText() bool {
	return c.marked != nil
}

// MarkedRange returns the buffer range of the marked text.
func (c *Controller) MarkedRange() (textbuf.Range, bool) {
	if c.marked == nil {
		return textbuf.Range{}, false
	}
	return c.marked.r, true
}

// SetMarkedText enters or updates a composition. The marked text
// replaces the current selection (entering) or the previous marked text
// (updating) as one atomic edit. sel is the selection within the marked
// text, in offsets relative to it. An empty string removes the marked
// text and ends the composition, per the platform IME contract.
func (c *Controller) SetMarkedText(text string, sel textbuf.Range) {
	target := c.Selection()
	if c.marked != nil {
		target = c.marked.r
	}

	if text == "" {
		// Composition cancelled: the provisional text is removed whole.
		c.marked = nil
		c.replace(target, "")
		return
	}

	c.buf.Replace(target.Clamp(c.buf.Len()), text)
	r := textbuf.Range{Start: target.Start, Length: utf16Length(text)}
	c.marked = &markedState{r: r}

	sel = sel.Clamp(r.Length)
	c.setSelection(r.Start+sel.Start, r.Start+sel.End())
	c.hasSticky = false
	c.host.OnTextChanged(c.buf.Text())
}

// UnmarkText commits the composition: the marked text stays in the
// buffer as ordinary content and all composition bookkeeping clears.
// The buffer is not touched, so no change notification fires.
func (c *Controller) UnmarkText() {
	if c.marked == nil {
		return
	}
	end := c.marked.r.End()
	c.marked = nil
	c.moveTo(end, end)
}
