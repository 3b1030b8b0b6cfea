package editor

import (
	"github.com/inkpad/inkcore/internal/layout"
	"github.com/inkpad/inkcore/internal/textbuf"
)

// Controller owns the cursor/selection state machine and translates
// editing commands into buffer mutations. Selection is held as an
// anchor/head pair so extending motions and drags know which end is
// pinned; Selection() exposes the normalized range.
type Controller struct {
	buf  *textbuf.Buffer
	eng  *layout.Engine
	host Host

	anchor int
	head   int

	// Sticky column for vertical motion, in content coordinates.
	stickyX   float64
	hasSticky bool

	// IME composition state; nil while idle.
	marked *markedState

	drag dragState
}

// New creates a controller over the given buffer and layout engine.
// host may be nil.
func New(buf *textbuf.Buffer, eng *layout.Engine, host Host) *Controller {
	if host == nil {
		host = nopHost{}
	}
	return &Controller{buf: buf, eng: eng, host: host}
}

// Text returns the full document text.
func (c *Controller) Text() string {
	return c.buf.Text()
}

// SetText loads a new document: all selection, composition, and sticky
// state resets.
func (c *Controller) SetText(text string) {
	c.marked = nil
	c.drag = dragState{}
	c.buf.SetText(text)
	c.moveTo(0, 0)
	c.host.OnTextChanged(c.buf.Text())
}

// Selection returns the normalized selection range. An empty range is
// the caret position.
func (c *Controller) Selection() textbuf.Range {
	start, end := c.anchor, c.head
	if start > end {
		start, end = end, start
	}
	return textbuf.Range{Start: start, Length: end - start}
}

// Caret returns the moving end of the selection.
func (c *Controller) Caret() int {
	return c.head
}

// SetSelection sets the selection, clamped to the document.
func (c *Controller) SetSelection(r textbuf.Range) {
	r = r.Clamp(c.buf.Len())
	c.moveTo(r.Start, r.End())
}

// SelectAll selects the whole document.
func (c *Controller) SelectAll() {
	c.moveTo(0, c.buf.Len())
}

// InsertText commits text at the selection. A non-empty selection is
// deleted first; the caret lands after the inserted text. The two
// logical sub-steps are one buffer mutation, one invalidation, and one
// change notification. Active composition is replaced by the inserted
// text and ends.
func (c *Controller) InsertText(text string) {
	target := c.Selection()
	if c.marked != nil {
		target = c.marked.r
		c.marked = nil
	}
	c.replace(target, text)
}

// DeleteBackward deletes the selection, or exactly one code unit before
// the caret. Deletion is unit-wise, not grapheme-cluster-aware; that
// matches the buffer's addressing granularity.
func (c *Controller) DeleteBackward() {
	c.commitComposition()
	if sel := c.Selection(); !sel.IsEmpty() {
		c.replace(sel, "")
		return
	}
	if c.head == 0 {
		return
	}
	c.replace(textbuf.Range{Start: c.head - 1, Length: 1}, "")
}

// DeleteForward deletes the selection, or exactly one code unit after
// the caret.
func (c *Controller) DeleteForward() {
	c.commitComposition()
	if sel := c.Selection(); !sel.IsEmpty() {
		c.replace(sel, "")
		return
	}
	if c.head >= c.buf.Len() {
		return
	}
	c.replace(textbuf.Range{Start: c.head, Length: 1}, "")
}

// replace is the single mutation path for committed edits: one buffer
// Replace, caret to the end of the new text, one host notification.
// Replacing nothing with nothing collapses the caret without a change
// notification, since no edit was committed.
func (c *Controller) replace(r textbuf.Range, text string) {
	r = r.Clamp(c.buf.Len())
	if r.IsEmpty() && text == "" {
		c.moveTo(r.Start, r.Start)
		return
	}
	c.buf.Replace(r, text)
	end := r.Start + utf16Length(text)
	c.moveTo(end, end)
	c.host.OnTextChanged(c.buf.Text())
}

// moveTo sets anchor and head, drops the sticky column, and reports the
// selection change.
func (c *Controller) moveTo(anchor, head int) {
	c.setSelection(anchor, head)
	c.hasSticky = false
}

// setSelection updates anchor/head without touching sticky state.
func (c *Controller) setSelection(anchor, head int) {
	anchor = clampOffset(anchor, c.buf.Len())
	head = clampOffset(head, c.buf.Len())
	changed := anchor != c.anchor || head != c.head
	c.anchor, c.head = anchor, head
	if changed {
		c.host.OnSelectionChanged(c.Selection())
	}
}

// commitComposition ends any active composition, keeping the composed
// text as committed content. Any command that is not a composition
// update exits the composing state.
func (c *Controller) commitComposition() {
	c.marked = nil
}

func clampOffset(off, limit int) int {
	if off < 0 {
		return 0
	}
	if off > limit {
		return limit
	}
	return off
}

// utf16Length returns the string's length in UTF-16 code units.
func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
