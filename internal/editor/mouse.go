package editor

import (
	"github.com/inkpad/inkcore/internal/core"
	"github.com/inkpad/inkcore/internal/shape"
	"github.com/inkpad/inkcore/internal/textbuf"
)

// dragMode selects the granularity a drag extends by, fixed at
// mousedown by the click count.
type dragMode int

const (
	dragNone dragMode = iota
	dragChar
	dragWord
	dragLine
)

type dragState struct {
	mode   dragMode
	anchor textbuf.Range // the unit selected at mousedown
}

// MouseDown maps the point to a buffer position and starts a drag.
// Click count 1 places the caret, 2 selects the word, 3 selects the
// whole line. All point mapping is routed through the layout engine so
// font and wrap changes are automatically reflected.
func (c *Controller) MouseDown(p core.Point, clickCount int) {
	c.commitComposition()
	c.eng.EnsureLayout()

	off, ok := c.eng.PositionForPoint(p)
	if !ok {
		return
	}
	off = clampOffset(off, c.buf.Len())

	switch {
	case clickCount >= 3:
		line := c.lineRangeAt(off)
		c.drag = dragState{mode: dragLine, anchor: line}
		c.moveTo(line.Start, line.End())
	case clickCount == 2:
		word := c.wordRangeAt(off)
		c.drag = dragState{mode: dragWord, anchor: word}
		c.moveTo(word.Start, word.End())
	default:
		c.drag = dragState{mode: dragChar, anchor: textbuf.Caret(off)}
		c.moveTo(off, off)
	}
}

// MouseDrag extends the selection from the mousedown anchor to the
// pointer, by character, word, or line per the original click count.
// A drag that never moves degenerates to a caret.
func (c *Controller) MouseDrag(p core.Point) {
	if c.drag.mode == dragNone {
		return
	}
	c.eng.EnsureLayout()

	off, ok := c.eng.PositionForPoint(p)
	if !ok {
		return
	}
	off = clampOffset(off, c.buf.Len())

	switch c.drag.mode {
	case dragChar:
		c.setSelectionAndDropSticky(c.drag.anchor.Start, off)
	case dragWord:
		unit := c.wordRangeAt(off)
		c.extendByUnit(unit)
	case dragLine:
		unit := c.lineRangeAt(off)
		c.extendByUnit(unit)
	}
}

// MouseUp ends the drag. Selection stays where the drag left it.
func (c *Controller) MouseUp(core.Point) {
	c.drag = dragState{}
}

// extendByUnit grows the selection to cover both the mousedown unit and
// the unit under the pointer, keeping the far edge of the anchor pinned.
func (c *Controller) extendByUnit(unit textbuf.Range) {
	anchor := c.drag.anchor
	if unit.Start < anchor.Start {
		c.setSelectionAndDropSticky(anchor.End(), unit.Start)
		return
	}
	c.setSelectionAndDropSticky(anchor.Start, unit.End())
}

func (c *Controller) setSelectionAndDropSticky(anchor, head int) {
	c.hasSticky = false
	c.setSelection(anchor, head)
}

// wordRangeAt returns the word containing the offset, per Unicode word
// segmentation over the offset's logical line.
func (c *Controller) wordRangeAt(off int) textbuf.Range {
	li := c.buf.LineIndex(clampOffset(off, c.buf.Len()))
	content, ok := c.buf.LineContentRange(li)
	if !ok || content.IsEmpty() {
		return textbuf.Caret(off)
	}
	local := clampOffset(off-content.Start, content.Length)
	if local == content.Length {
		local--
	}
	start, end := shape.WordRangeAt(c.buf.Slice(content), local)
	return textbuf.Range{Start: content.Start + start, Length: end - start}
}
