package editor

import "github.com/inkpad/inkcore/internal/textbuf"

// MoveLeft moves the caret one position left; with extend the anchor
// stays pinned. A plain move with a non-empty selection collapses to
// its start. Motion steps over surrogate pairs so the caret never
// rests between the halves of one.
func (c *Controller) MoveLeft(extend bool) {
	c.commitComposition()
	if sel := c.Selection(); !extend && !sel.IsEmpty() {
		c.moveTo(sel.Start, sel.Start)
		return
	}
	head := c.prevOffset(c.head)
	c.moveHead(head, extend)
}

// MoveRight mirrors MoveLeft.
func (c *Controller) MoveRight(extend bool) {
	c.commitComposition()
	if sel := c.Selection(); !extend && !sel.IsEmpty() {
		c.moveTo(sel.End(), sel.End())
		return
	}
	head := c.nextOffset(c.head)
	c.moveHead(head, extend)
}

// MoveUp moves the caret to the previous visual line, preserving the
// horizontal pixel column rather than a character-offset delta. No-op
// on the first line.
func (c *Controller) MoveUp(extend bool) {
	c.moveVertical(-1, extend)
}

// MoveDown mirrors MoveUp. No-op on the last line.
func (c *Controller) MoveDown(extend bool) {
	c.moveVertical(+1, extend)
}

func (c *Controller) moveVertical(dir int, extend bool) {
	c.commitComposition()
	c.eng.EnsureLayout()

	ln, ok := c.eng.LineForPosition(c.head)
	if !ok {
		return
	}

	if !c.hasSticky {
		if x, ok := ln.XOffset(c.head); ok {
			c.stickyX = ln.Origin().X + x
			c.hasSticky = true
		}
	}

	target, ok := c.eng.LayoutLine(ln.Index() + dir)
	if !ok {
		// First or last line: cursor stays put, sticky column survives.
		return
	}

	head := target.PositionForX(c.stickyX - target.Origin().X)
	c.moveHeadKeepSticky(head, extend)
}

// MoveToBeginningOfLine moves to the start of the caret's visual line.
func (c *Controller) MoveToBeginningOfLine(extend bool) {
	c.commitComposition()
	c.eng.EnsureLayout()
	if ln, ok := c.eng.LineForPosition(c.head); ok {
		c.moveHead(ln.Range().Start, extend)
	}
}

// MoveToEndOfLine moves to the end of the caret's visual line,
// excluding the line terminator.
func (c *Controller) MoveToEndOfLine(extend bool) {
	c.commitComposition()
	c.eng.EnsureLayout()
	if ln, ok := c.eng.LineForPosition(c.head); ok {
		c.moveHead(ln.Range().End(), extend)
	}
}

// MoveToBeginningOfDocument moves to offset 0.
func (c *Controller) MoveToBeginningOfDocument(extend bool) {
	c.commitComposition()
	c.moveHead(0, extend)
}

// MoveToEndOfDocument moves past the last character.
func (c *Controller) MoveToEndOfDocument(extend bool) {
	c.commitComposition()
	c.moveHead(c.buf.Len(), extend)
}

// moveHead moves the caret, pinning the anchor when extending, and
// resets the sticky column.
func (c *Controller) moveHead(head int, extend bool) {
	head = clampOffset(head, c.buf.Len())
	anchor := head
	if extend {
		anchor = c.anchor
	}
	c.moveTo(anchor, head)
}

// moveHeadKeepSticky is moveHead for vertical motion, which must keep
// the sticky column across consecutive steps.
func (c *Controller) moveHeadKeepSticky(head int, extend bool) {
	head = clampOffset(head, c.buf.Len())
	anchor := head
	if extend {
		anchor = c.anchor
	}
	c.setSelection(anchor, head)
}

// prevOffset returns the offset one caret position before off,
// stepping over a full surrogate pair.
func (c *Controller) prevOffset(off int) int {
	if off <= 0 {
		return 0
	}
	off--
	if c.isLowSurrogate(off) && off > 0 && c.isHighSurrogate(off-1) {
		off--
	}
	return off
}

// nextOffset mirrors prevOffset.
func (c *Controller) nextOffset(off int) int {
	if off >= c.buf.Len() {
		return c.buf.Len()
	}
	if c.isHighSurrogate(off) && c.isLowSurrogate(off+1) {
		return off + 2
	}
	return off + 1
}

func (c *Controller) isHighSurrogate(off int) bool {
	u, ok := c.buf.UnitAt(off)
	return ok && u >= 0xD800 && u < 0xDC00
}

func (c *Controller) isLowSurrogate(off int) bool {
	u, ok := c.buf.UnitAt(off)
	return ok && u >= 0xDC00 && u < 0xE000
}

// lineRangeAt returns the full logical line range (terminator included)
// containing the offset.
func (c *Controller) lineRangeAt(off int) textbuf.Range {
	r, ok := c.buf.LineRangeAt(clampOffset(off, c.buf.Len()))
	if !ok {
		return textbuf.Range{}
	}
	return r
}
