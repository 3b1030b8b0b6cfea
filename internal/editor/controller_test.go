package editor

import (
	"testing"

	"github.com/inkpad/inkcore/internal/layout"
	"github.com/inkpad/inkcore/internal/shape"
	"github.com/inkpad/inkcore/internal/textbuf"
)

// recordingHost counts notifications for assertion.
type recordingHost struct {
	textChanges []string
	selections  []textbuf.Range
}

func (h *recordingHost) OnTextChanged(text string)          { h.textChanges = append(h.textChanges, text) }
func (h *recordingHost) OnSelectionChanged(r textbuf.Range) { h.selections = append(h.selections, r) }

func newTestController(text string) (*Controller, *recordingHost) {
	buf := textbuf.NewBufferFromString(text)
	eng := layout.NewEngine(buf, shape.NewCellShaper(1, 1), layout.Config{})
	host := &recordingHost{}
	return New(buf, eng, host), host
}

func TestInsertTextAtCaret(t *testing.T) {
	c, host := newTestController("hello")
	c.SetSelection(textbuf.Caret(5))

	c.InsertText(" world")

	if c.Text() != "hello world" {
		t.Errorf("text = %q", c.Text())
	}
	if c.Caret() != 11 {
		t.Errorf("caret = %d, want 11", c.Caret())
	}
	if len(host.textChanges) != 1 {
		t.Errorf("OnTextChanged fired %d times, want 1", len(host.textChanges))
	}
}

func TestInsertEmptyTextAtCaretIsNoop(t *testing.T) {
	c, host := newTestController("hello")
	c.SetSelection(textbuf.Caret(2))
	host.textChanges = nil

	c.InsertText("")

	if c.Text() != "hello" || len(host.textChanges) != 0 {
		t.Errorf("empty insert committed an edit: %q (%d notifications)",
			c.Text(), len(host.textChanges))
	}
}

func TestInsertTextReplacesSelection(t *testing.T) {
	c, host := newTestController("hello")
	c.SetSelection(textbuf.Range{Start: 1, Length: 3})
	host.textChanges = nil

	c.InsertText("XY")

	if c.Text() != "hXYo" {
		t.Errorf("text = %q, want hXYo", c.Text())
	}
	if c.Caret() != 3 {
		t.Errorf("caret = %d, want end of inserted text", c.Caret())
	}
	// Delete-then-insert is exposed as a single edit.
	if len(host.textChanges) != 1 {
		t.Errorf("OnTextChanged fired %d times, want 1", len(host.textChanges))
	}
}

func TestInsertAtDocumentEnd(t *testing.T) {
	c, _ := newTestController("abc")
	c.SetSelection(textbuf.Caret(3))
	c.InsertText("!")
	if c.Text() != "abc!" {
		t.Errorf("text = %q", c.Text())
	}
}

func TestDeleteBackwardWithSelection(t *testing.T) {
	// Selection (2,3) on "hello" covers "llo"; deleting yields "he"
	// with the caret at the selection start.
	c, _ := newTestController("hello")
	c.SetSelection(textbuf.Range{Start: 2, Length: 3})

	c.DeleteBackward()

	if c.Text() != "he" {
		t.Errorf("text = %q, want he", c.Text())
	}
	if c.Caret() != 2 {
		t.Errorf("caret = %d, want 2", c.Caret())
	}
}

func TestDeleteBackwardSingleUnit(t *testing.T) {
	c, _ := newTestController("abc")
	c.SetSelection(textbuf.Caret(2))

	c.DeleteBackward()

	if c.Text() != "ac" {
		t.Errorf("text = %q, want ac", c.Text())
	}
	if c.Caret() != 1 {
		t.Errorf("caret = %d, want 1", c.Caret())
	}
}

func TestDeleteBackwardAtStartIsNoop(t *testing.T) {
	c, host := newTestController("abc")
	c.SetSelection(textbuf.Caret(0))
	host.textChanges = nil

	c.DeleteBackward()

	if c.Text() != "abc" || len(host.textChanges) != 0 {
		t.Errorf("delete at start mutated text: %q (%d notifications)", c.Text(), len(host.textChanges))
	}
}

func TestDeleteForward(t *testing.T) {
	c, _ := newTestController("abc")
	c.SetSelection(textbuf.Caret(1))

	c.DeleteForward()

	if c.Text() != "ac" {
		t.Errorf("text = %q, want ac", c.Text())
	}
	if c.Caret() != 1 {
		t.Errorf("caret = %d, want 1", c.Caret())
	}
}

func TestDeleteForwardAtEndIsNoop(t *testing.T) {
	c, _ := newTestController("abc")
	c.SetSelection(textbuf.Caret(3))
	c.DeleteForward()
	if c.Text() != "abc" {
		t.Errorf("text = %q", c.Text())
	}
}

func TestMoveLeftRightCollapsesSelection(t *testing.T) {
	c, _ := newTestController("hello")
	c.SetSelection(textbuf.Range{Start: 1, Length: 3})

	c.MoveLeft(false)
	if c.Caret() != 1 || !c.Selection().IsEmpty() {
		t.Errorf("MoveLeft: caret = %d sel = %+v, want collapse to start", c.Caret(), c.Selection())
	}

	c.SetSelection(textbuf.Range{Start: 1, Length: 3})
	c.MoveRight(false)
	if c.Caret() != 4 {
		t.Errorf("MoveRight: caret = %d, want collapse to end", c.Caret())
	}
}

func TestMoveRightExtends(t *testing.T) {
	c, _ := newTestController("hello")
	c.SetSelection(textbuf.Caret(1))

	c.MoveRight(true)
	c.MoveRight(true)

	if got := c.Selection(); got != (textbuf.Range{Start: 1, Length: 2}) {
		t.Errorf("selection = %+v, want {1,2}", got)
	}
}

func TestMoveStepsOverSurrogatePair(t *testing.T) {
	c, _ := newTestController("a\U0001F600b")
	c.SetSelection(textbuf.Caret(1))

	c.MoveRight(false)
	if c.Caret() != 3 {
		t.Errorf("caret = %d, want 3 (past the pair)", c.Caret())
	}
	c.MoveLeft(false)
	if c.Caret() != 1 {
		t.Errorf("caret = %d, want 1 (back over the pair)", c.Caret())
	}
}

func TestMoveUpAtFirstLineIsNoop(t *testing.T) {
	c, _ := newTestController("hello\nworld")
	c.SetSelection(textbuf.Caret(3))

	c.MoveUp(false)

	if c.Caret() != 3 {
		t.Errorf("caret = %d, want unchanged 3", c.Caret())
	}
}

func TestMoveDownAtLastLineIsNoop(t *testing.T) {
	c, _ := newTestController("hello\nworld")
	c.SetSelection(textbuf.Caret(8))

	c.MoveDown(false)

	if c.Caret() != 8 {
		t.Errorf("caret = %d, want unchanged 8", c.Caret())
	}
}

func TestVerticalMotionStickyColumn(t *testing.T) {
	// Moving through a short line preserves the pixel column.
	c, _ := newTestController("abcdef\nab\nabcdef")
	c.SetSelection(textbuf.Caret(4)) // column 4 on line 0

	c.MoveDown(false)
	if c.Caret() != 9 {
		t.Errorf("after first MoveDown caret = %d, want 9 (clamped to short line end)", c.Caret())
	}

	c.MoveDown(false)
	if c.Caret() != 14 {
		t.Errorf("after second MoveDown caret = %d, want 14 (column restored)", c.Caret())
	}
}

func TestStickyColumnResetByHorizontalMotion(t *testing.T) {
	c, _ := newTestController("abcdef\nab\nabcdef")
	c.SetSelection(textbuf.Caret(4))

	c.MoveDown(false) // caret 9, sticky 4
	c.MoveLeft(false) // caret 8, sticky dropped
	c.MoveDown(false)

	if c.Caret() != 11 {
		t.Errorf("caret = %d, want 11 (column 1 of line 2)", c.Caret())
	}
}

func TestMoveToLineBoundaries(t *testing.T) {
	c, _ := newTestController("hello\nworld")
	c.SetSelection(textbuf.Caret(8))

	c.MoveToBeginningOfLine(false)
	if c.Caret() != 6 {
		t.Errorf("beginning of line = %d, want 6", c.Caret())
	}

	c.MoveToEndOfLine(false)
	if c.Caret() != 11 {
		t.Errorf("end of line = %d, want 11", c.Caret())
	}

	// End of a line with a terminator excludes the terminator.
	c.SetSelection(textbuf.Caret(2))
	c.MoveToEndOfLine(false)
	if c.Caret() != 5 {
		t.Errorf("end of line 0 = %d, want 5 (before the newline)", c.Caret())
	}
}

func TestMoveToDocumentBoundaries(t *testing.T) {
	c, _ := newTestController("hello\nworld")
	c.SetSelection(textbuf.Caret(4))

	c.MoveToEndOfDocument(false)
	if c.Caret() != 11 {
		t.Errorf("end of document = %d", c.Caret())
	}
	c.MoveToBeginningOfDocument(false)
	if c.Caret() != 0 {
		t.Errorf("beginning of document = %d", c.Caret())
	}
}

func TestSelectAll(t *testing.T) {
	c, _ := newTestController("hello")
	c.SelectAll()
	if got := c.Selection(); got != (textbuf.Range{Start: 0, Length: 5}) {
		t.Errorf("selection = %+v", got)
	}
}

func TestSetSelectionClampsOutOfBounds(t *testing.T) {
	c, _ := newTestController("abc")

	c.SetSelection(textbuf.Range{Start: 100, Length: 50})
	if got := c.Selection(); got != (textbuf.Range{Start: 3, Length: 0}) {
		t.Errorf("selection = %+v, want caret at end", got)
	}

	c.SetSelection(textbuf.Range{Start: -5, Length: 2})
	if c.Selection().Start != 0 {
		t.Errorf("negative start should clamp to 0, got %+v", c.Selection())
	}
}

func TestSetTextResetsState(t *testing.T) {
	c, host := newTestController("hello")
	c.SetSelection(textbuf.Range{Start: 1, Length: 3})
	host.textChanges = nil

	c.SetText("new")

	if c.Text() != "new" {
		t.Errorf("text = %q", c.Text())
	}
	if c.Caret() != 0 || !c.Selection().IsEmpty() {
		t.Errorf("selection after SetText = %+v, want caret at 0", c.Selection())
	}
	if len(host.textChanges) != 1 {
		t.Errorf("OnTextChanged fired %d times, want 1", len(host.textChanges))
	}
}

func TestSelectionChangeNotifications(t *testing.T) {
	c, host := newTestController("hello")
	host.selections = nil

	c.SetSelection(textbuf.Caret(2))
	c.SetSelection(textbuf.Caret(2)) // no change, no notification

	if len(host.selections) != 1 {
		t.Errorf("OnSelectionChanged fired %d times, want 1", len(host.selections))
	}
}
