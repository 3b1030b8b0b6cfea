package layout

import (
	"sort"

	"github.com/inkpad/inkcore/internal/core"
	"github.com/inkpad/inkcore/internal/shape"
	"github.com/inkpad/inkcore/internal/textbuf"
)

// Config holds the layout parameters supplied by the host: wrapping,
// line spacing, and content insets. Changing any of them requires
// InvalidateAll.
type Config struct {
	// Wrap enables word wrapping at WrapWidth.
	Wrap bool
	// WrapWidth is the available content width in shaper units.
	// Ignored when Wrap is false.
	WrapWidth float64
	// LineHeightScale multiplies the shaper's natural line height.
	// Values <= 0 are treated as 1.
	LineHeightScale float64
	// Insets pad the content area.
	Insets core.Insets
}

// scale returns the effective line-height multiplier.
func (c Config) scale() float64 {
	if c.LineHeightScale <= 0 {
		return 1
	}
	return c.LineHeightScale
}

// Engine orchestrates shaping per line and owns all derived geometry:
// the line cache, cumulative Y-offsets, and content dimensions. It
// observes the buffer and invalidates itself from the first affected
// line on every edit.
//
// The engine is exclusively owned by one editor session and must be
// driven from the session's goroutine.
type Engine struct {
	buf    *textbuf.Buffer
	shaper shape.Shaper
	cfg    Config

	valid      bool
	cache      map[int]*Line
	lineRanges []textbuf.Range // visual line structure from the last full pass
	yOffsets   []float64       // content-coordinate top of each visual line
	heights    []float64

	contentWidth  float64
	contentHeight float64

	spans []core.StyleSpan
}

// NewEngine creates a layout engine over the given buffer and shaper
// and registers it as a buffer observer.
func NewEngine(buf *textbuf.Buffer, shaper shape.Shaper, cfg Config) *Engine {
	e := &Engine{
		buf:    buf,
		shaper: shaper,
		cfg:    cfg,
		cache:  make(map[int]*Line),
	}
	buf.AddObserver(e)
	return e
}

// Close detaches the engine from the buffer.
func (e *Engine) Close() {
	e.buf.DelObserver(e)
}

// Config returns the current layout configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetConfig replaces the layout configuration and drops all cached
// layout.
func (e *Engine) SetConfig(cfg Config) {
	e.cfg = cfg
	e.InvalidateAll()
}

// SetShaper replaces the shaper (font change) and drops all cached
// layout.
func (e *Engine) SetShaper(s shape.Shaper) {
	e.shaper = s
	e.InvalidateAll()
}

// SetSpans installs externally produced style decorations. Spans affect
// only painting, but lines are immutable, so the cache is rebuilt.
func (e *Engine) SetSpans(spans []core.StyleSpan) {
	e.spans = spans
	e.InvalidateAll()
}

// IsValid reports whether the full layout is current.
func (e *Engine) IsValid() bool { return e.valid }

// ContentHeight returns the laid-out document height including insets.
// Zero until the first full layout pass.
func (e *Engine) ContentHeight() float64 { return e.contentHeight }

// ContentWidth returns the widest laid-out line plus insets.
func (e *Engine) ContentWidth() float64 { return e.contentWidth }

// LineCount returns the number of visual lines from the last full
// layout pass, or 0 when layout is invalid.
func (e *Engine) LineCount() int { return len(e.lineRanges) }

// CacheSize returns the number of cached shaped lines.
func (e *Engine) CacheSize() int { return len(e.cache) }

// BufferChanged implements textbuf.Observer. Invalidation is per-line:
// everything from the first visual line of the edited logical line
// onward is dropped, so re-shaping cost is bounded by what follows the
// edit, not the whole document.
func (e *Engine) BufferChanged(c textbuf.Change) {
	logical := e.buf.LineIndex(c.Range.Start)
	logicalStart, _ := e.buf.LineRange(logical)

	// First visual line whose range starts at or after the logical
	// line's start. Wrapping can pull text upward across a visual
	// boundary but never across a logical line start.
	idx := sort.Search(len(e.lineRanges), func(i int) bool {
		return e.lineRanges[i].Start >= logicalStart.Start
	})
	e.InvalidateFrom(idx)
}

// InvalidateFrom drops cached lines at or after index and truncates the
// geometry arrays there. Layout becomes invalid; the next windowed
// query triggers a full pass.
func (e *Engine) InvalidateFrom(index int) {
	if index < 0 {
		index = 0
	}
	for i := range e.cache {
		if i >= index {
			delete(e.cache, i)
		}
	}
	if index < len(e.lineRanges) {
		e.lineRanges = e.lineRanges[:index]
		e.yOffsets = e.yOffsets[:index]
		e.heights = e.heights[:index]
	}
	e.valid = false
}

// InvalidateAll drops every cached line. Used on font, width, or theme
// changes and on whole-document replacement.
func (e *Engine) InvalidateAll() {
	e.cache = make(map[int]*Line)
	e.lineRanges = nil
	e.yOffsets = nil
	e.heights = nil
	e.contentWidth = 0
	e.contentHeight = 0
	e.valid = false
}

// PerformFullLayout walks the whole document line by line and rebuilds
// the geometry arrays: visual line ranges, Y-offsets, heights, and
// content dimensions. O(n) over document length. Lines are measured for
// width but not retained; shaped Line instances enter the cache lazily
// through LayoutLine, keeping resident shaped state proportional to
// what has actually been queried.
func (e *Engine) PerformFullLayout() {
	e.InvalidateAll()

	y := e.cfg.Insets.Top
	maxWidth := 0.0

	for li := 0; li < e.buf.LineCount(); li++ {
		content, _ := e.buf.LineContentRange(li)
		for _, seg := range e.segment(content) {
			w := e.measure(seg)
			h := e.lineHeight()
			e.lineRanges = append(e.lineRanges, seg)
			e.yOffsets = append(e.yOffsets, y)
			e.heights = append(e.heights, h)
			if w > maxWidth {
				maxWidth = w
			}
			y += h
		}
	}

	e.contentWidth = maxWidth + e.cfg.Insets.Horizontal()
	e.contentHeight = y + e.cfg.Insets.Bottom
	e.valid = true
}

// measure returns a segment's shaped width. Shaping failure measures as
// zero; layout and editing carry on.
func (e *Engine) measure(r textbuf.Range) float64 {
	run, err := e.shaper.ShapeRun(e.buf.Slice(r))
	if err != nil {
		return 0
	}
	return run.Width
}

// segment splits a logical line's content range into visual segments,
// asking the shaper for the next word-aware break point while wrapping
// is enabled. An empty line yields one empty segment.
func (e *Engine) segment(content textbuf.Range) []textbuf.Range {
	if !e.cfg.Wrap || e.cfg.WrapWidth <= 0 || content.IsEmpty() {
		return []textbuf.Range{content}
	}

	var segs []textbuf.Range
	pos := content.Start
	for pos < content.End() {
		rest := textbuf.Range{Start: pos, Length: content.End() - pos}
		n := e.shaper.NextBreak(e.buf.Slice(rest), e.cfg.WrapWidth)
		if n <= 0 {
			n = rest.Length
		}
		if n > rest.Length {
			n = rest.Length
		}
		segs = append(segs, textbuf.Range{Start: pos, Length: n})
		pos += n
	}
	return segs
}

// shapeLine shapes one segment. Shaping failure degrades to a
// zero-width line so editing stays usable with a broken font.
func (e *Engine) shapeLine(index int, r textbuf.Range, origin core.Point) *Line {
	text := e.buf.Slice(r)
	run, err := e.shaper.ShapeRun(text)
	if err != nil || run.Len() != r.Length {
		run = shape.Run{Advances: make([]float64, r.Length)}
	}
	ln := newLine(index, r, text, run, e.shaper.Metrics(), e.lineHeight(), origin)
	return ln.withSpans(e.spans)
}

// lineHeight scales the shaper's metrics height, with a floor so
// degenerate metrics never produce zero-height lines.
func (e *Engine) lineHeight() float64 {
	h := e.shaper.Metrics().Height() * e.cfg.scale()
	if h <= 0 {
		h = 1
	}
	return h
}

// estimatedLineHeight is the uniform-height estimate used before any
// real layout exists. With a single shaper it coincides with the real
// line height.
func (e *Engine) estimatedLineHeight() float64 {
	return e.lineHeight()
}

// LayoutLine returns the shaped line at the given visual index, shaping
// it on demand. Repeated calls without intervening edits return the
// same instance. ok is false past the end of the document.
//
// On a cache miss without full-layout structure the Y position is an
// estimate (last known position, else uniform height times index);
// drift is accepted until the next full pass.
func (e *Engine) LayoutLine(index int) (*Line, bool) {
	if index < 0 {
		return nil, false
	}
	if ln, ok := e.cache[index]; ok {
		return ln, true
	}

	var r textbuf.Range
	switch {
	case index < len(e.lineRanges):
		r = e.lineRanges[index]
	case index < e.buf.LineCount():
		// No structure for this index yet: fall back to the logical
		// line, unwrapped. Approximate under wrapping, exact otherwise.
		cr, ok := e.buf.LineContentRange(index)
		if !ok {
			return nil, false
		}
		r = cr
	default:
		return nil, false
	}

	ln := e.shapeLine(index, r, core.Point{X: e.cfg.Insets.Left, Y: e.YForLine(index)})
	e.cache[index] = ln
	return ln, true
}

// EnsureLayout runs a full pass if the layout is invalid. Geometry
// consumers call it before trusting windowed or offset queries.
func (e *Engine) EnsureLayout() {
	if !e.valid {
		e.PerformFullLayout()
	}
}

// LineForPosition returns the visual line owning the given offset.
func (e *Engine) LineForPosition(offset int) (*Line, bool) {
	i, ok := e.lineIndexForOffset(offset)
	if !ok {
		return nil, false
	}
	return e.LayoutLine(i)
}

// VisibleLines lays out only the lines intersecting the viewport,
// expanded by overscan lines above and below. A full pass runs first if
// layout is invalid: validity is coarse-grained, so windowed queries
// are only trustworthy against a complete geometry snapshot.
func (e *Engine) VisibleLines(viewport core.Rect, overscan int) []*Line {
	if !e.valid {
		e.PerformFullLayout()
	}
	if len(e.lineRanges) == 0 {
		return nil
	}

	first := e.LineIndexForY(viewport.Y) - overscan
	last := e.LineIndexForY(viewport.MaxY()) + overscan
	if first < 0 {
		first = 0
	}
	if last >= len(e.lineRanges) {
		last = len(e.lineRanges) - 1
	}

	lines := make([]*Line, 0, last-first+1)
	for i := first; i <= last; i++ {
		if ln, ok := e.LayoutLine(i); ok {
			lines = append(lines, ln)
		}
	}
	return lines
}

// LineIndexForY maps a content Y coordinate to a visual line index,
// binary-searching the Y-offset array when populated and falling back
// to a uniform-height estimate otherwise.
func (e *Engine) LineIndexForY(y float64) int {
	if len(e.yOffsets) > 0 {
		// Last line whose top is at or above y.
		i := sort.Search(len(e.yOffsets), func(i int) bool {
			return e.yOffsets[i] > y
		}) - 1
		if i < 0 {
			i = 0
		}
		return i
	}

	est := int((y - e.cfg.Insets.Top) / e.estimatedLineHeight())
	if est < 0 {
		est = 0
	}
	return est
}

// YForLine mirrors LineIndexForY: real offsets when known, uniform
// estimate otherwise.
func (e *Engine) YForLine(index int) float64 {
	if index < len(e.yOffsets) {
		return e.yOffsets[index]
	}
	if n := len(e.yOffsets); n > 0 {
		// Extrapolate from the last known position.
		return e.yOffsets[n-1] + float64(index-n+1)*e.estimatedLineHeight()
	}
	return e.cfg.Insets.Top + float64(index)*e.estimatedLineHeight()
}

// lineIndexForOffset returns the visual line owning the given offset.
// A boundary offset belongs to the line that starts there, except the
// end of the document, which belongs to the last line.
func (e *Engine) lineIndexForOffset(offset int) (int, bool) {
	if len(e.lineRanges) == 0 {
		return 0, false
	}
	i := sort.Search(len(e.lineRanges), func(i int) bool {
		return e.lineRanges[i].Start > offset
	}) - 1
	if i < 0 {
		return 0, false
	}
	// The offset may sit past the line's content end (on the
	// terminator, or beyond a wrap boundary); the next line starts
	// after it, so this line owns it as an end-of-line caret.
	return i, true
}

// PositionForPoint maps a content coordinate to the nearest buffer
// offset. Points above the first line map to offset 0, below the last
// line to the buffer end.
func (e *Engine) PositionForPoint(p core.Point) (int, bool) {
	if !e.valid {
		return 0, false
	}
	if len(e.lineRanges) == 0 {
		return 0, true
	}
	if p.Y < e.yOffsets[0] {
		return 0, true
	}
	last := len(e.lineRanges) - 1
	if p.Y >= e.yOffsets[last]+e.heights[last] {
		return e.buf.Len(), true
	}

	ln, ok := e.LayoutLine(e.LineIndexForY(p.Y))
	if !ok {
		return 0, false
	}
	return ln.PositionForX(p.X - ln.Origin().X), true
}

// PointForPosition returns the top-left point of the caret at the given
// offset. ok is false before the first layout pass or when the offset
// has no line.
func (e *Engine) PointForPosition(offset int) (core.Point, bool) {
	if !e.valid {
		return core.Point{}, false
	}
	i, ok := e.lineIndexForOffset(offset)
	if !ok {
		return core.Point{}, false
	}
	ln, ok := e.LayoutLine(i)
	if !ok {
		return core.Point{}, false
	}
	x, ok := ln.XOffset(offset)
	if !ok {
		// Offset on the terminator: clamp to the content end.
		x, ok = ln.XOffset(ln.Range().End())
		if !ok {
			return core.Point{}, false
		}
	}
	return core.Point{X: ln.Origin().X + x, Y: ln.Origin().Y}, true
}

// CursorRect returns the caret rectangle for the given offset: one unit
// wide, full line height.
func (e *Engine) CursorRect(offset int) (core.Rect, bool) {
	p, ok := e.PointForPosition(offset)
	if !ok {
		return core.Rect{}, false
	}
	i, _ := e.lineIndexForOffset(offset)
	h := e.estimatedLineHeight()
	if i < len(e.heights) {
		h = e.heights[i]
	}
	return core.Rect{X: p.X, Y: p.Y, Width: 1, Height: h}, true
}

// SelectionRects returns one rectangle per visual line overlapping the
// range. Multi-rect fragmentation only ever happens across line
// boundaries; flat text needs no per-glyph splitting.
func (e *Engine) SelectionRects(r textbuf.Range) []core.Rect {
	if !e.valid {
		return nil
	}
	first, ok := e.lineIndexForOffset(r.Start)
	if !ok {
		return nil
	}
	last, ok := e.lineIndexForOffset(r.End())
	if !ok {
		last = len(e.lineRanges) - 1
	}

	var rects []core.Rect
	for i := first; i <= last && i < len(e.lineRanges); i++ {
		ln, ok := e.LayoutLine(i)
		if !ok {
			continue
		}
		local, ok := ln.SelectionRect(r)
		if !ok {
			continue
		}
		rects = append(rects, core.Rect{
			X:      ln.Origin().X + local.X,
			Y:      ln.Origin().Y + local.Y,
			Width:  local.Width,
			Height: local.Height,
		})
	}
	return rects
}
