// Package layout turns buffer text into positioned, shaped lines and
// answers the geometry queries the editor needs: offset to point, point
// to offset, caret and selection rectangles.
//
// The Engine owns a cache of shaped lines keyed by visual line index,
// cumulative Y-offset and height arrays, and a coarse validity flag.
// Any buffer edit invalidates the cache from the affected line onward;
// windowed queries force a full layout pass while the flag is down.
// Per-line invalidation granularity bounds re-shaping cost, but validity
// is deliberately coarse: a single flag, not a per-line bitmap. That
// trade-off keeps windowed layout trustworthy at the price of eager
// full passes after bursts of edits.
//
// Lines are immutable once shaped; a changed line is a new Line
// replacing the cached one.
package layout
