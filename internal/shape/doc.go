// Package shape abstracts the text-shaping engine underneath the layout
// layer: converting a run of text into per-character advances and
// typographic metrics, and answering word-aware line-break queries.
//
// Two implementations are provided. FaceShaper measures real font faces
// through golang.org/x/image/font and is what a pixel-rendering host
// uses. CellShaper assigns every character a fixed cell advance and
// serves terminal hosts and tests.
//
// Advances are reported per UTF-16 code unit so they line up with buffer
// offsets; the trailing unit of a surrogate pair always has advance 0.
package shape
