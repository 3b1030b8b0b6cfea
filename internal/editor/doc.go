// Package editor implements the editing controller: the selection and
// IME state machine that mediates between raw input events and the
// buffer and layout layers.
//
// The controller is the single writer of the buffer and the single
// owner of selection state. Untrusted offsets and ranges are clamped
// here, at the boundary; the buffer and layout engine below assume
// pre-validated input and panic on violations.
//
// A host (the presentation surface) is injected at construction and
// receives OnTextChanged and OnSelectionChanged callbacks. The
// controller never resolves services through globals.
package editor
