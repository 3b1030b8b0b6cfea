// Package textbuf implements the mutable text storage for the editing
// core: a flat sequence of UTF-16 code units with an incrementally
// maintained line-start index and a synchronous change-notification
// channel.
//
// All offsets and lengths in this package are UTF-16 code-unit counts.
// This matches the addressing granularity of the text-shaping layer, so
// positions can flow between buffer, layout, and input handling without
// conversion.
//
// The buffer carries no internal locking. The editing core is
// single-threaded by contract: every mutation and every query happens on
// the one goroutine that drives input and drawing. Observers are invoked
// synchronously on that same goroutine, once per committed mutation.
//
// Out-of-bounds offsets passed to mutating operations are programmer
// error and panic. The editor controller clamps untrusted input at its
// boundary; everything below it assumes validated offsets.
package textbuf
