// Package caret provides the timing side of cursor presentation: the
// blink cycle and a debouncer for coalescing bursts of work such as
// selection-driven scrolling or autosave.
//
// Callbacks fire on timer goroutines. Hosts that require main-thread
// delivery marshal inside the callback.
package caret
