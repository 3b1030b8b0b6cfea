// Package session persists per-document view state, the selection and
// scroll position, so reopening a note restores the caret where the
// user left it.
//
// State lives in one JSON file manipulated in place, which keeps
// unknown fields written by newer versions intact across load/save
// round trips.
package session
