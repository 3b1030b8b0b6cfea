// Package annotate produces style spans for document text: the host
// application plugs in syntax highlighters, spell checkers, or link
// detectors without the layout engine knowing which is which.
//
// The Lua annotator runs user scripts in a restricted interpreter. A
// script that errors contributes no spans; it never takes the editor
// down with it.
package annotate
