package shape

import (
	"unicode/utf16"

	"github.com/rivo/uniseg"
)

// BreakCandidates returns the UTF-16 offsets within text where a line
// may legally wrap, per Unicode line-breaking rules (UAX #14) as
// implemented by uniseg. Offsets are ascending, exclusive of 0, and
// include the end of the text.
func BreakCandidates(text string) []int {
	if text == "" {
		return nil
	}

	var candidates []int
	offset := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var segment string
		segment, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		offset += utf16Len(segment)
		candidates = append(candidates, offset)
	}
	return candidates
}

// WordRangeAt returns the start and end UTF-16 offsets of the word
// containing offset, per Unicode word segmentation (UAX #29). Used for
// double-click selection. When offset falls on whitespace the
// surrounding whitespace run is returned.
func WordRangeAt(text string, offset int) (start, end int) {
	if text == "" {
		return 0, 0
	}

	pos := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		next := pos + utf16Len(word)
		if offset < next || len(rest) == 0 {
			return pos, next
		}
		pos = next
	}
	return pos, pos
}

// utf16Len returns the string's length in UTF-16 code units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// unitsOf converts a string to UTF-16 code units.
func unitsOf(s string) []uint16 {
	return utf16.Encode([]rune(s))
}
