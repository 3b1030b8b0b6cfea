package editor

import "github.com/inkpad/inkcore/internal/textbuf"

// Host is the presentation surface the controller reports into. It is
// a non-owning reference: valid only while the editor session is alive.
type Host interface {
	// OnTextChanged fires once per committed edit with the new full
	// text. Composition updates count as edits; callers that only care
	// about committed input should also consult HasMarkedText.
	OnTextChanged(text string)

	// OnSelectionChanged fires whenever the selection or caret moves.
	OnSelectionChanged(sel textbuf.Range)
}

// nopHost is used when no host is injected.
type nopHost struct{}

func (nopHost) OnTextChanged(string)             {}
func (nopHost) OnSelectionChanged(textbuf.Range) {}
