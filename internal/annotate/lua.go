package annotate

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/inkpad/inkcore/internal/core"
)

// Common errors returned by the Lua annotator.
var (
	ErrNoAnnotateFunc = errors.New("script does not define annotate(text)")
	ErrBadReturn      = errors.New("annotate(text) must return a table of spans")
)

// LuaAnnotator runs a user script that defines
//
//	function annotate(text) ... end
//
// returning an array of span tables:
//
//	{ start = 0, len = 5, color = "#CC0000", bold = true }
//
// start and len are UTF-16 code-unit offsets. Recognized style keys are
// color, background, bold, italic, and underline; malformed entries are
// skipped rather than failing the whole result.
//
// The interpreter is restricted: no file loading, no require from disk.
// An LState is not safe for concurrent use, so neither is LuaAnnotator;
// it lives on the editor thread with everything else.
type LuaAnnotator struct {
	l *lua.LState
}

// NewLuaAnnotator compiles the script and verifies it defines the
// annotate entry point.
func NewLuaAnnotator(script string) (*LuaAnnotator, error) {
	l := lua.NewState()
	restrict(l)

	if err := l.DoString(script); err != nil {
		l.Close()
		return nil, fmt.Errorf("annotator script: %w", err)
	}
	if _, ok := l.GetGlobal("annotate").(*lua.LFunction); !ok {
		l.Close()
		return nil, ErrNoAnnotateFunc
	}
	return &LuaAnnotator{l: l}, nil
}

// Close releases the interpreter.
func (a *LuaAnnotator) Close() {
	a.l.Close()
}

// Annotate calls the script's annotate function on the document text.
func (a *LuaAnnotator) Annotate(text string) ([]core.StyleSpan, error) {
	fn := a.l.GetGlobal("annotate")
	if err := a.l.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(text)); err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	ret := a.l.Get(-1)
	a.l.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		if ret == lua.LNil {
			return nil, nil
		}
		return nil, ErrBadReturn
	}

	var spans []core.StyleSpan
	for i := 1; i <= tbl.Len(); i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		span, ok := spanFromTable(entry)
		if !ok {
			continue
		}
		spans = append(spans, span)
	}
	return sanitize(spans, text), nil
}

// restrict removes the escape hatches that would let a script reach the
// filesystem or load code from outside the document.
func restrict(l *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		l.SetGlobal(name, lua.LNil)
	}
	if pkg, ok := l.GetGlobal("package").(*lua.LTable); ok {
		l.SetField(pkg, "path", lua.LString(""))
		l.SetField(pkg, "cpath", lua.LString(""))
	}
	if osTbl, ok := l.GetGlobal("os").(*lua.LTable); ok {
		for _, name := range []string{"execute", "exit", "remove", "rename", "tmpname", "getenv", "setenv"} {
			l.SetField(osTbl, name, lua.LNil)
		}
	}
	l.SetGlobal("io", lua.LNil)
}

func spanFromTable(t *lua.LTable) (core.StyleSpan, bool) {
	start, ok := intField(t, "start")
	if !ok {
		return core.StyleSpan{}, false
	}
	length, ok := intField(t, "len")
	if !ok {
		return core.StyleSpan{}, false
	}

	style := core.DefaultStyle()
	if hex, ok := stringField(t, "color"); ok {
		c, err := core.ColorFromHex(hex)
		if err != nil {
			return core.StyleSpan{}, false
		}
		style.Foreground = c
	}
	if hex, ok := stringField(t, "background"); ok {
		c, err := core.ColorFromHex(hex)
		if err != nil {
			return core.StyleSpan{}, false
		}
		style.Background = c
	}
	if boolField(t, "bold") {
		style.Attributes = style.Attributes.With(core.AttrBold)
	}
	if boolField(t, "italic") {
		style.Attributes = style.Attributes.With(core.AttrItalic)
	}
	if boolField(t, "underline") {
		style.Attributes = style.Attributes.With(core.AttrUnderline)
	}

	return core.StyleSpan{Start: start, Length: length, Style: style}, true
}

func intField(t *lua.LTable, key string) (int, bool) {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n), true
	}
	return 0, false
}

func stringField(t *lua.LTable, key string) (string, bool) {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s), true
	}
	return "", false
}

func boolField(t *lua.LTable, key string) bool {
	if b, ok := t.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return false
}
