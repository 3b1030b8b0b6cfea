package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/inkpad/inkcore/internal/annotate"
	"github.com/inkpad/inkcore/internal/caret"
	"github.com/inkpad/inkcore/internal/config"
	"github.com/inkpad/inkcore/internal/core"
	"github.com/inkpad/inkcore/internal/editor"
	"github.com/inkpad/inkcore/internal/layout"
	"github.com/inkpad/inkcore/internal/session"
	"github.com/inkpad/inkcore/internal/shape"
	"github.com/inkpad/inkcore/internal/textbuf"
	"github.com/inkpad/inkcore/internal/theme"
)

// multiClickWindow is how close together two presses must land, in time
// and in cells, to count as a double or triple click.
const multiClickWindow = 400 * time.Millisecond

type app struct {
	screen tcell.Screen

	settings config.Settings
	theme    theme.Theme

	buf    *textbuf.Buffer
	eng    *layout.Engine
	ctl    *editor.Controller
	shaper *shape.CellShaper

	blinker   *caret.Blinker
	persister *caret.Debouncer
	annotator annotate.Annotator
	watcher   *config.Watcher
	store     *session.Store

	filePath   string
	configPath string
	scrollY    float64

	mouseHeld  bool
	clickCount int
	lastClick  time.Time
	lastClickX int
	lastClickY int

	quit bool
}

func newApp(opts options) (*app, error) {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	// The -theme flag wins over the configured theme path.
	themePath := opts.ThemePath
	if themePath == "" {
		themePath = settings.Theme.Path
	}
	th := theme.Default()
	if themePath != "" {
		if th, err = theme.Load(themePath); err != nil {
			return nil, err
		}
	}

	a := &app{
		settings: settings,
		theme:    th,
	}

	if opts.AnnotatePath != "" {
		script, err := os.ReadFile(opts.AnnotatePath)
		if err != nil {
			return nil, err
		}
		la, err := annotate.NewLuaAnnotator(string(script))
		if err != nil {
			return nil, err
		}
		a.annotator = la
	}

	a.store, err = session.Open(opts.SessionPath)
	if err != nil {
		return nil, err
	}

	text := ""
	if opts.File != "" {
		a.filePath, err = filepath.Abs(opts.File)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(a.filePath)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		text = string(data)
	}

	a.buf = textbuf.NewBufferFromString(text)
	a.shaper = shape.NewCellShaper(1, 1)
	a.shaper.SetTabWidth(settings.Editor.TabWidth)
	a.eng = layout.NewEngine(a.buf, a.shaper, a.layoutConfig(0))
	a.ctl = editor.New(a.buf, a.eng, a)

	a.blinker = caret.NewBlinker(
		time.Duration(settings.Caret.BlinkIntervalMs)*time.Millisecond,
		func(bool) { a.wake(nil) },
	)
	a.persister = caret.NewDebouncer(
		time.Duration(settings.Caret.ScrollDebounceMs)*time.Millisecond,
		a.persistViewState,
	)

	a.configPath = opts.ConfigPath

	a.refreshSpans()
	a.restoreViewState()
	return a, nil
}

// OnTextChanged implements editor.Host.
func (a *app) OnTextChanged(string) {
	a.refreshSpans()
	a.blinker.Reset()
	a.persister.Trigger()
}

// OnSelectionChanged implements editor.Host.
func (a *app) OnSelectionChanged(textbuf.Range) {
	a.blinker.Reset()
	a.persister.Trigger()
}

func (a *app) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	a.screen = screen
	screen.EnableMouse()
	screen.EnablePaste()

	// The watcher's goroutine posts through a.screen, so it must not
	// exist before the screen does. Errors keep the current settings;
	// a missing config directory just leaves live reload off.
	if w, err := config.NewWatcher(a.configPath, func(s config.Settings, err error) {
		if err == nil {
			a.wake(s)
		}
	}); err == nil {
		a.watcher = w
	}

	a.applySettings(a.settings)
	if a.settings.Caret.BlinkIntervalMs > 0 {
		a.blinker.Start()
	}

	for !a.quit {
		a.draw()
		a.handle(screen.PollEvent())
	}
	return nil
}

func (a *app) Shutdown() {
	a.blinker.Stop()
	a.persister.Flush()
	if a.watcher != nil {
		a.watcher.Close()
	}
	if la, ok := a.annotator.(*annotate.LuaAnnotator); ok {
		la.Close()
	}
	if a.screen != nil {
		a.screen.Fini()
	}
}

// wake posts an interrupt so the event loop redraws; payload settings
// are applied on the loop goroutine, never from the timer or watcher
// goroutine that produced them.
func (a *app) wake(payload any) {
	if a.screen != nil {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(payload))
	}
}

func (a *app) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.applySettings(a.settings)
		a.screen.Sync()
	case *tcell.EventInterrupt:
		if s, ok := ev.Data().(config.Settings); ok {
			a.settings = s
			a.applySettings(s)
		}
	case *tcell.EventPaste:
		// Bracketed paste arrives as individual rune events between
		// the start and end markers; nothing to do here.
	case nil:
		a.quit = true
	}
}

func (a *app) handleKey(ev *tcell.EventKey) {
	extend := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		a.quit = true
	case tcell.KeyCtrlS:
		a.save()
	case tcell.KeyCtrlA:
		a.ctl.SelectAll()
	case tcell.KeyRune:
		a.ctl.InsertText(string(ev.Rune()))
	case tcell.KeyEnter:
		a.ctl.InsertText("\n")
	case tcell.KeyTab:
		a.ctl.InsertText("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.ctl.DeleteBackward()
	case tcell.KeyDelete:
		a.ctl.DeleteForward()
	case tcell.KeyLeft:
		a.ctl.MoveLeft(extend)
	case tcell.KeyRight:
		a.ctl.MoveRight(extend)
	case tcell.KeyUp:
		a.ctl.MoveUp(extend)
	case tcell.KeyDown:
		a.ctl.MoveDown(extend)
	case tcell.KeyHome:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			a.ctl.MoveToBeginningOfDocument(extend)
		} else {
			a.ctl.MoveToBeginningOfLine(extend)
		}
	case tcell.KeyEnd:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			a.ctl.MoveToEndOfDocument(extend)
		} else {
			a.ctl.MoveToEndOfLine(extend)
		}
	}
	a.scrollToCaret()
}

func (a *app) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := core.Point{X: float64(x), Y: float64(y) + a.scrollY}

	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		a.scrollBy(-3)
		return
	case ev.Buttons()&tcell.WheelDown != 0:
		a.scrollBy(3)
		return
	}

	pressed := ev.Buttons()&tcell.Button1 != 0
	switch {
	case pressed && !a.mouseHeld:
		a.mouseHeld = true
		now := time.Now()
		if now.Sub(a.lastClick) <= multiClickWindow && x == a.lastClickX && y == a.lastClickY {
			a.clickCount++
		} else {
			a.clickCount = 1
		}
		a.lastClick, a.lastClickX, a.lastClickY = now, x, y
		a.ctl.MouseDown(p, a.clickCount)
	case pressed && a.mouseHeld:
		a.ctl.MouseDrag(p)
	case !pressed && a.mouseHeld:
		a.mouseHeld = false
		a.ctl.MouseUp(p)
	}
}

func (a *app) save() {
	if a.filePath != "" {
		if err := os.WriteFile(a.filePath, []byte(a.ctl.Text()), 0o644); err != nil {
			a.screen.Beep()
			return
		}
	}
	a.persistViewState()
}

func (a *app) persistViewState() {
	if a.filePath == "" {
		return
	}
	st := session.State{Selection: a.ctl.Selection(), ScrollY: a.scrollY}
	if err := a.store.Put(a.filePath, st); err == nil {
		_ = a.store.Save()
	}
}

func (a *app) restoreViewState() {
	if a.filePath == "" {
		return
	}
	if st, ok := a.store.Get(a.filePath); ok {
		a.ctl.SetSelection(st.Selection)
		a.scrollY = st.ScrollY
	}
}

func (a *app) refreshSpans() {
	if a.annotator == nil {
		return
	}
	spans, err := a.annotator.Annotate(a.buf.Text())
	if err != nil {
		spans = nil
	}
	a.eng.SetSpans(spans)
}

func (a *app) applySettings(s config.Settings) {
	w := 0.0
	if a.screen != nil {
		width, _ := a.screen.Size()
		w = float64(width)
	}
	a.shaper.SetTabWidth(s.Editor.TabWidth)
	a.eng.SetConfig(a.layoutConfigWidth(s, w))
}

func (a *app) layoutConfig(width float64) layout.Config {
	return a.layoutConfigWidth(a.settings, width)
}

func (a *app) layoutConfigWidth(s config.Settings, width float64) layout.Config {
	wrapWidth := s.Editor.WrapWidth
	if s.Editor.Wrap && wrapWidth == 0 {
		wrapWidth = width - s.Editor.Padding*2
	}
	return layout.Config{
		Wrap:            s.Editor.Wrap,
		WrapWidth:       wrapWidth,
		LineHeightScale: 1, // terminal rows cannot subdivide
		Insets: core.Insets{
			Top:    0,
			Left:   s.Editor.Padding,
			Bottom: 0,
			Right:  0,
		},
	}
}

func (a *app) scrollBy(rows float64) {
	a.scrollY += rows
	max := a.eng.ContentHeight() - 1
	if a.scrollY > max {
		a.scrollY = max
	}
	if a.scrollY < 0 {
		a.scrollY = 0
	}
	a.persister.Trigger()
}

func (a *app) scrollToCaret() {
	a.eng.EnsureLayout()
	rect, ok := a.eng.CursorRect(a.ctl.Caret())
	if !ok {
		return
	}
	_, h := a.screen.Size()
	if rect.Y < a.scrollY {
		a.scrollY = rect.Y
	}
	if rect.MaxY() > a.scrollY+float64(h) {
		a.scrollY = rect.MaxY() - float64(h)
	}
}

func (a *app) draw() {
	s := a.screen
	w, h := s.Size()
	base := tcell.StyleDefault.
		Foreground(tcellColor(a.theme.Foreground)).
		Background(tcellColor(a.theme.Background))
	s.Fill(' ', base)

	sel := a.ctl.Selection()
	marked, hasMarked := a.ctl.MarkedRange()
	selStyle := a.theme.SelectionStyle(true)
	compStyle := a.theme.CompositionStyle()

	viewport := core.Rect{X: 0, Y: a.scrollY, Width: float64(w), Height: float64(h)}
	for _, line := range a.eng.VisibleLines(viewport, 2) {
		row := int(line.Origin().Y - a.scrollY)
		if row < 0 || row >= h {
			continue
		}
		abs := line.Range().Start
		for _, r := range line.Text() {
			x, ok := line.XOffset(abs)
			if !ok {
				break
			}
			style := base
			if span := styleAt(line.Spans(), abs); !span.IsDefault() {
				style = applyStyle(style, span)
			}
			if !sel.IsEmpty() && sel.Contains(abs) {
				style = applyStyle(style, selStyle)
			}
			if hasMarked && marked.Contains(abs) {
				style = applyStyle(style, compStyle)
			}
			col := int(line.Origin().X + x)
			if col >= 0 && col < w && r != '\t' {
				s.SetContent(col, row, r, nil, style)
			}
			if r >= 0x10000 {
				abs += 2
			} else {
				abs++
			}
		}
	}

	if a.blinker.Visible() || a.settings.Caret.BlinkIntervalMs == 0 {
		if rect, ok := a.eng.CursorRect(a.ctl.Caret()); ok {
			s.ShowCursor(int(rect.X), int(rect.Y-a.scrollY))
		}
	} else {
		s.HideCursor()
	}

	a.drawStatus(base)
	s.Show()
}

func (a *app) drawStatus(base tcell.Style) {
	w, h := a.screen.Size()
	name := a.filePath
	if name == "" {
		name = "[scratch]"
	}
	head := a.ctl.Caret()
	status := []rune(fmt.Sprintf(" %s  %d:%d ", filepath.Base(name), a.buf.LineIndex(head)+1, head))
	style := base.Reverse(true)
	for i := 0; i < w; i++ {
		r := ' '
		if i < len(status) {
			r = status[i]
		}
		a.screen.SetContent(i, h-1, r, nil, style)
	}
}

// styleAt returns the span style covering the offset, or the default.
func styleAt(spans []core.StyleSpan, abs int) core.Style {
	for _, sp := range spans {
		if abs >= sp.Start && abs < sp.End() {
			return sp.Style
		}
	}
	return core.DefaultStyle()
}

func applyStyle(base tcell.Style, s core.Style) tcell.Style {
	out := base
	if !s.Foreground.IsDefault() {
		out = out.Foreground(tcellColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		out = out.Background(tcellColor(s.Background))
	}
	if s.Attributes.Has(core.AttrBold) {
		out = out.Bold(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		out = out.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		out = out.Underline(true)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		out = out.StrikeThrough(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		out = out.Dim(true)
	}
	return out
}

func tcellColor(c core.Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
