package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mathfield/internal/renderer/core"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) GetCell(x, y int) core.Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, _, style, _ := t.screen.GetContent(x, y)
	return core.Cell{Rune: r, Style: convertTcellStyle(style)}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventInterrupt}
	}
	return convertEvent(ev)
}

func (t *Terminal) PostEvent(event Event) {
	switch event.Type {
	case EventKey:
		ev := tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, convertToTcellMod(event.Mod))
		_ = t.screen.PostEvent(ev) // best-effort; event queue may be full
	case EventInterrupt:
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep()
}

var attrPairs = [...]struct {
	attr core.Attribute
	ta   tcell.AttrMask
}{
	{core.AttrBold, tcell.AttrBold},
	{core.AttrDim, tcell.AttrDim},
	{core.AttrItalic, tcell.AttrItalic},
	{core.AttrReverse, tcell.AttrReverse},
}

func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		style = style.Foreground(tcellColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(tcellColor(s.Background))
	}
	var attrs tcell.AttrMask
	for _, p := range attrPairs {
		if s.Attributes.Has(p.attr) {
			attrs |= p.ta
		}
	}
	style = style.Attributes(attrs)
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	return style
}

func tcellColor(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func convertTcellStyle(ts tcell.Style) core.Style {
	fg, bg, attrs := ts.Decompose()
	s := core.Style{
		Foreground: convertTcellColor(fg),
		Background: convertTcellColor(bg),
	}
	for _, p := range attrPairs {
		if attrs&p.ta != 0 {
			s.Attributes |= p.attr
		}
	}
	return s
}

// convertTcellColor converts tcell.Color to our Color.
func convertTcellColor(tc tcell.Color) core.Color {
	if tc == tcell.ColorDefault {
		return core.ColorDefault
	}
	r, g, b := tc.RGB()
	return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key := convertKey(e.Key())
		mod := convertMod(e.Modifiers())
		if key == KeyRune && mod.Has(ModCtrl) {
			if ctrl := CtrlKey(e.Rune()); ctrl != KeyNone {
				key = ctrl
			}
		}
		return Event{
			Type: EventKey,
			Key:  key,
			Rune: e.Rune(),
			Mod:  mod,
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{
			Type:   EventResize,
			Width:  w,
			Height: h,
		}

	case *tcell.EventPaste:
		// The pasted text arrives as key events between start and end.
		return Event{
			Type:       EventPaste,
			PasteStart: e.Start(),
		}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}

	default:
		return Event{Type: EventNone}
	}
}

// keyPairs lists the named keys and their tcell codes. Control keys that
// share a code with a named key (Ctrl-H, Ctrl-I, Ctrl-M) come through as
// that key.
var keyPairs = []struct {
	key Key
	tk  tcell.Key
}{
	{KeyRune, tcell.KeyRune},
	{KeyEscape, tcell.KeyEscape},
	{KeyEnter, tcell.KeyEnter},
	{KeyTab, tcell.KeyTab},
	{KeyBackspace, tcell.KeyBackspace2},
	{KeyDelete, tcell.KeyDelete},
	{KeyHome, tcell.KeyHome},
	{KeyEnd, tcell.KeyEnd},
	{KeyUp, tcell.KeyUp},
	{KeyDown, tcell.KeyDown},
	{KeyLeft, tcell.KeyLeft},
	{KeyRight, tcell.KeyRight},
	{KeyF1, tcell.KeyF1},
	{KeyF2, tcell.KeyF2},
}

var (
	fromTcellKey = map[tcell.Key]Key{tcell.KeyBackspace: KeyBackspace}
	toTcellKey   = map[Key]tcell.Key{}
)

func init() {
	for _, p := range keyPairs {
		fromTcellKey[p.tk] = p.key
		toTcellKey[p.key] = p.tk
	}
}

func convertKey(k tcell.Key) Key {
	if key, ok := fromTcellKey[k]; ok {
		return key
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return KeyCtrlA + Key(k-tcell.KeyCtrlA)
	}
	return KeyNone
}

func convertToTcellKey(k Key) tcell.Key {
	if tk, ok := toTcellKey[k]; ok {
		return tk
	}
	if k >= KeyCtrlA && k <= KeyCtrlZ {
		return tcell.KeyCtrlA + tcell.Key(k-KeyCtrlA)
	}
	return tcell.KeyNUL
}

var modPairs = [...]struct {
	mod ModMask
	tm  tcell.ModMask
}{
	{ModShift, tcell.ModShift},
	{ModCtrl, tcell.ModCtrl},
	{ModAlt, tcell.ModAlt},
	{ModMeta, tcell.ModMeta},
}

func convertMod(m tcell.ModMask) ModMask {
	var out ModMask
	for _, p := range modPairs {
		if m&p.tm != 0 {
			out |= p.mod
		}
	}
	return out
}

func convertToTcellMod(m ModMask) tcell.ModMask {
	var out tcell.ModMask
	for _, p := range modPairs {
		if m&p.mod != 0 {
			out |= p.tm
		}
	}
	return out
}
