package renderer

import (
	"github.com/dshills/mathfield/internal/engine"
	"github.com/dshills/mathfield/internal/engine/layout"
	"github.com/dshills/mathfield/internal/renderer/backend"
	"github.com/dshills/mathfield/internal/renderer/core"
	"github.com/dshills/mathfield/internal/renderer/geometry"
	"github.com/dshills/mathfield/internal/renderer/viewport"
)

// Structural glyphs.
const (
	barRune      = '─'
	radicalRune  = '√'
	matrixLeft   = '['
	matrixRight  = ']'
	continuation = 0
)

// Painter draws a field into a region of a backend.
type Painter struct {
	backend backend.Backend
	theme   Theme

	// Screen position of the field's window
	originX, originY int
}

// PainterOption configures a Painter.
type PainterOption func(*Painter)

// WithTheme sets the painter's theme.
func WithTheme(t Theme) PainterOption {
	return func(p *Painter) {
		p.theme = t
	}
}

// WithOrigin places the field's window at (x, y) on the backend.
func WithOrigin(x, y int) PainterOption {
	return func(p *Painter) {
		p.originX, p.originY = x, y
	}
}

// NewPainter creates a painter drawing to b.
func NewPainter(b backend.Backend, opts ...PainterOption) *Painter {
	p := &Painter{backend: b, theme: DefaultTheme()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetTheme replaces the theme.
func (p *Painter) SetTheme(t Theme) {
	p.theme = t
}

// frame is the state of one Render call.
type frame struct {
	p      *Painter
	tree   *layout.Tree
	m      *geometry.Metrics
	view   *viewport.Viewport
	window geometry.Rect
}

// Render draws the field's visible window and places the terminal cursor
// on the caret while the field is being edited. It does not call Show.
func (p *Painter) Render(e *engine.Engine) {
	view := e.Viewport()
	f := &frame{p: p, view: view, window: view.Visible()}
	f.clear()

	if e.IsLinearMode() {
		f.text(e.Text())
	} else {
		f.tree = e.Tree()
		f.m = e.Metrics()
		sel, selecting := e.Selection()
		selected := map[layout.Handle]bool{}
		if selecting {
			for i := sel.Start(); i < sel.End(); i++ {
				selected[f.tree.Child(sel.Seq, i)] = true
			}
		}
		f.node(f.tree.Root(), selected, false)
	}

	if !e.IsEditing() {
		p.backend.HideCursor()
		return
	}
	r, baseline := e.CursorRect()
	if x, y, ok := f.screen(r.X, baseline); ok {
		p.backend.ShowCursor(x, y)
	} else {
		p.backend.HideCursor()
	}
}

// screen maps content coordinates to backend coordinates, reporting
// whether the cell is inside the window.
func (f *frame) screen(x, y int) (int, int, bool) {
	if !f.window.Contains(x, y) {
		return 0, 0, false
	}
	col, row := f.view.ToScreen(x, y)
	return f.p.originX + col, f.p.originY + row, true
}

func (f *frame) set(x, y int, r rune, style core.Style) {
	if sx, sy, ok := f.screen(x, y); ok {
		f.p.backend.SetCell(sx, sy, core.Cell{Rune: r, Style: style})
	}
}

func (f *frame) clear() {
	empty := core.Cell{Rune: ' ', Style: f.p.theme.Text}
	for y := 0; y < f.window.H; y++ {
		for x := 0; x < f.window.W; x++ {
			f.p.backend.SetCell(f.p.originX+x, f.p.originY+y, empty)
		}
	}
}

// glyph draws r at (x, y), filling continuation cells for wide runes.
func (f *frame) glyph(x, y int, r rune, style core.Style) {
	f.set(x, y, r, style)
	for i := 1; i < geometry.RuneWidth(r); i++ {
		f.set(x+i, y, continuation, style)
	}
}

func (f *frame) text(s string) {
	x := 0
	for _, r := range s {
		f.glyph(x, 0, r, f.p.theme.Text)
		x += geometry.RuneWidth(r)
	}
}

func (f *frame) style(base core.Style, selected bool) core.Style {
	if selected {
		return f.p.theme.Selection
	}
	return base
}

func (f *frame) node(h layout.Handle, selected map[layout.Handle]bool, inSel bool) {
	t := f.tree
	box, ok := f.m.Box(h)
	if !ok {
		return
	}
	inSel = inSel || selected[h]
	structure := f.style(f.p.theme.Structure, inSel)

	switch t.Kind(h) {
	case layout.KindCodePoint:
		f.glyph(box.X, box.Y, t.CodePoint(h), f.style(f.p.theme.Text, inSel))
		return
	case layout.KindSequence:
		if t.ChildCount(h) == 0 {
			f.placeholder(h, box, inSel)
		}
	case layout.KindFraction:
		num, _ := f.m.Box(t.Child(h, layout.FractionNumerator))
		for x := box.X; x < box.Right(); x++ {
			f.set(x, num.Bottom(), barRune, structure)
		}
	case layout.KindRoot:
		rad, _ := f.m.Box(t.Child(h, layout.RootRadicand))
		f.set(rad.X-1, rad.Y+rad.Baseline, radicalRune, structure)
		for x := rad.X; x < rad.Right(); x++ {
			f.set(x, box.Y, barRune, structure)
		}
	case layout.KindBracket:
		d := t.Delimiter(h)
		for y := box.Y; y < box.Bottom(); y++ {
			f.set(box.X, y, d.Open(), structure)
			f.set(box.Right()-1, y, d.Close(), structure)
		}
	case layout.KindMatrix:
		for y := box.Y; y < box.Bottom(); y++ {
			f.set(box.X, y, matrixLeft, structure)
			f.set(box.Right()-1, y, matrixRight, structure)
		}
	}
	for _, c := range t.Children(h) {
		f.node(c, selected, inSel)
	}
}

// placeholder marks an empty cell. The root and an empty radical index
// stay blank.
func (f *frame) placeholder(seq layout.Handle, box geometry.Box, inSel bool) {
	t := f.tree
	owner := t.Parent(seq)
	if owner == layout.NoHandle {
		return
	}
	if t.Kind(owner) == layout.KindRoot && t.Child(owner, layout.RootIndex) == seq {
		return
	}
	f.set(box.X, box.Y+box.Baseline, placeholderRune, f.style(f.p.theme.Placeholder, inSel))
}
