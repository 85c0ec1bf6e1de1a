// Package geometry computes the rendered geometry of a layout tree in
// character cells.
//
// Every node gets a box (origin, width, height) and a baseline: the row,
// counted from the top of the box, that lines up with its neighbours in a
// sequence. Geometry is derived from the tree on demand and never stored in
// it; callers recompute after each mutation.
package geometry

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/mathfield/internal/engine/layout"
)

// Rect is an axis-aligned rectangle in cells.
type Rect struct {
	X, Y int
	W, H int
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Size is a width and height in cells.
type Size struct {
	W, H int
}

// Box is the placed geometry of one node.
type Box struct {
	Rect
	Baseline int // rows from the top of the box to the main line
}

// extent is the size-only result of the measure pass.
type extent struct {
	w, h, b int
}

// Metrics holds the boxes of every node reachable from a tree's root.
type Metrics struct {
	tree    *layout.Tree
	extents map[layout.Handle]extent
	boxes   map[layout.Handle]Box
}

// Compute measures and places every node of t, with the root at (0, 0).
func Compute(t *layout.Tree) *Metrics {
	m := &Metrics{
		tree:    t,
		extents: make(map[layout.Handle]extent, t.Count()),
		boxes:   make(map[layout.Handle]Box, t.Count()),
	}
	m.measure(t.Root())
	m.place(t.Root(), 0, 0)
	return m
}

// Box returns the box of h.
func (m *Metrics) Box(h layout.Handle) (Box, bool) {
	b, ok := m.boxes[h]
	return b, ok
}

// Size returns the size of the whole expression.
func (m *Metrics) Size() Size {
	b := m.boxes[m.tree.Root()]
	return Size{W: b.W, H: b.H}
}

// Baseline returns the root baseline row.
func (m *Metrics) Baseline() int {
	return m.boxes[m.tree.Root()].Baseline
}

// CaretX returns the column of the insertion point before child index of seq.
func (m *Metrics) CaretX(seq layout.Handle, index int) int {
	s := m.boxes[seq]
	n := m.tree.ChildCount(seq)
	switch {
	case n == 0:
		return s.X
	case index < n:
		return m.boxes[m.tree.Child(seq, index)].X
	default:
		return s.Right()
	}
}

// CaretRect returns the one-column rectangle of the insertion point before
// child index of seq, spanning the sequence height, and the absolute row of
// the sequence baseline.
func (m *Metrics) CaretRect(seq layout.Handle, index int) (Rect, int) {
	s := m.boxes[seq]
	return Rect{X: m.CaretX(seq, index), Y: s.Y, W: 1, H: s.H}, s.Y + s.Baseline
}

// RuneWidth returns the cell width of a leaf symbol, at least 1.
func RuneWidth(r rune) int {
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

func (m *Metrics) measure(h layout.Handle) extent {
	t := m.tree
	var e extent
	switch t.Kind(h) {
	case layout.KindCodePoint:
		e = extent{w: RuneWidth(t.CodePoint(h)), h: 1}
	case layout.KindSequence:
		e = m.measureRow(t.Children(h))
	case layout.KindFraction:
		num := m.measure(t.Child(h, layout.FractionNumerator))
		den := m.measure(t.Child(h, layout.FractionDenominator))
		e = extent{w: max(num.w, den.w) + 2, h: num.h + 1 + den.h, b: num.h}
	case layout.KindPower:
		base := m.measure(t.Child(h, layout.PowerBase))
		exp := m.measure(t.Child(h, layout.PowerExponent))
		e = extent{w: base.w + exp.w, h: exp.h + base.h, b: exp.h + base.b}
	case layout.KindSubscript:
		base := m.measure(t.Child(h, layout.SubscriptBase))
		sub := m.measure(t.Child(h, layout.SubscriptIndex))
		e = extent{w: base.w + sub.w, h: base.h + sub.h, b: base.b}
	case layout.KindRoot:
		rad := m.measure(t.Child(h, layout.RootRadicand))
		idx := m.measure(t.Child(h, layout.RootIndex))
		idxW, height := 0, rad.h+1
		if !t.IsEmpty(t.Child(h, layout.RootIndex)) {
			idxW = idx.w
			height = max(height, idx.h)
		}
		e = extent{w: idxW + 1 + rad.w, h: height, b: 1 + rad.b}
	case layout.KindBracket:
		in := m.measure(t.Child(h, layout.BracketInner))
		e = extent{w: in.w + 2, h: in.h, b: in.b}
	case layout.KindMatrix:
		e = m.measureMatrix(h)
	}
	m.extents[h] = e
	return e
}

func (m *Metrics) measureRow(children []layout.Handle) extent {
	if len(children) == 0 {
		return extent{w: 1, h: 1}
	}
	var w, above, below int
	for _, c := range children {
		ce := m.measure(c)
		w += ce.w
		above = max(above, ce.b)
		below = max(below, ce.h-ce.b-1)
	}
	return extent{w: w, h: above + 1 + below, b: above}
}

// matrixGrid returns column widths and per-row baseline/height.
func (m *Metrics) matrixGrid(h layout.Handle) (colW, rowB, rowH []int) {
	rows, cols := m.tree.Dims(h)
	colW = make([]int, cols)
	rowB = make([]int, rows)
	below := make([]int, rows)
	rowH = make([]int, rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ce := m.extents[m.tree.Child(h, r*cols+c)]
			colW[c] = max(colW[c], ce.w)
			rowB[r] = max(rowB[r], ce.b)
			below[r] = max(below[r], ce.h-ce.b-1)
		}
		rowH[r] = rowB[r] + 1 + below[r]
	}
	return colW, rowB, rowH
}

func (m *Metrics) measureMatrix(h layout.Handle) extent {
	for _, cell := range m.tree.Children(h) {
		m.measure(cell)
	}
	colW, _, rowH := m.matrixGrid(h)
	w := 2 + len(colW) - 1
	for _, cw := range colW {
		w += cw
	}
	height := 0
	for _, rh := range rowH {
		height += rh
	}
	return extent{w: w, h: height, b: height / 2}
}

func (m *Metrics) place(h layout.Handle, x, y int) {
	t := m.tree
	e := m.extents[h]
	m.boxes[h] = Box{Rect: Rect{X: x, Y: y, W: e.w, H: e.h}, Baseline: e.b}

	switch t.Kind(h) {
	case layout.KindSequence:
		cx := x
		for _, c := range t.Children(h) {
			ce := m.extents[c]
			m.place(c, cx, y+e.b-ce.b)
			cx += ce.w
		}
	case layout.KindFraction:
		num := t.Child(h, layout.FractionNumerator)
		den := t.Child(h, layout.FractionDenominator)
		ne, de := m.extents[num], m.extents[den]
		m.place(num, x+(e.w-ne.w)/2, y)
		m.place(den, x+(e.w-de.w)/2, y+ne.h+1)
	case layout.KindPower:
		base := t.Child(h, layout.PowerBase)
		exp := t.Child(h, layout.PowerExponent)
		be, ee := m.extents[base], m.extents[exp]
		m.place(base, x, y+ee.h)
		m.place(exp, x+be.w, y)
	case layout.KindSubscript:
		base := t.Child(h, layout.SubscriptBase)
		be := m.extents[base]
		m.place(base, x, y)
		m.place(t.Child(h, layout.SubscriptIndex), x+be.w, y+be.h)
	case layout.KindRoot:
		idx := t.Child(h, layout.RootIndex)
		idxW := 0
		if !t.IsEmpty(idx) {
			idxW = m.extents[idx].w
		}
		m.place(idx, x, y)
		m.place(t.Child(h, layout.RootRadicand), x+idxW+1, y+1)
	case layout.KindBracket:
		m.place(t.Child(h, layout.BracketInner), x+1, y)
	case layout.KindMatrix:
		colW, rowB, rowH := m.matrixGrid(h)
		_, cols := t.Dims(h)
		cy := y
		for r := range rowH {
			cx := x + 1
			for c := 0; c < cols; c++ {
				cell := t.Child(h, r*cols+c)
				m.place(cell, cx, cy+rowB[r]-m.extents[cell].b)
				cx += colW[c] + 1
			}
			cy += rowH[r]
		}
	}
}
