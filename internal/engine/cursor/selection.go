package cursor

import (
	"fmt"

	"github.com/dshills/mathfield/internal/engine/layout"
)

// Selection represents a range of sibling nodes in one sequence.
// Anchor is where the selection started; Active is the current cursor index.
// When Anchor == Active, this represents a cursor with no selection.
// Selection is an immutable value type.
type Selection struct {
	Seq    Handle
	Anchor int // Where selection started
	Active int // Current cursor index (where typing occurs)
}

// NewSelection creates an empty selection anchored at c.
func NewSelection(c Cursor) Selection {
	return Selection{Seq: c.Seq, Anchor: c.Index, Active: c.Index}
}

// NewRangeSelection creates a forward selection of children [start, end) of seq.
func NewRangeSelection(seq Handle, start, end int) Selection {
	return Selection{Seq: seq, Anchor: start, Active: end}
}

// IsEmpty returns true if the selection has no extent (just a cursor).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// Len returns the number of selected siblings.
func (s Selection) Len() int {
	return s.End() - s.Start()
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	return min(s.Anchor, s.Active)
}

// End returns the upper bound of the selection (exclusive).
func (s Selection) End() int {
	return max(s.Anchor, s.Active)
}

// IsForward returns true if the selection extends forward (active >= anchor).
func (s Selection) IsForward() bool {
	return s.Active >= s.Anchor
}

// Cursor returns the active edge as a cursor.
func (s Selection) Cursor() Cursor {
	return Cursor{Seq: s.Seq, Index: s.Active}
}

// StartCursor returns the cursor at the lower bound.
func (s Selection) StartCursor() Cursor {
	return Cursor{Seq: s.Seq, Index: s.Start()}
}

// Collapse drops the selection, keeping the cursor at the active edge.
func (s Selection) Collapse() Cursor {
	return s.Cursor()
}

// Valid reports whether both edges address insertion points of the same
// attached sequence.
func (s Selection) Valid(t *layout.Tree) bool {
	return Cursor{Seq: s.Seq, Index: s.Anchor}.Valid(t) && s.Cursor().Valid(t)
}

// Contains reports whether child i of the selection's sequence is selected.
func (s Selection) Contains(i int) bool {
	return i >= s.Start() && i < s.End()
}

// Equals returns true if the selections are identical.
func (s Selection) Equals(other Selection) bool {
	return s == other
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("Selection(%d:%d..%d)", s.Seq, s.Anchor, s.Active)
}

// Extend moves the active edge one sibling left or right. When the active
// edge is already at the boundary of a cell, the selection is lifted to the
// parent sequence and covers the whole enclosing compound, so both edges
// stay in one sequence. Vertical directions and extension past the root
// boundary are no-ops.
func Extend(t *layout.Tree, s Selection, dir Direction) (Selection, bool) {
	if !s.Valid(t) || !dir.IsHorizontal() {
		return s, false
	}
	n := t.ChildCount(s.Seq)
	switch {
	case dir == Right && s.Active < n:
		return Selection{Seq: s.Seq, Anchor: s.Anchor, Active: s.Active + 1}, true
	case dir == Left && s.Active > 0:
		return Selection{Seq: s.Seq, Anchor: s.Anchor, Active: s.Active - 1}, true
	}
	owner := t.Parent(s.Seq)
	if owner == layout.NoHandle {
		return s, false
	}
	parent := t.Parent(owner)
	i := t.IndexInParent(owner)
	if dir == Right {
		return Selection{Seq: parent, Anchor: i, Active: i + 1}, true
	}
	return Selection{Seq: parent, Anchor: i + 1, Active: i}, true
}
