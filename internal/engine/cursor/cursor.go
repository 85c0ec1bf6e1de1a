package cursor

import (
	"fmt"

	"github.com/dshills/mathfield/internal/engine/layout"
)

// Handle is an alias for layout.Handle for convenience.
type Handle = layout.Handle

// Cursor represents an insertion point: before child Index of sequence Seq.
// Index ranges over [0, ChildCount(Seq)].
// Cursor is an immutable value type.
type Cursor struct {
	Seq   Handle
	Index int
}

// New creates a cursor before child index of seq.
func New(seq Handle, index int) Cursor {
	if index < 0 {
		index = 0
	}
	return Cursor{Seq: seq, Index: index}
}

// Start returns the first position of the tree.
func Start(t *layout.Tree) Cursor {
	return Cursor{Seq: t.Root(), Index: 0}
}

// End returns the last position of the root sequence.
func End(t *layout.Tree) Cursor {
	return Cursor{Seq: t.Root(), Index: t.ChildCount(t.Root())}
}

// LeftOf returns the position immediately left of node h. For a sequence
// this is its first position.
func LeftOf(t *layout.Tree, h Handle) Cursor {
	if t.IsEditable(h) {
		return Cursor{Seq: h, Index: 0}
	}
	return Cursor{Seq: t.Parent(h), Index: t.IndexInParent(h)}
}

// RightOf returns the position immediately right of node h. For a sequence
// this is its last position.
func RightOf(t *layout.Tree, h Handle) Cursor {
	if t.IsEditable(h) {
		return Cursor{Seq: h, Index: t.ChildCount(h)}
	}
	return Cursor{Seq: t.Parent(h), Index: t.IndexInParent(h) + 1}
}

// Inside returns the first position of the first editable cell of h in
// left-to-right order. Leaves have no inside; LeftOf is returned instead.
func Inside(t *layout.Tree, h Handle) Cursor {
	if t.IsEditable(h) {
		return Cursor{Seq: h, Index: 0}
	}
	if !t.Kind(h).IsCompound() {
		return LeftOf(t, h)
	}
	cells := HorizontalCells(t, h)
	return Cursor{Seq: t.Child(h, cells[0]), Index: 0}
}

// Valid reports whether the cursor addresses an insertion point of t that is
// reachable from the root.
func (c Cursor) Valid(t *layout.Tree) bool {
	if !t.IsEditable(c.Seq) || !t.IsAncestor(t.Root(), c.Seq) {
		return false
	}
	return c.Index >= 0 && c.Index <= t.ChildCount(c.Seq)
}

// Normalize clamps the index into range. A cursor whose sequence is no
// longer part of the tree falls back to the start of the root.
func (c Cursor) Normalize(t *layout.Tree) Cursor {
	if !t.IsEditable(c.Seq) || !t.IsAncestor(t.Root(), c.Seq) {
		return Start(t)
	}
	n := t.ChildCount(c.Seq)
	if c.Index < 0 {
		return Cursor{Seq: c.Seq, Index: 0}
	}
	if c.Index > n {
		return Cursor{Seq: c.Seq, Index: n}
	}
	return c
}

// Left returns the node immediately left of the cursor, or NoHandle.
func (c Cursor) Left(t *layout.Tree) Handle {
	return t.Child(c.Seq, c.Index-1)
}

// Right returns the node immediately right of the cursor, or NoHandle.
func (c Cursor) Right(t *layout.Tree) Handle {
	return t.Child(c.Seq, c.Index)
}

// AtStart reports whether the cursor is at the first position of its sequence.
func (c Cursor) AtStart() bool {
	return c.Index == 0
}

// AtEnd reports whether the cursor is at the last position of its sequence.
func (c Cursor) AtEnd(t *layout.Tree) bool {
	return c.Index >= t.ChildCount(c.Seq)
}

// Owner returns the compound node whose cell holds the cursor, or NoHandle
// when the cursor is in the root.
func (c Cursor) Owner(t *layout.Tree) Handle {
	return t.Parent(c.Seq)
}

// Equals returns true if two cursors are at the same position.
func (c Cursor) Equals(other Cursor) bool {
	return c.Seq == other.Seq && c.Index == other.Index
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	return fmt.Sprintf("Cursor(%d:%d)", c.Seq, c.Index)
}

// ToSelection converts this cursor to a selection with no extent.
func (c Cursor) ToSelection() Selection {
	return NewSelection(c)
}
