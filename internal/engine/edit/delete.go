package edit

import (
	"github.com/dshills/mathfield/internal/engine/cursor"
	"github.com/dshills/mathfield/internal/engine/layout"
)

// Delete removes content next to c in direction dir (Left deletes backward,
// Right forward) and returns the new cursor. changed is false when nothing
// happened, such as at the edges of the root sequence.
//
// Next to a leaf the leaf is removed. Next to a compound, an empty compound
// is removed and a non-empty one is entered. At the edge of a cell the
// enclosing compound is demoted: its cells are spliced into the parent
// sequence in reading order and the cursor sits at the seam. Matrix cells
// are walked instead, and a matrix is only removed once it is empty.
func Delete(t *layout.Tree, c cursor.Cursor, dir cursor.Direction) (cursor.Cursor, bool) {
	if !c.Valid(t) {
		return c, false
	}
	switch dir {
	case cursor.Left:
		return deleteBackward(t, c)
	case cursor.Right:
		return deleteForward(t, c)
	}
	return c, false
}

func deleteBackward(t *layout.Tree, c cursor.Cursor) (cursor.Cursor, bool) {
	if left := c.Left(t); left != layout.NoHandle {
		if t.IsLeaf(left) || t.IsEmpty(left) {
			_ = t.DeleteRange(c.Seq, c.Index-1, c.Index)
			return cursor.New(c.Seq, c.Index-1), true
		}
		cells := cursor.HorizontalCells(t, left)
		if t.Kind(left) == layout.KindFraction {
			cells = []int{layout.FractionDenominator}
		}
		cell := t.Child(left, cells[len(cells)-1])
		return cursor.New(cell, t.ChildCount(cell)), true
	}
	owner := c.Owner(t)
	if owner == layout.NoHandle {
		return c, false
	}
	cell := t.IndexInParent(c.Seq)
	if t.Kind(owner) == layout.KindMatrix {
		if cell > 0 {
			prev := t.Child(owner, cell-1)
			return cursor.New(prev, t.ChildCount(prev)), true
		}
		return leaveMatrix(t, owner, cursor.LeftOf(t, owner))
	}
	return demote(t, owner, cell, false), true
}

func deleteForward(t *layout.Tree, c cursor.Cursor) (cursor.Cursor, bool) {
	if right := c.Right(t); right != layout.NoHandle {
		if t.IsLeaf(right) || t.IsEmpty(right) {
			_ = t.DeleteRange(c.Seq, c.Index, c.Index+1)
			return c, true
		}
		return cursor.Inside(t, right), true
	}
	owner := c.Owner(t)
	if owner == layout.NoHandle {
		return c, false
	}
	cell := t.IndexInParent(c.Seq)
	if t.Kind(owner) == layout.KindMatrix {
		if cell < t.ChildCount(owner)-1 {
			return cursor.New(t.Child(owner, cell+1), 0), true
		}
		return leaveMatrix(t, owner, cursor.RightOf(t, owner))
	}
	return demote(t, owner, cell, true), true
}

// leaveMatrix removes an empty matrix, or moves to out when it has content.
func leaveMatrix(t *layout.Tree, m layout.Handle, out cursor.Cursor) (cursor.Cursor, bool) {
	if !t.IsEmpty(m) {
		return out, true
	}
	at := cursor.LeftOf(t, m)
	_ = t.DeleteRange(at.Seq, at.Index, at.Index+1)
	return at, true
}

// demote unwraps compound h and returns the cursor at the seam of cell:
// where the cell's content starts, or ends when afterCell is set.
func demote(t *layout.Tree, h layout.Handle, cell int, afterCell bool) cursor.Cursor {
	order := visualOrder(t, h)
	offset := 0
	for _, i := range order {
		n := t.ChildCount(t.Child(h, i))
		if i == cell {
			if afterCell {
				offset += n
			}
			break
		}
		offset += n
	}
	seq := t.Parent(h)
	start, _, err := t.Unwrap(h, order...)
	if err != nil {
		panic("edit: demote: " + err.Error())
	}
	return cursor.New(seq, start+offset)
}
