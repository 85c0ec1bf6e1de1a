package edit

import (
	"github.com/dshills/mathfield/internal/engine/cursor"
	"github.com/dshills/mathfield/internal/engine/layout"
)

// Insert applies code point r at c and returns the new cursor.
//
// Ordinary runes become leaves. Structural runes promote the operand left of
// the cursor into a fraction, power, subscript or root, open an empty group,
// or step out of the nearest enclosing group of the matching delimiter.
func Insert(t *layout.Tree, c cursor.Cursor, r rune) (cursor.Cursor, error) {
	if !c.Valid(t) {
		return c, ErrInvalidCursor
	}
	if p, ok := promotionFor(r); ok {
		return promote(t, c, p)
	}
	switch r {
	case '(', '[':
		d, _ := layout.DelimiterFor(r)
		return openGroup(t, c, d)
	case ')', ']':
		d, _ := layout.DelimiterFor(r)
		return closeGroup(t, c, d)
	}
	return insertLeaf(t, c, r)
}

// InsertText inserts each rune of s in turn. It is all-or-nothing: on error
// the tree is restored and the original cursor returned.
func InsertText(t *layout.Tree, c cursor.Cursor, s string) (cursor.Cursor, error) {
	if s == "" {
		return c, nil
	}
	snapshot := t.Clone()
	cur := c
	for _, r := range s {
		next, err := Insert(t, cur, r)
		if err != nil {
			t.Restore(snapshot)
			return c, err
		}
		cur = next
	}
	return cur, nil
}

func insertLeaf(t *layout.Tree, c cursor.Cursor, r rune) (cursor.Cursor, error) {
	if !ValidLeaf(r) {
		return c, ErrInvalidCodePoint
	}
	h, err := t.NewLeaf(r)
	if err != nil {
		return c, err
	}
	if err := t.InsertChild(c.Seq, c.Index, h); err != nil {
		_ = t.Free(h)
		return c, err
	}
	return cursor.New(c.Seq, c.Index+1), nil
}

// OperandStart returns the index where the promotion operand left of c
// begins. It equals c.Index when there is no operand.
func OperandStart(t *layout.Tree, c cursor.Cursor) int {
	left := c.Left(t)
	if left == layout.NoHandle {
		return c.Index
	}
	if t.Kind(left).IsCompound() || !IsOperator(t.CodePoint(left)) {
		return c.Index - 1
	}
	return c.Index
}

func promote(t *layout.Tree, c cursor.Cursor, p promotion) (cursor.Cursor, error) {
	h, err := t.NewCompound(p.kind)
	if err != nil {
		return c, err
	}
	start := OperandStart(t, c)
	if err := t.Wrap(c.Seq, start, c.Index, h, p.operand); err != nil {
		_ = t.Free(h)
		return c, err
	}
	if start == c.Index && !p.atEnd {
		return cursor.New(t.Child(h, p.operand), 0), nil
	}
	cell := t.Child(h, p.target)
	if p.atEnd {
		return cursor.New(cell, t.ChildCount(cell)), nil
	}
	return cursor.New(cell, 0), nil
}

func openGroup(t *layout.Tree, c cursor.Cursor, d layout.Delimiter) (cursor.Cursor, error) {
	h, err := t.NewBracket(d)
	if err != nil {
		return c, err
	}
	if err := t.InsertChild(c.Seq, c.Index, h); err != nil {
		_ = t.Free(h)
		return c, err
	}
	return cursor.New(t.Child(h, layout.BracketInner), 0), nil
}

// closeGroup moves the cursor right of the nearest enclosing group with
// delimiter d.
func closeGroup(t *layout.Tree, c cursor.Cursor, d layout.Delimiter) (cursor.Cursor, error) {
	for seq := c.Seq; seq != layout.NoHandle; {
		owner := t.Parent(seq)
		if owner == layout.NoHandle {
			break
		}
		if t.Kind(owner) == layout.KindBracket && t.Delimiter(owner) == d {
			return cursor.RightOf(t, owner), nil
		}
		seq = t.Parent(owner)
	}
	return c, ErrNotApplicable
}

// InsertMatrix inserts an empty rows x cols matrix at c and places the
// cursor in its first cell.
func InsertMatrix(t *layout.Tree, c cursor.Cursor, rows, cols int) (cursor.Cursor, error) {
	if !c.Valid(t) {
		return c, ErrInvalidCursor
	}
	if rows < 1 || cols < 1 {
		return c, ErrInvalidDimensions
	}
	h, err := t.NewMatrix(rows, cols)
	if err != nil {
		return c, err
	}
	if err := t.InsertChild(c.Seq, c.Index, h); err != nil {
		_ = t.Free(h)
		return c, err
	}
	return cursor.New(t.Child(h, 0), 0), nil
}

// InsertTree splices the contents of src's root sequence into t at c and
// returns the cursor after them. Capacity for the whole content is reserved
// before anything is copied.
func InsertTree(t *layout.Tree, c cursor.Cursor, src *layout.Tree) (cursor.Cursor, error) {
	if !c.Valid(t) {
		return c, ErrInvalidCursor
	}
	items := src.Children(src.Root())
	if len(items) == 0 {
		return c, nil
	}
	if err := t.Reserve(src.Count() - 1); err != nil {
		return c, err
	}
	copies := make([]layout.Handle, 0, len(items))
	for _, h := range items {
		dup, err := t.Import(src, h)
		if err != nil {
			for _, d := range copies {
				_ = t.Free(d)
			}
			return c, err
		}
		copies = append(copies, dup)
	}
	if err := t.InsertChildren(c.Seq, c.Index, copies); err != nil {
		for _, d := range copies {
			_ = t.Free(d)
		}
		return c, err
	}
	return cursor.New(c.Seq, c.Index+len(copies)), nil
}
