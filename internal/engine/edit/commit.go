package edit

import (
	"fmt"

	"github.com/dshills/mathfield/internal/engine/cursor"
	"github.com/dshills/mathfield/internal/engine/layout"
)

// Action is what CommitSelection does with the selected range.
type Action uint8

// Selection actions.
const (
	ActionDelete Action = iota
	ActionWrapParen
	ActionWrapSquare
	ActionWrapFraction
	ActionWrapRoot
)

var actionNames = map[Action]string{
	ActionDelete:       "delete",
	ActionWrapParen:    "wrap-paren",
	ActionWrapSquare:   "wrap-square",
	ActionWrapFraction: "wrap-fraction",
	ActionWrapRoot:     "wrap-root",
}

// String returns the action name.
func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", a)
}

// ParseAction maps a name produced by String back to its action.
func ParseAction(s string) (Action, bool) {
	for a, name := range actionNames {
		if name == s {
			return a, true
		}
	}
	return 0, false
}

// CommitSelection applies action to the selected range as one mutation and
// returns the new cursor. Deleting leaves the cursor where the range began.
// Wrapping re-parents the whole range into a new compound: groups leave the
// cursor after the group, a fraction leaves it in the empty denominator and
// a root at the end of the radicand.
func CommitSelection(t *layout.Tree, sel cursor.Selection, action Action) (cursor.Cursor, error) {
	if !sel.Valid(t) {
		return sel.Cursor(), ErrInvalidCursor
	}
	start, end := sel.Start(), sel.End()
	switch action {
	case ActionDelete:
		if err := t.DeleteRange(sel.Seq, start, end); err != nil {
			return sel.Cursor(), err
		}
		return cursor.New(sel.Seq, start), nil
	case ActionWrapParen, ActionWrapSquare:
		d := layout.DelimParen
		if action == ActionWrapSquare {
			d = layout.DelimSquare
		}
		h, err := t.NewBracket(d)
		if err != nil {
			return sel.Cursor(), err
		}
		if err := wrap(t, sel, h, layout.BracketInner); err != nil {
			return sel.Cursor(), err
		}
		return cursor.RightOf(t, h), nil
	case ActionWrapFraction:
		return wrapSelection(t, sel, FractionBar)
	case ActionWrapRoot:
		return wrapSelection(t, sel, RadicalSign)
	}
	return sel.Cursor(), ErrNotApplicable
}

// InsertOverSelection applies code point r to a selection. Structural runes
// wrap the range; any other rune replaces it.
func InsertOverSelection(t *layout.Tree, sel cursor.Selection, r rune) (cursor.Cursor, error) {
	if !sel.Valid(t) {
		return sel.Cursor(), ErrInvalidCursor
	}
	if sel.IsEmpty() {
		return Insert(t, sel.Cursor(), r)
	}
	switch r {
	case '(':
		return CommitSelection(t, sel, ActionWrapParen)
	case '[':
		return CommitSelection(t, sel, ActionWrapSquare)
	}
	if _, ok := promotionFor(r); ok {
		return wrapSelection(t, sel, r)
	}
	if !ValidLeaf(r) {
		return sel.Cursor(), ErrInvalidCodePoint
	}
	if IsStructural(r) {
		return sel.Cursor(), ErrNotApplicable
	}
	at, err := CommitSelection(t, sel, ActionDelete)
	if err != nil {
		return sel.Cursor(), err
	}
	// The deletion freed at least one node, so the leaf always fits.
	return insertLeaf(t, at, r)
}

func wrapSelection(t *layout.Tree, sel cursor.Selection, r rune) (cursor.Cursor, error) {
	p, _ := promotionFor(r)
	h, err := t.NewCompound(p.kind)
	if err != nil {
		return sel.Cursor(), err
	}
	if err := wrap(t, sel, h, p.operand); err != nil {
		return sel.Cursor(), err
	}
	cell := t.Child(h, p.target)
	if p.atEnd {
		return cursor.New(cell, t.ChildCount(cell)), nil
	}
	return cursor.New(cell, 0), nil
}

func wrap(t *layout.Tree, sel cursor.Selection, h layout.Handle, cell int) error {
	if err := t.Wrap(sel.Seq, sel.Start(), sel.End(), h, cell); err != nil {
		_ = t.Free(h)
		return err
	}
	return nil
}
