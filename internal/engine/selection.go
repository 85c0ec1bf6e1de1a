package engine

import (
	"fmt"

	"github.com/dshills/mathfield/internal/engine/cursor"
	"github.com/dshills/mathfield/internal/engine/edit"
	"github.com/dshills/mathfield/internal/engine/layout"
	"github.com/dshills/mathfield/internal/engine/linear"
)

// SelectionAction is what CommitSelectionAction does with the selection.
type SelectionAction uint8

// Selection actions.
const (
	ActionDelete SelectionAction = iota
	ActionWrapParen
	ActionWrapSquare
	ActionWrapFraction
	ActionWrapRoot
	ActionCopy
	ActionCut
)

var selectionActionNames = []string{"delete", "wrap-paren", "wrap-square", "wrap-fraction", "wrap-root", "copy", "cut"}

// String returns the action name.
func (a SelectionAction) String() string {
	if int(a) < len(selectionActionNames) {
		return selectionActionNames[a]
	}
	return fmt.Sprintf("SelectionAction(%d)", a)
}

// ParseSelectionAction maps a name produced by String back to its action.
func ParseSelectionAction(s string) (SelectionAction, bool) {
	for i, name := range selectionActionNames {
		if name == s {
			return SelectionAction(i), true
		}
	}
	return 0, false
}

// editAction maps tree-changing actions onto the edit engine.
func (a SelectionAction) editAction() (edit.Action, bool) {
	switch a {
	case ActionDelete:
		return edit.ActionDelete, true
	case ActionWrapParen:
		return edit.ActionWrapParen, true
	case ActionWrapSquare:
		return edit.ActionWrapSquare, true
	case ActionWrapFraction:
		return edit.ActionWrapFraction, true
	case ActionWrapRoot:
		return edit.ActionWrapRoot, true
	}
	return 0, false
}

// BeginSelection anchors an empty selection at the cursor.
func (e *Engine) BeginSelection() {
	if e.linearMode {
		return
	}
	e.sel = cursor.NewSelection(e.cur)
	e.selecting = true
}

// ExtendSelection moves the active edge of the selection one step,
// beginning a selection first if none is active.
func (e *Engine) ExtendSelection(dir Direction) bool {
	if e.linearMode {
		return false
	}
	if !e.selecting {
		e.BeginSelection()
	}
	sel, ok := cursor.Extend(e.tree, e.sel, dir)
	if !ok {
		return false
	}
	e.sel = sel
	e.cur = sel.Cursor()
	e.notify(ChangeCursor)
	return true
}

// HasSelection reports whether a non-empty selection is active.
func (e *Engine) HasSelection() bool {
	return e.selecting && !e.sel.IsEmpty()
}

// ClearSelection drops the selection, leaving the cursor at its active edge.
func (e *Engine) ClearSelection() {
	if e.clearSelection() {
		e.notify(ChangeCursor)
	}
}

func (e *Engine) clearSelection() bool {
	if !e.selecting {
		return false
	}
	e.cur = e.sel.Cursor()
	e.selecting = false
	e.sel = cursor.Selection{}
	return true
}

// CommitSelectionAction applies action to the selection as one mutation.
func (e *Engine) CommitSelectionAction(action SelectionAction) error {
	if e.linearMode {
		return ErrLinearMode
	}
	if !e.selecting {
		return ErrEmptySelection
	}
	switch action {
	case ActionCopy:
		return e.copySelection()
	case ActionCut:
		if err := e.copySelection(); err != nil {
			return err
		}
		action = ActionDelete
	}
	ea, ok := action.editAction()
	if !ok {
		return fmt.Errorf("unknown selection action %v", action)
	}
	if ea == edit.ActionDelete && e.sel.IsEmpty() {
		return ErrEmptySelection
	}
	sel := e.sel
	return e.apply(action.String(), func() (Cursor, error) {
		return edit.CommitSelection(e.tree, sel, ea)
	})
}

// SelectedText returns the linear text of the selection.
func (e *Engine) SelectedText() (string, error) {
	if !e.selecting || e.sel.IsEmpty() {
		return "", ErrEmptySelection
	}
	scratch := layout.New(layout.WithMaxNodes(e.tree.Count()))
	for i := e.sel.Start(); i < e.sel.End(); i++ {
		h, err := scratch.Import(e.tree, e.tree.Child(e.sel.Seq, i))
		if err != nil {
			return "", err
		}
		if err := scratch.InsertChild(scratch.Root(), scratch.ChildCount(scratch.Root()), h); err != nil {
			return "", err
		}
	}
	return linear.Serialize(scratch), nil
}

func (e *Engine) copySelection() error {
	text, err := e.SelectedText()
	if err != nil {
		return err
	}
	if err := e.clip.WriteText(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Paste inserts the clipboard text at the cursor, replacing any selection.
// The text is parsed as linear text and inserted as one unit.
func (e *Engine) Paste() error {
	text, err := e.clip.ReadText()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	text = normalize(text)
	if e.linearMode {
		return e.linearInsert(text)
	}
	if len(text) > e.maxBufferSize {
		return fmt.Errorf("paste %d bytes: %w", len(text), linear.ErrBufferFull)
	}
	src, err := linear.Parse(text, layout.WithMaxNodes(e.maxNodes))
	if err != nil {
		e.logger.Warn("paste rejected: %v", err)
		return err
	}
	return e.apply("Paste", func() (Cursor, error) {
		c := e.cur
		if e.selecting && !e.sel.IsEmpty() {
			if c, err = edit.CommitSelection(e.tree, e.sel, edit.ActionDelete); err != nil {
				return c, err
			}
		}
		return edit.InsertTree(e.tree, c, src)
	})
}
