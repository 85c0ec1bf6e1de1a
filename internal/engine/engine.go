package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/mathfield/internal/clipboard"
	"github.com/dshills/mathfield/internal/engine/cursor"
	"github.com/dshills/mathfield/internal/engine/edit"
	"github.com/dshills/mathfield/internal/engine/history"
	"github.com/dshills/mathfield/internal/engine/layout"
	"github.com/dshills/mathfield/internal/engine/linear"
	"github.com/dshills/mathfield/internal/logging"
	"github.com/dshills/mathfield/internal/renderer/geometry"
	"github.com/dshills/mathfield/internal/renderer/viewport"
)

// Re-export commonly used types for convenience.
type (
	// Cursor is an insertion point in the layout tree.
	Cursor = cursor.Cursor

	// Selection is a range of siblings in one sequence.
	Selection = cursor.Selection

	// Direction is a cursor movement direction.
	Direction = cursor.Direction

	// State is a snapshot of the editable content.
	State = history.State
)

// Re-export constants.
const (
	Left  = cursor.Left
	Right = cursor.Right
	Up    = cursor.Up
	Down  = cursor.Down
)

// Engine is the math field facade. It combines the layout tree, cursor and
// selection, undo history and linear-mode buffer behind the operations a
// host drives from its input events.
type Engine struct {
	id uuid.UUID

	tree      *layout.Tree
	cur       cursor.Cursor
	sel       cursor.Selection
	selecting bool
	editing   bool

	linearMode bool
	buf        *linear.Buffer

	history *history.History
	metrics *geometry.Metrics
	view    *viewport.Viewport

	clip      clipboard.Clipboard
	logger    *logging.Logger
	listeners []ChangeListener

	// Configuration
	maxNodes       int
	maxBufferSize  int
	maxUndoEntries int
	variable       rune
	windowW        int
	windowH        int
	margins        *viewport.MarginConfig

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:             uuid.New(),
		editing:        true,
		maxNodes:       DefaultMaxNodes,
		maxBufferSize:  DefaultMaxBufferSize,
		maxUndoEntries: DefaultMaxUndoEntries,
		variable:       DefaultVariable,
		windowW:        DefaultWindowWidth,
		windowH:        DefaultWindowHeight,
		logger:         logging.NullLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clip == nil {
		e.clip = &clipboard.Memory{}
	}
	e.logger = e.logger.WithComponent("engine").WithField("field", e.id.String()[:8])

	e.tree = layout.New(layout.WithMaxNodes(e.maxNodes))
	e.cur = cursor.Start(e.tree)
	e.buf = linear.NewBuffer(linear.WithMaxSize(e.maxBufferSize))
	e.history = history.New(e.maxUndoEntries)
	var vopts []viewport.Option
	if e.margins != nil {
		vopts = append(vopts, viewport.WithMargins(*e.margins))
	}
	e.view = viewport.New(e.windowW, e.windowH, vopts...)

	if e.initContent != "" {
		if err := e.SetText(e.initContent); err != nil {
			e.logger.Warn("initial content rejected: %v", err)
		}
		e.history.Clear()
	}
	return e
}

// ============================================================================
// Accessors
// ============================================================================

// ID returns the field's unique identifier.
func (e *Engine) ID() string {
	return e.id.String()
}

// Tree returns the layout tree. Callers must not mutate it.
func (e *Engine) Tree() *layout.Tree {
	return e.tree
}

// Cursor returns the cursor position.
func (e *Engine) Cursor() Cursor {
	return e.cur
}

// Selection returns the selection and whether one is active.
func (e *Engine) Selection() (Selection, bool) {
	return e.sel, e.selecting
}

// State returns a snapshot of the content, cursor and selection.
func (e *Engine) State() State {
	return history.Capture(e.tree, e.cur, e.sel, e.selecting)
}

// IsEmpty reports whether the field has no content.
func (e *Engine) IsEmpty() bool {
	if e.linearMode {
		return e.buf.IsEmpty()
	}
	return e.tree.IsEmpty(e.tree.Root())
}

// HasContent reports whether the field has content.
func (e *Engine) HasContent() bool {
	return !e.IsEmpty()
}

// SetEditing sets whether the field is being edited. A field that is not
// being edited still accepts calls but hides its caret.
func (e *Engine) SetEditing(editing bool) {
	if e.editing != editing {
		e.editing = editing
		e.notify(ChangeMode)
	}
}

// IsEditing reports whether the field is being edited.
func (e *Engine) IsEditing() bool {
	return e.editing
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoDescription names the edit Undo would revert.
func (e *Engine) UndoDescription() (string, bool) {
	return e.history.PeekUndo()
}

// SetMaxUndoEntries bounds the undo stack, dropping the oldest entries when
// it shrinks. Non-positive selects the default.
func (e *Engine) SetMaxUndoEntries(n int) {
	e.maxUndoEntries = n
	e.history.SetMaxEntries(n)
}

// ============================================================================
// Geometry
// ============================================================================

// Metrics returns the rendered geometry of the tree.
func (e *Engine) Metrics() *geometry.Metrics {
	if e.metrics == nil {
		e.metrics = geometry.Compute(e.tree)
	}
	return e.metrics
}

// CursorRect returns the caret rectangle and the absolute row of the
// baseline it sits on.
func (e *Engine) CursorRect() (geometry.Rect, int) {
	if e.linearMode {
		return geometry.Rect{X: e.buf.CursorColumn(), W: 1, H: 1}, 0
	}
	return e.Metrics().CaretRect(e.cur.Seq, e.cur.Index)
}

// MinimalSizeForOptimalDisplay returns the size needed to show the whole
// content with the caret after it.
func (e *Engine) MinimalSizeForOptimalDisplay() geometry.Size {
	if e.linearMode {
		return geometry.Size{W: e.buf.Width() + 1, H: 1}
	}
	s := e.Metrics().Size()
	return geometry.Size{W: s.W + 1, H: max(s.H, 1)}
}

// Viewport returns the viewport that follows the caret.
func (e *Engine) Viewport() *viewport.Viewport {
	return e.view
}

// ScrollOffset returns the content coordinates of the visible window's
// top-left cell.
func (e *Engine) ScrollOffset() (x, y int) {
	return e.view.Offset()
}

// SetWindowSize resizes the visible window and scrolls the caret back into
// view if needed.
func (e *Engine) SetWindowSize(width, height int) {
	e.view.Resize(width, height)
	if e.reconcileScroll() {
		e.emit(ChangeScroll)
	}
}

// reconcileScroll fits the viewport to the content and caret and reports
// whether the offset moved.
func (e *Engine) reconcileScroll() bool {
	before := e.view.Visible()
	s := e.MinimalSizeForOptimalDisplay()
	e.view.SetContentSize(s.W, s.H)
	r, baseline := e.CursorRect()
	e.view.ScrollToRect(r, baseline)
	after := e.view.Visible()
	return before.X != after.X || before.Y != after.Y
}

// ============================================================================
// Editing
// ============================================================================

// apply runs a tree mutation as one undoable step. fn returns the new
// cursor; on error, or when the result's text would overflow the linear
// buffer, the tree is restored and nothing else changes.
func (e *Engine) apply(description string, fn func() (Cursor, error)) error {
	if e.linearMode {
		return ErrLinearMode
	}
	before := e.State()
	c, err := fn()
	if err == nil {
		err = e.checkTextSize(e.tree)
	}
	if err != nil {
		e.tree.Restore(before.Tree)
		e.logger.Debug("%s rejected: %v", description, err)
		return err
	}
	e.history.Record(before, description)
	e.cur = c
	e.selecting = false
	e.sel = cursor.Selection{}
	e.metrics = nil
	e.notify(ChangeContent)
	return nil
}

// Insert applies a code point at the cursor and reports whether it was
// applied. With a selection active, structural code points wrap the
// selection and others replace it.
func (e *Engine) Insert(r rune) bool {
	return e.InsertRune(r) == nil
}

// InsertRune is Insert reporting why an edit was rejected.
func (e *Engine) InsertRune(r rune) error {
	if e.linearMode {
		return e.linearInsert(string(r))
	}
	return e.apply(fmt.Sprintf("Type '%c'", r), func() (Cursor, error) {
		if e.selecting && !e.sel.IsEmpty() {
			return edit.InsertOverSelection(e.tree, e.sel, r)
		}
		return edit.Insert(e.tree, e.cur, r)
	})
}

// InsertText inserts each rune of s as one undoable step. The text is
// normalized to NFC first.
func (e *Engine) InsertText(s string) bool {
	s = normalize(s)
	if e.linearMode {
		return e.linearInsert(s) == nil
	}
	return e.apply("Insert text", func() (Cursor, error) {
		c := e.cur
		if e.selecting && !e.sel.IsEmpty() {
			var err error
			if c, err = edit.CommitSelection(e.tree, e.sel, edit.ActionDelete); err != nil {
				return c, err
			}
		}
		return edit.InsertText(e.tree, c, s)
	}) == nil
}

// InsertXNT inserts the configured default variable.
func (e *Engine) InsertXNT() bool {
	return e.Insert(e.variable)
}

// InsertMatrix inserts an empty rows x cols matrix at the cursor.
func (e *Engine) InsertMatrix(rows, cols int) bool {
	return e.apply("Insert matrix", func() (Cursor, error) {
		c := e.cur
		if e.selecting && !e.sel.IsEmpty() {
			var err error
			if c, err = edit.CommitSelection(e.tree, e.sel, edit.ActionDelete); err != nil {
				return c, err
			}
		}
		return edit.InsertMatrix(e.tree, c, rows, cols)
	}) == nil
}

// Delete deletes in direction dir (Left is backspace, Right is forward
// delete) and reports whether anything changed. A non-empty selection is
// deleted whole.
func (e *Engine) Delete(dir Direction) bool {
	if e.linearMode {
		var changed bool
		if dir == cursor.Left {
			changed = e.buf.DeleteBackward()
		} else if dir == cursor.Right {
			changed = e.buf.DeleteForward()
		}
		if changed {
			e.notify(ChangeContent)
		}
		return changed
	}
	if e.selecting && !e.sel.IsEmpty() {
		return e.CommitSelectionAction(ActionDelete) == nil
	}
	e.clearSelection()
	before := e.State()
	c, changed := edit.Delete(e.tree, e.cur, dir)
	if !changed {
		return false
	}
	e.cur = c
	if e.tree.Count() == before.Tree.Count() {
		// Only the cursor moved into a compound.
		e.notify(ChangeCursor)
		return true
	}
	e.history.Record(before, "Delete")
	e.metrics = nil
	e.notify(ChangeContent)
	return true
}

// Clear empties the field.
func (e *Engine) Clear() {
	if e.linearMode {
		e.buf.Clear()
		e.notify(ChangeContent)
		return
	}
	if e.IsEmpty() {
		return
	}
	_ = e.apply("Clear", func() (Cursor, error) {
		e.tree.Clear()
		return cursor.Start(e.tree), nil
	})
}

// ============================================================================
// Navigation
// ============================================================================

// MoveCursor moves the cursor one step and reports whether it moved. An
// active selection is dropped first, leaving the cursor at its active edge.
func (e *Engine) MoveCursor(dir Direction) bool {
	if e.linearMode {
		var moved bool
		switch dir {
		case cursor.Left:
			moved = e.buf.MoveLeft()
		case cursor.Right:
			moved = e.buf.MoveRight()
		}
		if moved {
			e.notify(ChangeCursor)
		}
		return moved
	}
	dropped := e.clearSelection()
	c, moved := cursor.Move(e.tree, e.Metrics(), e.cur, dir)
	e.cur = c
	if moved || dropped {
		e.notify(ChangeCursor)
	}
	return moved
}

// PutCursorOnOneSide moves the cursor to the very start (Left) or end
// (Right) of the field.
func (e *Engine) PutCursorOnOneSide(dir Direction) {
	e.clearSelection()
	if e.linearMode {
		if dir == cursor.Left {
			e.buf.MoveHome()
		} else {
			e.buf.MoveEnd()
		}
		e.notify(ChangeCursor)
		return
	}
	if dir == cursor.Left {
		e.cur = cursor.Start(e.tree)
	} else {
		e.cur = cursor.End(e.tree)
	}
	e.notify(ChangeCursor)
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo restores the state before the last edit.
func (e *Engine) Undo() error {
	if e.linearMode {
		return ErrLinearMode
	}
	prev, err := e.history.Undo(e.State())
	if err != nil {
		return err
	}
	e.restoreState(prev)
	return nil
}

// Redo re-applies the last undone edit.
func (e *Engine) Redo() error {
	if e.linearMode {
		return ErrLinearMode
	}
	next, err := e.history.Redo(e.State())
	if err != nil {
		return err
	}
	e.restoreState(next)
	return nil
}

// Transaction runs fn as a single undoable step. If fn fails, everything it
// changed is rolled back and its error returned.
func (e *Engine) Transaction(name string, fn func() error) error {
	if e.linearMode {
		return ErrLinearMode
	}
	before := e.State()
	if err := e.history.Transaction(name, fn); err != nil {
		e.restoreState(before)
		return err
	}
	return nil
}

func (e *Engine) restoreState(s State) {
	e.tree.Restore(s.Tree)
	e.cur = s.Cursor.Normalize(e.tree)
	e.sel = s.Selection
	e.selecting = s.Selecting && s.Selection.Valid(e.tree)
	e.metrics = nil
	e.notify(ChangeContent)
}

// ============================================================================
// Errors
// ============================================================================

// IsCapacityError reports whether err means a size ceiling was reached.
func IsCapacityError(err error) bool {
	return errors.Is(err, ErrCapacityExceeded)
}
