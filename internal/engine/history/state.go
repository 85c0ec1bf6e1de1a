package history

import (
	"github.com/dshills/mathfield/internal/engine/cursor"
	"github.com/dshills/mathfield/internal/engine/layout"
)

// State is a snapshot of a field's editable content.
type State struct {
	Tree      *layout.Tree
	Cursor    cursor.Cursor
	Selection cursor.Selection
	Selecting bool
}

// Capture returns a State holding a private copy of t.
func Capture(t *layout.Tree, c cursor.Cursor, sel cursor.Selection, selecting bool) State {
	return State{Tree: t.Clone(), Cursor: c, Selection: sel, Selecting: selecting}
}
