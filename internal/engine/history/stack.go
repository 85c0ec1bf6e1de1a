package history

import "errors"

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when a non-positive size is given.
const DefaultMaxEntries = 100

type entry struct {
	state       State
	description string
}

// History manages undo/redo state for one field. It is not safe for
// concurrent use; a field is driven by a single event loop.
type History struct {
	undoStack []entry
	redoStack []entry

	// levels holds, per open group, whether the group had recorded
	// before that level began.
	levels        []bool
	groupName     string
	groupRecorded bool

	maxEntries int
}

// New creates a history keeping at most maxEntries undo states.
func New(maxEntries int) *History {
	h := &History{}
	h.SetMaxEntries(maxEntries)
	return h
}

// Record pushes the state from before an edit. Outside a group the redo
// stack is cleared; inside one only the first record is kept and redo is
// cleared when the group ends. History takes ownership of before.Tree.
func (h *History) Record(before State, description string) {
	if len(h.levels) > 0 {
		if h.groupRecorded {
			return
		}
		h.groupRecorded = true
		description = h.groupName
	} else {
		h.redoStack = nil
	}
	h.undoStack = append(h.undoStack, entry{state: before, description: description})
	h.trim()
}

func (h *History) trim() {
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo pops the last recorded state and returns it. current is kept for
// redo; history takes ownership of current.Tree.
func (h *History) Undo(current State) (State, error) {
	if len(h.undoStack) == 0 {
		return State{}, ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, entry{state: current, description: e.description})
	return e.state, nil
}

// Redo pops the last undone state and returns it. current goes back onto the
// undo stack.
func (h *History) Redo(current State) (State, error) {
	if len(h.redoStack) == 0 {
		return State{}, ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, entry{state: current, description: e.description})
	h.trim()
	return e.state, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo states available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo states available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// PeekUndo returns the description of the edit Undo would revert.
func (h *History) PeekUndo() (string, bool) {
	if len(h.undoStack) == 0 {
		return "", false
	}
	return h.undoStack[len(h.undoStack)-1].description, true
}

// SetMaxEntries changes how many undo states are kept, dropping the oldest
// if there are more. Non-positive values select DefaultMaxEntries.
func (h *History) SetMaxEntries(n int) {
	if n <= 0 {
		n = DefaultMaxEntries
	}
	h.maxEntries = n
	h.trim()
}

// Clear removes all undo/redo history and open groups.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.levels = nil
	h.groupRecorded = false
}
