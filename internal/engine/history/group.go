package history

// BeginGroup starts a group. Groups nest: records made until the outermost
// group ends undo as one unit named after it.
func (h *History) BeginGroup(name string) {
	if len(h.levels) == 0 {
		h.groupName = name
		h.groupRecorded = false
	}
	h.levels = append(h.levels, h.groupRecorded)
}

// EndGroup finishes the innermost group. The redo stack is cleared once the
// outermost group ends having recorded something.
func (h *History) EndGroup() {
	if len(h.levels) == 0 {
		return
	}
	h.levels = h.levels[:len(h.levels)-1]
	if len(h.levels) == 0 {
		if h.groupRecorded {
			h.redoStack = nil
		}
		h.groupRecorded = false
	}
}

// CancelGroup ends the innermost group and drops the record it made, if the
// group's single record was made inside it. The caller puts the field back
// to its state at BeginGroup; enclosing groups carry on.
func (h *History) CancelGroup() {
	if len(h.levels) == 0 {
		return
	}
	recordedBefore := h.levels[len(h.levels)-1]
	h.levels = h.levels[:len(h.levels)-1]
	if h.groupRecorded && !recordedBefore && len(h.undoStack) > 0 {
		h.undoStack = h.undoStack[:len(h.undoStack)-1]
		h.groupRecorded = false
	}
	if len(h.levels) == 0 {
		h.groupRecorded = false
	}
}

// Transaction runs fn as one undo unit. If fn fails the group is cancelled
// and the error returned; restoring the field is up to fn's caller.
func (h *History) Transaction(name string, fn func() error) error {
	h.BeginGroup(name)
	if err := fn(); err != nil {
		h.CancelGroup()
		return err
	}
	h.EndGroup()
	return nil
}
