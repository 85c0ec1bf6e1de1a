package engine

// ChangeKind says what a change notification is about.
type ChangeKind uint8

// Change kinds.
const (
	// ChangeContent means the content changed; the cursor may have moved too.
	ChangeContent ChangeKind = iota
	// ChangeCursor means only the cursor or selection changed.
	ChangeCursor
	// ChangeMode means linear mode or the editing flag changed.
	ChangeMode
	// ChangeScroll means the viewport offset moved to follow the caret.
	ChangeScroll
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeContent:
		return "content"
	case ChangeCursor:
		return "cursor"
	case ChangeMode:
		return "mode"
	case ChangeScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// ChangeListener is called after the field changes.
type ChangeListener func(kind ChangeKind)

// OnChange registers a listener and returns a function that removes it.
func (e *Engine) OnChange(fn ChangeListener) (remove func()) {
	e.listeners = append(e.listeners, fn)
	idx := len(e.listeners) - 1
	return func() {
		if idx < len(e.listeners) {
			e.listeners[idx] = nil
		}
	}
}

func (e *Engine) notify(kind ChangeKind) {
	e.emit(kind)
	if e.reconcileScroll() {
		e.emit(ChangeScroll)
	}
}

func (e *Engine) emit(kind ChangeKind) {
	for _, fn := range e.listeners {
		if fn != nil {
			fn(kind)
		}
	}
}
