package engine

import (
	"errors"

	"github.com/dshills/mathfield/internal/engine/history"
	"github.com/dshills/mathfield/internal/engine/layout"
	"github.com/dshills/mathfield/internal/engine/linear"
)

// Errors returned by engine operations.
var (
	// ErrCapacityExceeded indicates the node or buffer ceiling was hit.
	ErrCapacityExceeded = layout.ErrCapacityExceeded

	// ErrAmbiguousParse indicates linear text with no single tree reading.
	ErrAmbiguousParse = linear.ErrAmbiguousParse

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrLinearMode indicates an operation that needs the 2-D layout while
	// the field is in linear mode.
	ErrLinearMode = errors.New("not available in linear mode")

	// ErrEmptySelection indicates a selection action with nothing selected.
	ErrEmptySelection = errors.New("selection is empty")
)
