package edit

import (
	"errors"

	"github.com/dshills/mathfield/internal/engine/layout"
)

// Edit errors.
var (
	// ErrCapacityExceeded indicates the edit would exceed the node ceiling.
	ErrCapacityExceeded = layout.ErrCapacityExceeded

	// ErrNotApplicable indicates the edit has no meaning at the cursor,
	// such as a closing parenthesis outside any group.
	ErrNotApplicable = errors.New("edit not applicable here")

	// ErrInvalidCodePoint indicates a rune that cannot be stored as a leaf.
	ErrInvalidCodePoint = errors.New("invalid code point")

	// ErrInvalidCursor indicates a cursor or selection not addressing the tree.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrInvalidDimensions indicates a matrix with a non-positive size.
	ErrInvalidDimensions = errors.New("invalid matrix dimensions")
)
