package linear

import (
	"errors"
	"fmt"

	"github.com/dshills/mathfield/internal/engine/layout"
)

// Errors returned by the text bridge.
var (
	// ErrAmbiguousParse indicates text with no single tree reading.
	ErrAmbiguousParse = errors.New("ambiguous or malformed linear text")

	// ErrBufferFull indicates text longer than a buffer's capacity.
	ErrBufferFull = fmt.Errorf("linear buffer full: %w", layout.ErrCapacityExceeded)

	// ErrInvalidOffset indicates a byte offset that is not a cursor position.
	ErrInvalidOffset = errors.New("offset is not a cursor position")

	// ErrOffsetOutOfRange indicates an offset outside the buffer.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates a malformed byte range.
	ErrRangeInvalid = errors.New("invalid range")
)

// ParseError reports where and why parsing failed. It wraps
// ErrAmbiguousParse, or layout.ErrCapacityExceeded when the text describes
// more nodes than the tree may hold.
type ParseError struct {
	Offset int
	Msg    string
	Err    error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
