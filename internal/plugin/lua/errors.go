package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script outlives its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoFunction is returned by Call when the global is not a function.
	ErrNoFunction = errors.New("lua function not defined")
)
