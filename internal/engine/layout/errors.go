package layout

import "errors"

// Errors returned by tree operations.
var (
	// ErrCapacityExceeded indicates an allocation would exceed the node ceiling.
	ErrCapacityExceeded = errors.New("layout node capacity exceeded")

	// ErrInvalidHandle indicates a handle that does not address a live node.
	ErrInvalidHandle = errors.New("invalid layout handle")

	// ErrNotSequence indicates an operation that requires a sequence node.
	ErrNotSequence = errors.New("layout node is not a sequence")

	// ErrIndexOutOfRange indicates a child index outside the valid range.
	ErrIndexOutOfRange = errors.New("child index out of range")

	// ErrAttached indicates a node that already has a parent.
	ErrAttached = errors.New("layout node already attached")

	// ErrNestedSequence indicates an attempt to place a sequence inside a sequence.
	ErrNestedSequence = errors.New("sequence cannot contain a sequence")

	// ErrCycle indicates a mutation that would make a node its own descendant.
	ErrCycle = errors.New("layout node would become its own descendant")

	// ErrNotCompound indicates an operation that requires a compound node.
	ErrNotCompound = errors.New("layout node is not a compound node")
)
