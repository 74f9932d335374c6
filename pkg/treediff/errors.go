package treediff

import "errors"

// Sentinel errors returned by the matcher and edit script builder.
var (
	// ErrNilRoot is returned when Build is called with a nil root node.
	ErrNilRoot = errors.New("treediff: root node is nil")

	// ErrInvalidOptions is returned when an Options value fails validation.
	ErrInvalidOptions = errors.New("treediff: invalid options")

	// ErrUnmappedNode is returned when the edit script builder encounters a
	// destination node with no mapping and no parent mapping, which would
	// violate the builder's top-down insertion invariant.
	ErrUnmappedNode = errors.New("treediff: encountered unmapped node with unmapped parent")

	// ErrInvariantViolation is returned when a debug-gated consistency check
	// over a freshly built tree's postorder, parent, depth, height, or
	// leftmost-descendant structure fails. It signals a builder bug, not bad
	// input; see InvariantChecks.
	ErrInvariantViolation = errors.New("treediff: tree invariant violated")
)
