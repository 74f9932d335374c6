package treediff

import "fmt"

// Options tunes the matcher's thresholds. Zero-value Options is not valid;
// use DefaultOptions and override individual fields.
type Options struct {
	// MinHeight is the minimum subtree height considered by the top-down
	// matcher; subtrees shorter than this are left for the bottom-up phase.
	MinHeight int

	// MinDice is the minimum Dice coefficient the bottom-up matcher
	// requires before it accepts a container-node candidate pair.
	MinDice float64

	// MaxSize bounds the subtree size (proper descendant count) the
	// bottom-up matcher will hand to the optimal Zhang-Shasha matcher;
	// larger candidate pairs keep only their container-level link.
	MaxSize int
}

// DefaultOptions returns the matcher's default thresholds, the same values
// used by GumTree: a minimum height of 1 for the top-down phase (any
// non-leaf participates), a minimum Dice coefficient of 0.2, and an optimal
// matcher size cap of 100 nodes.
func DefaultOptions() Options {
	return Options{
		MinHeight: 1,
		MinDice:   0.2,
		MaxSize:   100,
	}
}

// Validate checks Options for internally consistent values.
func (o Options) Validate() error {
	if o.MinHeight < 0 {
		return fmt.Errorf("%w: MinHeight must be >= 0, got %d", ErrInvalidOptions, o.MinHeight)
	}

	if o.MinDice < 0 || o.MinDice > 1 {
		return fmt.Errorf("%w: MinDice must be in [0,1], got %f", ErrInvalidOptions, o.MinDice)
	}

	if o.MaxSize < 0 {
		return fmt.Errorf("%w: MaxSize must be >= 0, got %d", ErrInvalidOptions, o.MaxSize)
	}

	return nil
}
