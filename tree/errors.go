package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the parent of every rejected-input error.
	ErrValidation    = errors.New("tree: validation failed")
	ErrEmptyName     = fmt.Errorf("%w: name is empty", ErrValidation)
	ErrInvalidRegion = fmt.Errorf("%w: region has no area", ErrValidation)

	// ErrInvalidTarget means the node is missing, detached, or of the wrong kind.
	ErrInvalidTarget = errors.New("tree: invalid target")

	ErrNotEditing = errors.New("tree: no name edit in progress")
)

func invalidTarget(op string, n *Node) error {
	if n == nil {
		return fmt.Errorf("%w: %s: nil node", ErrInvalidTarget, op)
	}
	return fmt.Errorf("%w: %s: %s %q", ErrInvalidTarget, op, n.kind, n.name)
}
