package reactive

import "errors"

var (
	// ErrOutsideAction indicates a write to a value outside of an action
	// while enforcement forbids it.
	ErrOutsideAction = errors.New("reactive: value modified outside an action")

	// ErrNoConvergence indicates reactions kept invalidating each other past
	// the flush iteration limit.
	ErrNoConvergence = errors.New("reactive: reactions did not converge")

	// ErrUnknownEnforceMode indicates an unparseable enforcement mode name.
	ErrUnknownEnforceMode = errors.New("reactive: unknown enforce mode")
)
