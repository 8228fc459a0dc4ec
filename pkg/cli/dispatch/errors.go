package dispatch

import "errors"

var (
	// ErrActionPanicked wraps a panic recovered while an action ran.
	ErrActionPanicked = errors.New("action panicked")
	// ErrActionNotImplemented is returned when the action set has no entry for the selected action.
	ErrActionNotImplemented = errors.New("action not implemented")
)
