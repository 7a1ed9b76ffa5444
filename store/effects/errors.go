package effects

import (
	"errors"
)

var (
	// ErrNilSource is returned when a nil effect source is supplied.
	ErrNilSource = errors.New("effect source must not be nil")

	// ErrInvalidHandler is returned for handlers with a nil function or an unusable action kind.
	ErrInvalidHandler = errors.New("invalid effect handler")

	// ErrActionTypeMismatch is yielded when an action's Go type does not match the handler registered for its kind.
	ErrActionTypeMismatch = errors.New("action does not match the handler's action type")
)
