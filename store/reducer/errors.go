package reducer

import (
	"errors"
)

var (
	// ErrNotAReducerSource is returned when a source does not declare a mount path.
	ErrNotAReducerSource = errors.New("not a reducer source, MountPath is missing")

	// ErrNilSource is returned when a nil source is supplied.
	ErrNilSource = errors.New("reducer source must not be nil")

	// ErrInvalidHandler is returned for handlers with a nil function or an unreadable action kind.
	ErrInvalidHandler = errors.New("invalid reducer handler")

	// ErrSliceTypeMismatch is returned when the state slice at a mount path does not have the handler's slice type.
	ErrSliceTypeMismatch = errors.New("state slice does not match the handler's slice type")

	// ErrActionTypeMismatch is returned when an action's Go type does not match the handler registered for its kind.
	ErrActionTypeMismatch = errors.New("action does not match the handler's action type")
)
