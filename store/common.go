package store

import (
	"errors"
)

var (
	// ErrNilAction is returned when a nil Action is dispatched or reduced.
	ErrNilAction = errors.New("action must not be nil")

	// ErrNilReducer is returned when a store is built without a reducer.
	ErrNilReducer = errors.New("reducer must not be nil")

	// ErrNilMiddleware is returned when a nil middleware is supplied to a store.
	ErrNilMiddleware = errors.New("middleware must not be nil")

	// ErrNilContext is returned when a nil parent context is configured.
	ErrNilContext = errors.New("context must not be nil")

	// ErrStoreClosed is returned when an action is dispatched to a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrEmptyStoreName is returned when an empty store name is configured.
	ErrEmptyStoreName = errors.New("store name must not be empty")

	// ErrEmptyPathSegment is returned when a dotted path contains an empty field name.
	ErrEmptyPathSegment = errors.New("path contains an empty segment")

	// ErrPathNotFound is returned when a path names a field the node does not have.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrPathNotTraversable is returned when a path continues below a value that is not a Node.
	ErrPathNotTraversable = errors.New("path continues below a value that is not a node")

	// ErrNodeTypeMismatch is returned when an updated root no longer has the root's type.
	ErrNodeTypeMismatch = errors.New("updated node has an unexpected type")

	// ErrFieldTypeMismatch is returned by SetField when a value does not fit the field.
	ErrFieldTypeMismatch = errors.New("value does not match the field type")

	// ErrUnknownField is returned by Node implementations for field names they do not have.
	ErrUnknownField = errors.New("unknown field")

	// ErrPathsValuesMismatch is returned by AssignMany when paths and values differ in length.
	ErrPathsValuesMismatch = errors.New("number of paths and values differ")
)
