package store

import (
	"fmt"
)

// Node is a structured value in the state tree whose named fields can be read and replaced.
//
// WithField must return a shallow copy of the receiver with exactly one field replaced.
// It must never modify the receiver. A value receiver gets this for free:
//
//	type TodoList struct {
//		Items []Todo
//		Next  int
//	}
//
//	func (l TodoList) Field(name string) (any, bool) {
//		switch name {
//		case "Items":
//			return l.Items, true
//		case "Next":
//			return l.Next, true
//		}
//		return nil, false
//	}
//
//	func (l TodoList) WithField(name string, value any) (store.Node, error) {
//		var err error
//		switch name {
//		case "Items":
//			err = store.SetField(&l.Items, name, value)
//		case "Next":
//			err = store.SetField(&l.Next, name, value)
//		default:
//			err = store.UnknownField(l, name)
//		}
//		return l, err
//	}
//
// Pointer receivers work the same way but must copy explicitly (c := *l; ...; return &c, nil).
// A nil node on a path cannot be traversed: updates below it fail with ErrPathNotTraversable.
type Node interface {
	Field(name string) (any, bool)
	WithField(name string, value any) (Node, error)
}

// SetField assigns value to *dst if value is a T. A nil value assigns the zero value of T,
// which allows clearing pointer, slice, map and interface fields.
func SetField[T any](dst *T, name string, value any) error {
	if value == nil {
		var zero T
		*dst = zero

		return nil
	}

	typed, ok := value.(T)
	if !ok {
		return fmt.Errorf("%w: field %q expects %T, got %T", ErrFieldTypeMismatch, name, *dst, value)
	}

	*dst = typed

	return nil
}

// UnknownField builds the error a Node returns for a field name it does not have.
func UnknownField(node any, name string) error {
	return fmt.Errorf("%w: %T has no field %q", ErrUnknownField, node, name)
}
