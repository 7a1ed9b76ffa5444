package store

// AnyActionType is the reserved wildcard action kind.
// Handlers registered for it run for every dispatched action, before the handlers of the concrete kind.
const AnyActionType = "*"

// Action represents something that happened. Its ActionType is the sole key used for routing.
//
// ActionType should be implemented on a value receiver and must not depend on field values,
// so that the kind can be read from a zero value (see TypeOf).
type Action interface {
	ActionType() string
}

// AnyAction is the wildcard action. Registering a handler for it subscribes the handler to every dispatch.
type AnyAction struct{}

// ActionType returns AnyActionType.
func (AnyAction) ActionType() string {
	return AnyActionType
}

// TypeOf returns the action kind of the action type A, read from its zero value.
// It returns an empty string if the kind cannot be read, e.g. for interface types or
// pointer types whose ActionType dereferences the receiver.
func TypeOf[A Action]() (actionType string) {
	var zero A

	if any(zero) == nil {
		return ""
	}

	defer func() {
		if recover() != nil {
			actionType = ""
		}
	}()

	return zero.ActionType()
}
