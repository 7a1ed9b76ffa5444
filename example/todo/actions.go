package todo

import (
	"time"

	"github.com/google/uuid"
)

// Action kinds.
const (
	AddedType            = "todo/added"
	ToggledType          = "todo/toggled"
	RemovedType          = "todo/removed"
	CompletedClearedType = "todo/completed-cleared"
	LoadRequestedType    = "todo/load-requested"
	LoadedType           = "todo/loaded"
	LoadFailedType       = "todo/load-failed"
	AllCompletedType     = "todo/all-completed"
)

// Added adds a todo.
type Added struct {
	ID    string
	Title string
}

// NewAdded builds an Added action with a fresh ID.
func NewAdded(title string) Added {
	return Added{ID: uuid.NewString(), Title: title}
}

func (Added) ActionType() string { return AddedType }

// Toggled flips the Done flag of a todo.
type Toggled struct {
	ID string
}

func (Toggled) ActionType() string { return ToggledType }

// Removed removes a todo.
type Removed struct {
	ID string
}

func (Removed) ActionType() string { return RemovedType }

// CompletedCleared removes all done todos.
type CompletedCleared struct{}

func (CompletedCleared) ActionType() string { return CompletedClearedType }

// LoadRequested asks for the todos to be loaded from the Repository.
type LoadRequested struct{}

func (LoadRequested) ActionType() string { return LoadRequestedType }

// Loaded replaces the todos with the ones fetched at At.
type Loaded struct {
	Items []Item
	At    time.Time
}

func (Loaded) ActionType() string { return LoadedType }

// LoadFailed reports a failed load.
type LoadFailed struct {
	Reason string
}

func (LoadFailed) ActionType() string { return LoadFailedType }

// AllCompleted is emitted when the last open todo was toggled to done.
type AllCompleted struct{}

func (AllCompleted) ActionType() string { return AllCompletedType }
