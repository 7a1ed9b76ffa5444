package todo

import (
	"time"

	"github.com/AntonStoeckl/composable-store-go/store"
)

// Field names of the state tree, used as mount paths.
const (
	FieldList       = "List"
	FieldItems      = "Items"
	FieldSync       = "Sync"
	FieldStats      = "Stats"
	FieldLoading    = "Loading"
	FieldLastError  = "LastError"
	FieldLoadedAt   = "LoadedAt"
	FieldDispatched = "Dispatched"
	FieldCompleted  = "Completed"
)

// Item is a single todo.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// State is the root of the todo state tree.
type State struct {
	List  List  `json:"list"`
	Sync  Sync  `json:"sync"`
	Stats Stats `json:"stats"`
}

// Field implements store.Node.
func (s State) Field(name string) (any, bool) {
	switch name {
	case FieldList:
		return s.List, true
	case FieldSync:
		return s.Sync, true
	case FieldStats:
		return s.Stats, true
	}

	return nil, false
}

// WithField implements store.Node.
func (s State) WithField(name string, value any) (store.Node, error) {
	var err error

	switch name {
	case FieldList:
		err = store.SetField(&s.List, name, value)
	case FieldSync:
		err = store.SetField(&s.Sync, name, value)
	case FieldStats:
		err = store.SetField(&s.Stats, name, value)
	default:
		err = store.UnknownField(s, name)
	}

	return s, err
}

// List holds the todos in insertion order.
type List struct {
	Items []Item `json:"items"`
}

// Field implements store.Node.
func (l List) Field(name string) (any, bool) {
	if name == FieldItems {
		return l.Items, true
	}

	return nil, false
}

// WithField implements store.Node.
func (l List) WithField(name string, value any) (store.Node, error) {
	if name != FieldItems {
		return l, store.UnknownField(l, name)
	}

	err := store.SetField(&l.Items, name, value)

	return l, err
}

// Sync tracks loading from the Repository.
type Sync struct {
	Loading   bool      `json:"loading"`
	LastError string    `json:"lastError,omitempty"`
	LoadedAt  time.Time `json:"loadedAt"`
}

// Field implements store.Node.
func (s Sync) Field(name string) (any, bool) {
	switch name {
	case FieldLoading:
		return s.Loading, true
	case FieldLastError:
		return s.LastError, true
	case FieldLoadedAt:
		return s.LoadedAt, true
	}

	return nil, false
}

// WithField implements store.Node.
func (s Sync) WithField(name string, value any) (store.Node, error) {
	var err error

	switch name {
	case FieldLoading:
		err = store.SetField(&s.Loading, name, value)
	case FieldLastError:
		err = store.SetField(&s.LastError, name, value)
	case FieldLoadedAt:
		err = store.SetField(&s.LoadedAt, name, value)
	default:
		err = store.UnknownField(s, name)
	}

	return s, err
}

// Stats counts dispatched actions and how often every todo got completed.
type Stats struct {
	Dispatched int `json:"dispatched"`
	Completed  int `json:"completed"`
}

// Field implements store.Node.
func (s Stats) Field(name string) (any, bool) {
	switch name {
	case FieldDispatched:
		return s.Dispatched, true
	case FieldCompleted:
		return s.Completed, true
	}

	return nil, false
}

// WithField implements store.Node.
func (s Stats) WithField(name string, value any) (store.Node, error) {
	var err error

	switch name {
	case FieldDispatched:
		err = store.SetField(&s.Dispatched, name, value)
	case FieldCompleted:
		err = store.SetField(&s.Completed, name, value)
	default:
		err = store.UnknownField(s, name)
	}

	return s, err
}

// OpenCount returns the number of todos not done yet.
func OpenCount(s State) int {
	open := 0
	for _, item := range s.List.Items {
		if !item.Done {
			open++
		}
	}

	return open
}

// AllDone reports whether there is at least one todo and all of them are done.
func AllDone(items []Item) bool {
	if len(items) == 0 {
		return false
	}

	for _, item := range items {
		if !item.Done {
			return false
		}
	}

	return true
}
