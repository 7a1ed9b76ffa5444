package todo

import (
	"slices"

	"github.com/AntonStoeckl/composable-store-go/store"
	"github.com/AntonStoeckl/composable-store-go/store/reducer"
)

// ListReducers owns the List slice.
type ListReducers struct{}

// MountPath implements reducer.Mounted.
func (ListReducers) MountPath() string { return FieldList }

// Reducers maintains the item list as a whole.
func (ListReducers) Reducers() []reducer.Handler {
	return []reducer.Handler{
		reducer.On(func(l List, a Added) List {
			l.Items = append(slices.Clip(l.Items), Item{ID: a.ID, Title: a.Title})
			return l
		}),
		reducer.On(func(l List, _ CompletedCleared) List {
			l.Items = slices.DeleteFunc(slices.Clone(l.Items), func(item Item) bool { return item.Done })
			return l
		}),
		reducer.On(func(l List, a Loaded) List {
			l.Items = slices.Clone(a.Items)
			return l
		}),
	}
}

// ItemReducers works on the items below List, one level deeper than ListReducers.
type ItemReducers struct{}

// MountPath mounts the source at the item slice of the list.
func (ItemReducers) MountPath() string { return FieldList + "." + FieldItems }

// Reducers toggles and removes single items.
func (ItemReducers) Reducers() []reducer.Handler {
	return []reducer.Handler{
		reducer.On(func(items []Item, a Toggled) []Item {
			i := slices.IndexFunc(items, func(item Item) bool { return item.ID == a.ID })
			if i < 0 {
				return items
			}

			items = slices.Clone(items)
			items[i].Done = !items[i].Done

			return items
		}),
		reducer.On(func(items []Item, a Removed) []Item {
			return slices.DeleteFunc(slices.Clone(items), func(item Item) bool { return item.ID == a.ID })
		}),
	}
}

// SyncReducers owns the Sync slice.
type SyncReducers struct{}

// MountPath implements reducer.Mounted.
func (SyncReducers) MountPath() string { return FieldSync }

// Reducers tracks the loading lifecycle.
func (SyncReducers) Reducers() []reducer.Handler {
	return []reducer.Handler{
		reducer.On(func(s Sync, _ LoadRequested) Sync {
			s.Loading = true
			s.LastError = ""
			return s
		}),
		reducer.On(func(s Sync, a Loaded) Sync {
			s.Loading = false
			s.LoadedAt = a.At
			return s
		}),
		reducer.On(func(s Sync, a LoadFailed) Sync {
			s.Loading = false
			s.LastError = a.Reason
			return s
		}),
	}
}

// StatsReducers owns the Stats slice and sees every action.
type StatsReducers struct{}

// MountPath implements reducer.Mounted.
func (StatsReducers) MountPath() string { return FieldStats }

// Reducers counts every dispatched action and every AllCompleted.
func (StatsReducers) Reducers() []reducer.Handler {
	return []reducer.Handler{
		reducer.OnAny(func(s Stats, _ store.Action) Stats {
			s.Dispatched++
			return s
		}),
		reducer.On(func(s Stats, _ AllCompleted) Stats {
			s.Completed++
			return s
		}),
	}
}

// ReducerSources returns all reducer sources of the application in combination order.
func ReducerSources() []reducer.Source {
	return []reducer.Source{
		ListReducers{},
		ItemReducers{},
		SyncReducers{},
		StatsReducers{},
	}
}
