// Package todo is a small application built on the composable store.
//
// The state tree has three slices. Each is owned by reducer sources mounted at its path:
// List (and List.Items), Sync and Stats. Loading todos from a Repository is an effect:
// LoadRequested starts it and Loaded or LoadFailed report the outcome back to the store.
package todo
