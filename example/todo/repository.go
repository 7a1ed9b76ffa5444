package todo

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrRepositoryUnavailable is returned by a MemoryRepository switched to failing.
var ErrRepositoryUnavailable = errors.New("todo repository unavailable")

// Repository is where todos are loaded from.
type Repository interface {
	Fetch(ctx context.Context) ([]Item, error)
}

// MemoryRepository is a Repository serving a fixed list of todos.
type MemoryRepository struct {
	mu      sync.Mutex
	items   []Item
	failing bool
}

// NewMemoryRepository creates a MemoryRepository serving items.
func NewMemoryRepository(items ...Item) *MemoryRepository {
	return &MemoryRepository{items: slices.Clone(items)}
}

// Fetch returns a copy of the served items.
func (r *MemoryRepository) Fetch(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failing {
		return nil, ErrRepositoryUnavailable
	}

	return slices.Clone(r.items), nil
}

// SetFailing makes subsequent fetches fail with ErrRepositoryUnavailable.
func (r *MemoryRepository) SetFailing(failing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failing = failing
}
