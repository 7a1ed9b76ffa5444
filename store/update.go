package store

import (
	"fmt"
)

// ComputeFunc derives the replacement for the node found at a path.
type ComputeFunc func(node any) (any, error)

// Update returns a copy of root in which the node at path is replaced by compute(node).
//
// For the empty path the result is exactly compute(root), nothing is copied.
// Otherwise every ancestor on the path is a fresh shallow copy and every value that is not on the path
// is carried over unchanged, so root itself is never modified.
func Update[S any](root S, path Path, compute ComputeFunc) (S, error) {
	updated, err := update(root, path, 0, compute)
	if err != nil {
		return root, err
	}

	return asRoot[S](root, updated)
}

// Assign returns a copy of root in which the node at path is replaced by value.
func Assign[S any](root S, path Path, value any) (S, error) {
	return Update(root, path, func(any) (any, error) {
		return value, nil
	})
}

// AssignMany replaces several nodes in one traversal. paths[i] is replaced by values[i].
//
// Paths are matched by their exact accumulated field chain. When a path addresses a node,
// deeper paths below that node are ignored. Branches that are not on any path are shared with root.
func AssignMany[S any](root S, paths []Path, values []any) (S, error) {
	if len(paths) != len(values) {
		return root, fmt.Errorf("%w: %d paths, %d values", ErrPathsValuesMismatch, len(paths), len(values))
	}

	if len(paths) == 0 {
		return root, nil
	}

	updated, err := assignMany(root, Path{}, paths, values)
	if err != nil {
		return root, err
	}

	return asRoot[S](root, updated)
}

// Resolve returns the node at path below root without copying anything.
func Resolve(root any, path Path) (any, error) {
	current := root

	for depth := range path {
		child, err := fieldOf(current, path, depth)
		if err != nil {
			return nil, err
		}

		current = child
	}

	return current, nil
}

func update(node any, path Path, depth int, compute ComputeFunc) (any, error) {
	if depth == len(path) {
		return compute(node)
	}

	child, err := fieldOf(node, path, depth)
	if err != nil {
		return nil, err
	}

	updatedChild, err := update(child, path, depth+1, compute)
	if err != nil {
		return nil, err
	}

	return withField(node.(Node), path, depth, updatedChild)
}

func assignMany(node any, current Path, paths []Path, values []any) (any, error) {
	for i, p := range paths {
		if p.Equal(current) {
			return values[i], nil
		}
	}

	names := nextSegments(current, paths)
	if len(names) == 0 {
		return node, nil
	}

	result, ok := node.(Node)
	if !ok || isNil(result) {
		return nil, fmt.Errorf("%w: %T at %q", ErrPathNotTraversable, node, current.String())
	}

	for _, name := range names {
		childPath := current.Child(name)

		child, err := fieldOf(result, childPath, len(current))
		if err != nil {
			return nil, err
		}

		updatedChild, err := assignMany(child, childPath, paths, values)
		if err != nil {
			return nil, err
		}

		next, err := withField(result, childPath, len(current), updatedChild)
		if err != nil {
			return nil, err
		}

		result = next
	}

	return result, nil
}

// nextSegments lists, in order of first appearance, the field names that follow current in any of paths.
func nextSegments(current Path, paths []Path) []string {
	var names []string
	seen := make(map[string]struct{})

	for _, p := range paths {
		if len(p) <= len(current) || !p.HasPrefix(current) {
			continue
		}

		name := p[len(current)]
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

func fieldOf(node any, path Path, depth int) (any, error) {
	parent, ok := node.(Node)
	if !ok || isNil(parent) {
		return nil, fmt.Errorf("%w: %T at %q", ErrPathNotTraversable, node, path[:depth].String())
	}

	child, found := parent.Field(path[depth])
	if !found {
		return nil, fmt.Errorf("%w: %q (%T has no field %q)", ErrPathNotFound, path.String(), node, path[depth])
	}

	return child, nil
}

func withField(parent Node, path Path, depth int, value any) (Node, error) {
	updated, err := parent.WithField(path[depth], value)
	if err != nil {
		return nil, fmt.Errorf("setting %q: %w", path[:depth+1].String(), err)
	}

	return updated, nil
}

func asRoot[S any](root S, updated any) (S, error) {
	if updated == nil {
		var zero S
		return zero, nil
	}

	typed, ok := updated.(S)
	if !ok {
		return root, fmt.Errorf("%w: expected %T, got %T", ErrNodeTypeMismatch, root, updated)
	}

	return typed, nil
}
