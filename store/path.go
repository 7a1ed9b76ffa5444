package store

import (
	"fmt"
	"slices"
	"strings"
)

const pathSeparator = "."

// Path is an ordered list of field names leading from a root node to a nested node.
// The empty Path denotes the root itself.
type Path []string

// ParsePath parses dot-separated field names, e.g. "todos.items".
// The empty string yields the root path. Empty segments are rejected.
func ParsePath(dotted string) (Path, error) {
	if dotted == "" {
		return Path{}, nil
	}

	segments := strings.Split(dotted, pathSeparator)
	for i, segment := range segments {
		segments[i] = strings.TrimSpace(segment)
		if segments[i] == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyPathSegment, dotted)
		}
	}

	return segments, nil
}

// MustParsePath is like ParsePath but panics on malformed input. Use it for constant paths only.
func MustParsePath(dotted string) Path {
	p, err := ParsePath(dotted)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the dotted notation of the path.
func (p Path) String() string {
	return strings.Join(p, pathSeparator)
}

// IsRoot reports whether the path addresses the root node.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Child returns a new path extended by name. The receiver is not modified.
func (p Path) Child(name string) Path {
	child := make(Path, 0, len(p)+1)
	child = append(child, p...)

	return append(child, name)
}

// Equal reports whether both paths name the same field chain.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// HasPrefix reports whether prefix is a (not necessarily strict) leading part of p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && slices.Equal(p[:len(prefix)], prefix)
}
