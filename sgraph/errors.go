package sgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is wrapped by every error raised when an operation is
	// invoked on a node kind that does not support it.
	ErrUnsupported = errors.New("unsupported operation on this node kind")

	// ErrHasChild is returned when a second child is attached to a
	// transform node.
	ErrHasChild = errors.New("transform node already has a child")

	// ErrRendererUnset is returned by Dispose when no renderer was attached.
	ErrRendererUnset = errors.New("renderer unset")

	// ErrMeshNotFound and ErrTextureNotFound are returned by renderers when
	// a leaf names a resource that was never registered.
	ErrMeshNotFound    = errors.New("mesh not found")
	ErrTextureNotFound = errors.New("texture not found")
)

func notTransform(name string) error {
	return fmt.Errorf("%s is not a transform node: %w", name, ErrUnsupported)
}

func noChildren(name string) error {
	return fmt.Errorf("%s is a leaf and cannot have children: %w", name, ErrUnsupported)
}
