package dep

import (
	"errors"
	"fmt"
)

// Sentinel errors for the resolve failure taxonomy.
var (
	// ErrNotFound indicates a referenced mod is absent from the container.
	ErrNotFound = errors.New("mod not found")

	// ErrCycle indicates a dependency cycle.
	ErrCycle = errors.New("dependency cycle")

	// ErrVersionMismatch indicates a resolved dependency is outside the declared range.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrInvalidState indicates an operation was called on a node in the wrong resolve status.
	ErrInvalidState = errors.New("invalid resolve state")
)

// NotFoundError is returned when a container cannot find a referenced mod.
type NotFoundError struct {
	Reference Reference
	Container Container
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("mod %s not found in %s", e.Reference, containerName(e.Container))
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CycleError is returned when a dependency cycle is detected, either by the
// single-node reentrancy guard or by graph analysis.
type CycleError struct {
	// Source is the node whose resolve or traversal detected the cycle.
	Source Node

	// Dependency is the node that closes the cycle. For graph-detected
	// cycles it is the same as Source.
	Dependency Node
}

func (e *CycleError) Error() string {
	src, dst := nodeName(e.Source), nodeName(e.Dependency)
	if src == dst {
		return fmt.Sprintf("dependency cycle detected at %s", src)
	}
	return fmt.Sprintf("dependency cycle detected: %s -> %s", src, dst)
}

// Is matches ErrCycle.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// VersionMismatchError is returned when a resolved dependency's version falls
// outside the range declared by the referencing mod.
type VersionMismatchError struct {
	Source     Reference
	Dependency Node
}

func (e *VersionMismatchError) Error() string {
	v := "_"
	if e.Dependency != nil && e.Dependency.Version() != nil {
		v = e.Dependency.Version().Original()
	}
	return fmt.Sprintf("version mismatch: %s requires %q but %s has version %s",
		e.Source.Key, e.Source.Range.String(), nodeName(e.Dependency), v)
}

// Is matches ErrVersionMismatch.
func (e *VersionMismatchError) Is(target error) bool {
	return target == ErrVersionMismatch
}

// InvalidStateError is returned when a node is not in the resolve status an
// operation requires.
type InvalidStateError struct {
	Node   Node
	Status Status
	Want   Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("mod %s is %s, want %s", nodeName(e.Node), e.Status, e.Want)
}

// Is matches ErrInvalidState.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

func nodeName(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Key().String()
}

func containerName(c Container) string {
	if c == nil {
		return "<no container>"
	}
	return c.String()
}
