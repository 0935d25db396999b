package modresolve

import "github.com/albertocavalcante/go-modresolve/dep"

// Sentinel errors of the resolve failure taxonomy, re-exported from dep so
// callers can match them without importing it.
var (
	// ErrNotFound indicates a referenced mod is absent from the container.
	ErrNotFound = dep.ErrNotFound

	// ErrCycle indicates a dependency cycle, found either by the reentrancy
	// guard or by graph analysis.
	ErrCycle = dep.ErrCycle

	// ErrVersionMismatch indicates a dependency's version is outside the
	// declared range.
	ErrVersionMismatch = dep.ErrVersionMismatch

	// ErrInvalidState indicates an operation needs a different resolve status.
	ErrInvalidState = dep.ErrInvalidState
)

// Typed errors, for use with errors.As.
type (
	NotFoundError        = dep.NotFoundError
	CycleError           = dep.CycleError
	VersionMismatchError = dep.VersionMismatchError
	InvalidStateError    = dep.InvalidStateError
)
