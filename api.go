// Package modresolve resolves the dependencies of mods and computes their
// activation order.
//
// # Overview
//
// A mod declares ordered references to other mods, each with an optional
// version range, plus a layout that controls how deep its dependency chain
// is expanded (see dep.Layout). The package provides:
//
//   - Mod: a resolvable mod with a None → Resolving → Resolved|Faulted
//     status, an immutable dependency snapshot and change notifications
//   - DependencyResolver: looks references up in a container, checks
//     version ranges and cycles, and optionally resolves the whole chain
//   - Traverse: the duplicate-free activation order of a resolved mod
//   - Registry and ChainContainer: in-memory containers
//
// # Quick Start
//
//	reg := modresolve.NewRegistry("local")
//	reg.Add(core, ui, app)
//
//	order, err := modresolve.ResolveAndTraverse(app)
//	if errors.Is(err, modresolve.ErrCycle) {
//	    // app's dependencies loop back on themselves
//	}
//
// # Layouts
//
// Layouts are read per mod while walking: a FullResolved mod's
// dependencies are leaves, a ResolveLastItem mod expands only its last
// dependency, and a ResolveRecursive mod expands all of them.
//
// # Thread Safety
//
// Accessors on Mod, Registry and ChainContainer are safe for concurrent
// use. Resolving the same mod concurrently is not supported.
package modresolve

import (
	"fmt"

	"github.com/albertocavalcante/go-modresolve/dep"
)

// ResolveAndTraverse resolves m with a resolver configured by opts and
// returns its activation order.
func ResolveAndTraverse(m *Mod, opts ...Option) ([]dep.Entry, error) {
	r, err := NewDependencyResolver(opts...)
	if err != nil {
		return nil, err
	}
	if err := r.ResolveMod(m); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", m.Key(), err)
	}
	return r.Traverse(m)
}

// ResolveAll resolves every mod of reg that is not resolved yet, in
// registration order, and returns the errors keyed by mod. A failing mod is
// left Faulted and the remaining mods are still resolved.
//
// It is a caller-side convenience: each mod is an independent ResolveMod
// call on the calling goroutine, with no batch semantics of its own. The
// returned error only reports invalid options.
func ResolveAll(reg *Registry, opts ...Option) (map[dep.Key]error, error) {
	r, err := NewDependencyResolver(opts...)
	if err != nil {
		return nil, err
	}
	failed := make(map[dep.Key]error)
	for _, m := range reg.Mods() {
		if m.Status() == dep.StatusResolved {
			continue
		}
		if err := r.ResolveMod(m); err != nil {
			failed[m.Key()] = err
		}
	}
	return failed, nil
}
