// Package dep defines the shared vocabulary of mod dependency resolution:
// identities, references, resolve status and layout, dependency entries, the
// contracts that resolvable nodes, containers and metadata sources satisfy,
// and the typed errors raised by the graph builder, resolver and traverser.
//
// # Identity
//
// A mod is identified by a [Key], the pair of its identifier and [Kind].
// Keys are comparable and are the only notion of identity used by
// containers and by graph vertex deduplication, so two distinct node values
// carrying the same key are the same mod.
//
// # Layouts
//
// Every node carries a [Layout] describing how far its dependency chain is
// expanded. The single decision point is [Layout.Expands]:
//
//	LayoutFullResolved     direct dependencies are leaves
//	LayoutResolveRecursive every direct dependency is expanded with its own layout
//	LayoutResolveLastItem  only the last declared dependency is expanded
//
// # Errors
//
// Failures are reported as [*NotFoundError], [*CycleError],
// [*VersionMismatchError] and [*InvalidStateError]. Each matches its
// sentinel with errors.Is:
//
//	if errors.Is(err, dep.ErrCycle) {
//	    // unsatisfiable activation order
//	}
package dep
