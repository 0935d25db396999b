// Package graph builds and queries mod dependency graphs.
//
// A graph is built from a root node by an order-preserving depth-first walk
// that honors each visited node's layout:
//
//   - dep.LayoutFullResolved: the node's direct dependencies become leaf
//     vertices and are never expanded.
//   - dep.LayoutResolveRecursive: every direct dependency is expanded using
//     its own layout.
//   - dep.LayoutResolveLastItem: only the last declared dependency is
//     expanded; the others are leaves.
//
// Vertices are deduplicated by dep.Key. The first discovery of a mod fixes
// its role and whether it is expanded; later references only add edges.
// Cycles are detected during the same walk with white/gray/black coloring.
//
// # Building a Graph
//
// Build requires the root to be resolved and reads each node's cached
// dependency list:
//
//	g, err := graph.NewBuilder().Build(root)
//	if err != nil {
//	    return err
//	}
//	if g.HasCycle() {
//	    // unsatisfiable activation order
//	}
//
// BuildResolveFree does not require anything to be resolved. It looks up
// declared references in each node's container on the fly, which allows
// checking for cycles before committing to a resolve.
//
// # Querying the Graph
//
//	deps := g.DependenciesOf(node)      // declared order
//	path := g.Path(from, to)            // shortest dependency path
//	cycles := g.FindCycles()
//
// # Output Formats
//
//	dot := g.ToDOT()
//	text := g.ToText()
//	data, _ := g.ToJSON()
package graph
