package modresolve

import (
	"github.com/albertocavalcante/go-modresolve/dep"
	"github.com/albertocavalcante/go-modresolve/graph"
)

// Traverse returns every effective dependency of root, root first, without
// duplicates. The order is the activation order: the direct dependencies in
// declared order, then theirs, level by level, each mod at the position it
// was first reached.
//
// root must be resolved; dependencies that are not resolved contribute no
// dependencies of their own. If the layout-limited graph contains a cycle,
// Traverse fails with a *dep.CycleError and returns nothing.
func Traverse(root dep.Node) ([]dep.Entry, error) {
	return traverse(graph.NewBuilder(), root)
}

// TryTraverse is Traverse reporting failure as a flag instead of an error.
func TryTraverse(root dep.Node) ([]dep.Entry, bool) {
	entries, err := Traverse(root)
	return entries, err == nil
}

func traverse(b *graph.Builder, root dep.Node) ([]dep.Entry, error) {
	g, err := b.Build(root)
	if err != nil {
		return nil, err
	}
	if g.HasCycle() {
		return nil, &dep.CycleError{Source: root, Dependency: root}
	}

	out := make([]dep.Entry, 1, g.Len())
	out[0] = dep.Entry{Node: root}
	seen := map[dep.Key]bool{root.Key(): true}
	queue := []dep.Node{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.DependenciesOf(current) {
			if seen[e.Key()] {
				continue
			}
			seen[e.Key()] = true
			out = append(out, e)
			queue = append(queue, e.Node)
		}
	}

	return out, nil
}
