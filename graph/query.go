package graph

import (
	"github.com/albertocavalcante/go-modresolve/dep"
)

// Vertices returns all vertices in discovery order, root first.
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Vertex returns the vertex for key, or nil if the graph does not contain it.
func (g *Graph) Vertex(key dep.Key) *Vertex {
	return g.index[key]
}

// Contains returns true if the graph contains the given mod.
func (g *Graph) Contains(key dep.Key) bool {
	_, ok := g.index[key]
	return ok
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.vertices)
}

// Edges returns all edges in the order they were recorded.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// DependenciesOf returns the outgoing edges of node as entries, in the
// node's declared order. Leaves and unknown nodes have none.
func (g *Graph) DependenciesOf(node dep.Node) []dep.Entry {
	edges := g.out[node.Key()]
	if len(edges) == 0 {
		return nil
	}
	out := make([]dep.Entry, len(edges))
	for i, e := range edges {
		out[i] = dep.Entry{Node: e.To.Node, Range: e.Range}
	}
	return out
}

// DirectDeps returns the keys of the direct dependencies of a mod.
func (g *Graph) DirectDeps(key dep.Key) []dep.Key {
	edges := g.out[key]
	if len(edges) == 0 {
		return nil
	}
	out := make([]dep.Key, len(edges))
	for i, e := range edges {
		out[i] = e.To.Key()
	}
	return out
}

// Dependents returns the mods that directly depend on the given mod.
func (g *Graph) Dependents(key dep.Key) []dep.Key {
	in := g.in[key]
	if len(in) == 0 {
		return nil
	}
	out := make([]dep.Key, len(in))
	copy(out, in)
	return out
}

// HasCycle reports whether a cycle was found among the expanded vertices.
func (g *Graph) HasCycle() bool {
	return g.cyclic
}

// TransitiveDeps returns all transitive dependencies of a mod.
// The result is in breadth-first order.
func (g *Graph) TransitiveDeps(key dep.Key) []dep.Key {
	result := make([]dep.Key, 0)
	visited := map[dep.Key]bool{key: true}
	queue := []dep.Key{key}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.out[current] {
			k := e.To.Key()
			if !visited[k] {
				visited[k] = true
				result = append(result, k)
				queue = append(queue, k)
			}
		}
	}

	return result
}

// Path finds the shortest dependency path from one mod to another.
// Returns nil if no path exists.
func (g *Graph) Path(from, to dep.Key) []dep.Key {
	if from == to {
		if g.Contains(from) {
			return []dep.Key{from}
		}
		return nil
	}

	type queueItem struct {
		key  dep.Key
		path []dep.Key
	}

	visited := map[dep.Key]bool{from: true}
	queue := []queueItem{{key: from, path: []dep.Key{from}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.out[current.key] {
			k := e.To.Key()
			if k == to {
				return append(current.path, k)
			}
			if !visited[k] {
				visited[k] = true
				path := make([]dep.Key, len(current.path)+1)
				copy(path, current.path)
				path[len(current.path)] = k
				queue = append(queue, queueItem{key: k, path: path})
			}
		}
	}

	return nil
}

// FindCycles returns the cycles reachable from the root. Each cycle starts
// at the vertex where it was entered and ends just before returning to it.
// The result is deterministic for a given graph.
func (g *Graph) FindCycles() [][]dep.Key {
	var cycles [][]dep.Key
	visited := make(map[dep.Key]bool)
	recStack := make(map[dep.Key]bool)
	path := make([]dep.Key, 0)

	var find func(key dep.Key)
	find = func(key dep.Key) {
		visited[key] = true
		recStack[key] = true
		path = append(path, key)

		for _, e := range g.out[key] {
			k := e.To.Key()
			if !visited[k] {
				find(k)
			} else if recStack[k] {
				for i, p := range path {
					if p == k {
						cycle := make([]dep.Key, len(path)-i)
						copy(cycle, path[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		path = path[:len(path)-1]
		recStack[key] = false
	}

	for _, v := range g.vertices {
		if !visited[v.Key()] {
			find(v.Key())
		}
	}

	return cycles
}

// Leaves returns the vertices without outgoing edges, in discovery order.
func (g *Graph) Leaves() []dep.Key {
	var leaves []dep.Key
	for _, v := range g.vertices {
		if len(g.out[v.Key()]) == 0 {
			leaves = append(leaves, v.Key())
		}
	}
	return leaves
}

// Stats returns statistics about the graph.
func (g *Graph) Stats() Stats {
	stats := Stats{
		Vertices: len(g.vertices),
		Edges:    len(g.edges),
		Leaves:   len(g.Leaves()),
	}
	for _, v := range g.vertices {
		switch v.Role {
		case RoleDirectDependency:
			stats.DirectDependencies++
		case RoleTransitive:
			stats.TransitiveDependencies++
		}
	}
	stats.MaxDepth = g.calculateMaxDepth()
	return stats
}

func (g *Graph) calculateMaxDepth() int {
	if g.Root == nil {
		return 0
	}

	depths := make(map[dep.Key]int)
	onPath := make(map[dep.Key]bool)
	var maxDepth int

	var dfs func(key dep.Key, depth int)
	dfs = func(key dep.Key, depth int) {
		// A vertex already on the path is a back edge.
		if onPath[key] {
			return
		}
		if d, ok := depths[key]; ok && d >= depth {
			return
		}
		depths[key] = depth
		if depth > maxDepth {
			maxDepth = depth
		}

		onPath[key] = true
		for _, e := range g.out[key] {
			dfs(e.To.Key(), depth+1)
		}
		delete(onPath, key)
	}

	dfs(g.Root.Key(), 0)
	return maxDepth
}
