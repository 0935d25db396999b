package graph

import (
	"github.com/albertocavalcante/go-modresolve/dep"
	"github.com/albertocavalcante/go-modresolve/version"
)

// Role describes how a vertex was first reached from the root.
// It is informational and does not take part in vertex identity.
type Role int

const (
	// RoleRoot is the vertex the graph was built from.
	RoleRoot Role = iota

	// RoleDirectDependency is a direct dependency of the root.
	RoleDirectDependency

	// RoleTransitive is any vertex discovered below a direct dependency.
	RoleTransitive
)

func (r Role) String() string {
	switch r {
	case RoleRoot:
		return "root"
	case RoleDirectDependency:
		return "direct"
	default:
		return "transitive"
	}
}

// Vertex is a mod in the dependency graph.
type Vertex struct {
	Node dep.Node
	Role Role
}

// Key returns the key of the vertex's mod.
func (v *Vertex) Key() dep.Key {
	return v.Node.Key()
}

// Edge means "From depends on To".
type Edge struct {
	From *Vertex
	To   *Vertex

	// Range is the version range From declared for To, if any.
	Range *version.Range
}

// Graph is a layout-aware mod dependency graph.
type Graph struct {
	// Root is the vertex the graph was built from.
	Root *Vertex

	vertices []*Vertex
	index    map[dep.Key]*Vertex
	edges    []Edge
	out      map[dep.Key][]Edge
	in       map[dep.Key][]dep.Key
	cyclic   bool
}

func newGraph() *Graph {
	return &Graph{
		index: make(map[dep.Key]*Vertex),
		out:   make(map[dep.Key][]Edge),
		in:    make(map[dep.Key][]dep.Key),
	}
}

// addVertex returns the vertex for n, creating it with role if it is new.
func (g *Graph) addVertex(n dep.Node, role Role) (*Vertex, bool) {
	if v, ok := g.index[n.Key()]; ok {
		return v, false
	}
	v := &Vertex{Node: n, Role: role}
	g.index[n.Key()] = v
	g.vertices = append(g.vertices, v)
	return v, true
}

// addEdge records from -> to unless the edge already exists.
func (g *Graph) addEdge(from, to *Vertex, rng *version.Range) {
	fk, tk := from.Key(), to.Key()
	for _, e := range g.out[fk] {
		if e.To.Key() == tk {
			return
		}
	}
	e := Edge{From: from, To: to, Range: rng}
	g.edges = append(g.edges, e)
	g.out[fk] = append(g.out[fk], e)
	g.in[tk] = append(g.in[tk], fk)
}

// Stats provides statistics about the graph.
type Stats struct {
	// Vertices is the total number of vertices, root included.
	Vertices int

	// Edges is the total number of edges.
	Edges int

	// DirectDependencies is the number of direct dependencies of the root.
	DirectDependencies int

	// TransitiveDependencies is the number of vertices below the direct dependencies.
	TransitiveDependencies int

	// Leaves is the number of vertices without outgoing edges.
	Leaves int

	// MaxDepth is the length of the longest acyclic path from the root.
	MaxDepth int
}
