package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/albertocavalcante/go-modresolve/version"
)

const separatorWidth = 60 // Width of separator lines in text output

// JSONGraph is the JSON form of a graph.
type JSONGraph struct {
	Root     string       `json:"root"`
	Cyclic   bool         `json:"cyclic,omitempty"`
	Vertices []JSONVertex `json:"vertices"`
}

// JSONVertex is a vertex in JSONGraph.
type JSONVertex struct {
	Key          string           `json:"key"`
	Name         string           `json:"name,omitempty"`
	Version      string           `json:"version,omitempty"`
	Role         string           `json:"role"`
	Layout       string           `json:"layout"`
	Dependencies []JSONDependency `json:"dependencies,omitempty"`
}

// JSONDependency is an outgoing edge in JSONGraph.
type JSONDependency struct {
	Key   string `json:"key"`
	Range string `json:"range,omitempty"`
}

// ToJSON outputs the graph as a flat vertex list in discovery order.
func (g *Graph) ToJSON() ([]byte, error) {
	out := JSONGraph{
		Cyclic:   g.cyclic,
		Vertices: make([]JSONVertex, 0, len(g.vertices)),
	}
	if g.Root != nil {
		out.Root = g.Root.Key().String()
	}

	for _, v := range g.vertices {
		jv := JSONVertex{
			Key:    v.Key().String(),
			Name:   v.Node.Name(),
			Role:   v.Role.String(),
			Layout: v.Node.Layout().String(),
		}
		if ver := v.Node.Version(); ver != nil {
			jv.Version = version.String(ver)
		}
		for _, e := range g.out[v.Key()] {
			jd := JSONDependency{Key: e.To.Key().String()}
			if e.Range != nil {
				jd.Range = e.Range.String()
			}
			jv.Dependencies = append(jv.Dependencies, jd)
		}
		out.Vertices = append(out.Vertices, jv)
	}

	return json.MarshalIndent(out, "", "  ")
}

// ToDOT outputs the graph in Graphviz DOT format.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")

	for _, v := range g.vertices {
		label := fmt.Sprintf("%s\\n%s", v.Node.Name(), version.String(v.Node.Version()))
		attrs := fmt.Sprintf(`label="%s"`, label) //nolint:gocritic // DOT format requires this quote style
		if v.Role == RoleRoot {
			attrs += ", style=bold"
		}
		if len(g.out[v.Key()]) == 0 && v.Role != RoleRoot {
			attrs += ", style=dashed"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", v.Key().String(), attrs)
	}

	buf.WriteString("\n")

	for _, e := range g.edges {
		if e.Range != nil {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From.Key().String(), e.To.Key().String(), e.Range.String())
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.Key().String(), e.To.Key().String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToText outputs a human-readable text representation of the graph.
func (g *Graph) ToText() string {
	var buf bytes.Buffer

	if g.Root == nil {
		return "Dependency Graph (empty)\n"
	}

	fmt.Fprintf(&buf, "Dependency Graph (root: %s)\n", g.Root.Key().String())
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")

	stats := g.Stats()
	fmt.Fprintf(&buf, "Total mods: %d\n", stats.Vertices)
	fmt.Fprintf(&buf, "Direct dependencies: %d\n", stats.DirectDependencies)
	fmt.Fprintf(&buf, "Transitive dependencies: %d\n", stats.TransitiveDependencies)
	fmt.Fprintf(&buf, "Max depth: %d\n", stats.MaxDepth)
	if g.cyclic {
		buf.WriteString("Cycles: yes\n")
	}
	buf.WriteString("\n")

	buf.WriteString("Dependency Tree:\n")
	g.printTree(&buf, g.Root, "", true, make(map[*Vertex]bool))

	return buf.String()
}

func (g *Graph) printTree(buf *bytes.Buffer, v *Vertex, prefix string, isLast bool, onPath map[*Vertex]bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if len(onPath) == 0 {
		buf.WriteString(v.Key().String())
	} else {
		buf.WriteString(prefix + connector + v.Key().String())
	}

	if onPath[v] {
		buf.WriteString(" (circular)\n")
		return
	}
	buf.WriteString("\n")

	onPath[v] = true
	defer delete(onPath, v)

	edges := g.out[v.Key()]
	for i, e := range edges {
		childPrefix := prefix
		if v != g.Root {
			if isLast {
				childPrefix += "    "
			} else {
				childPrefix += "│   "
			}
		}
		g.printTree(buf, e.To, childPrefix, i == len(edges)-1, onPath)
	}
}
