package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albertocavalcante/go-modresolve/dep"
)

// Builder constructs layout-aware dependency graphs.
type Builder struct {
	// Logger receives debug output about hidden subtrees and detected cycles.
	// If nil, the builder is silent.
	Logger *slog.Logger
}

// NewBuilder creates a new graph builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build constructs the graph of a resolved root from cached dependency lists.
//
// The root must be dep.StatusResolved. Other nodes that are not resolved are
// treated as having no dependencies: their subtree is only visible once they
// have been resolved.
func (b *Builder) Build(root dep.Node) (*Graph, error) {
	if root == nil {
		return nil, fmt.Errorf("root node is nil")
	}
	if s := root.Status(); s != dep.StatusResolved {
		return nil, &dep.InvalidStateError{Node: root, Status: s, Want: dep.StatusResolved}
	}
	return b.build(root, b.resolvedDependencies)
}

// BuildResolveFree constructs the graph of root without requiring any node
// to be resolved. Each node's dependencies come from DependencyListResolveFree.
func (b *Builder) BuildResolveFree(root dep.Node) (*Graph, error) {
	if root == nil {
		return nil, fmt.Errorf("root node is nil")
	}
	return b.build(root, DependencyListResolveFree)
}

// TryBuild is Build reporting failure as a flag instead of an error.
func (b *Builder) TryBuild(root dep.Node) (*Graph, bool) {
	g, err := b.Build(root)
	return g, err == nil
}

// TryBuildResolveFree is BuildResolveFree reporting failure as a flag instead
// of an error.
func (b *Builder) TryBuildResolveFree(root dep.Node) (*Graph, bool) {
	g, err := b.BuildResolveFree(root)
	return g, err == nil
}

// DependencyListResolveFree returns the direct dependencies of n without
// mutating it:
//   - the cached list when n is resolved,
//   - an empty list when n is faulted,
//   - otherwise n's declared references looked up in n's container.
//
// Lookup failures are returned as is, typically a *dep.NotFoundError.
func DependencyListResolveFree(n dep.Node) ([]dep.Entry, error) {
	switch n.Status() {
	case dep.StatusResolved:
		return n.Dependencies(), nil
	case dep.StatusFaulted:
		return nil, nil
	}

	refs := n.Declared().References
	container := n.Container()
	entries := make([]dep.Entry, 0, len(refs))
	for _, ref := range refs {
		if container == nil {
			return nil, &dep.NotFoundError{Reference: ref}
		}
		node, err := container.Find(ref)
		if err != nil {
			return nil, err
		}
		entries = append(entries, dep.Entry{Node: node, Range: ref.Range})
	}
	return entries, nil
}

// TryDependencyListResolveFree is DependencyListResolveFree reporting failure
// as a flag instead of an error.
func TryDependencyListResolveFree(n dep.Node) ([]dep.Entry, bool) {
	entries, err := DependencyListResolveFree(n)
	if err != nil {
		return nil, false
	}
	return entries, true
}

func (b *Builder) resolvedDependencies(n dep.Node) ([]dep.Entry, error) {
	if s := n.Status(); s != dep.StatusResolved {
		b.log().Debug("dependency subtree hidden: mod not resolved",
			"mod", n.Key().String(), "status", s.String())
		return nil, nil
	}
	return n.Dependencies(), nil
}

func (b *Builder) build(root dep.Node, list func(dep.Node) ([]dep.Entry, error)) (*Graph, error) {
	w := &walker{
		g:      newGraph(),
		list:   list,
		color:  make(map[dep.Key]color),
		expand: make(map[dep.Key]bool),
		log:    b.log(),
	}
	w.g.Root, _ = w.g.addVertex(root, RoleRoot)
	w.expand[root.Key()] = true
	if err := w.visit(w.g.Root); err != nil {
		return nil, err
	}
	return w.g, nil
}

func (b *Builder) log() *slog.Logger {
	if b != nil && b.Logger != nil {
		return b.Logger
	}
	return slog.New(discardHandler{})
}

type color int

const (
	white color = iota // not visited yet
	gray               // on the current walk path
	black              // finished, or a leaf that is never expanded
)

type walker struct {
	g    *Graph
	list func(dep.Node) ([]dep.Entry, error)

	color map[dep.Key]color

	// expand records, per vertex, whether its first discoverer's layout
	// asked for it to be expanded.
	expand map[dep.Key]bool
	log    *slog.Logger
}

// visit expands v: all of v's children are registered in declared order
// before any of them is expanded, so siblings keep their declared order in
// the vertex list.
func (w *walker) visit(v *Vertex) error {
	key := v.Key()
	w.color[key] = gray

	deps, err := w.list(v.Node)
	if err != nil {
		return fmt.Errorf("dependencies of %s: %w", key, err)
	}

	layout := v.Node.Layout()
	role := RoleTransitive
	if v.Role == RoleRoot {
		role = RoleDirectDependency
	}

	children := make([]*Vertex, 0, len(deps))
	for i, d := range deps {
		child, created := w.g.addVertex(d.Node, role)
		ck := child.Key()
		if created {
			w.expand[ck] = layout.Expands(i, len(deps))
			if !w.expand[ck] {
				w.color[ck] = black
			}
		}
		w.g.addEdge(v, child, d.Range)
		if w.color[ck] == gray && !w.g.cyclic {
			w.g.cyclic = true
			w.log.Debug("dependency cycle detected", "from", key.String(), "to", ck.String())
		}
		children = append(children, child)
	}

	for _, child := range children {
		ck := child.Key()
		if w.color[ck] != white || !w.expand[ck] {
			continue
		}
		if err := w.visit(child); err != nil {
			return err
		}
	}

	w.color[key] = black
	return nil
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
