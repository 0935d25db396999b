package modresolve

import (
	"fmt"
	"log/slog"

	"github.com/albertocavalcante/go-modresolve/dep"
	"github.com/albertocavalcante/go-modresolve/graph"
	"github.com/albertocavalcante/go-modresolve/version"
)

// ResolveOptions controls a single resolve call.
type ResolveOptions struct {
	// CheckForCycle builds a resolve-free graph of the mod before returning
	// and fails with a *CycleError if it contains a cycle.
	CheckForCycle bool

	// ResolveCompleteChain resolves, depth first, every direct dependency
	// that the mod's layout expands and that is not resolved yet.
	ResolveCompleteChain bool
}

// Resolvable is a node that can be resolved in place. *Mod implements it.
type Resolvable interface {
	dep.Node
	Resolve(r *DependencyResolver, opts ResolveOptions) error
}

// DependencyResolver computes the direct dependencies of a node from its
// declared references and its container.
type DependencyResolver struct {
	cfg *resolverConfig
}

// NewDependencyResolver creates a resolver configured by opts.
func NewDependencyResolver(opts ...Option) (*DependencyResolver, error) {
	cfg, err := newResolverConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid resolver options: %w", err)
	}
	return &DependencyResolver{cfg: cfg}, nil
}

// Defaults returns the options used by ResolveMod.
func (r *DependencyResolver) Defaults() ResolveOptions {
	return r.cfg.defaults
}

// Builder returns the graph builder used by the resolver.
func (r *DependencyResolver) Builder() *graph.Builder {
	return r.cfg.builder
}

// ResolveMod resolves m in place using the resolver's default options.
func (r *DependencyResolver) ResolveMod(m *Mod) error {
	return m.Resolve(r, r.cfg.defaults)
}

// Resolve returns the direct dependencies of node in declaration order.
//
// Each declared reference is looked up in node's container and its version
// checked against the declared range. The node itself is never modified;
// with ResolveCompleteChain set, the expanded children are resolved in place.
func (r *DependencyResolver) Resolve(node dep.Node, opts ResolveOptions) ([]dep.Entry, error) {
	return r.resolve(node, node.Declared(), opts)
}

// resolve is Resolve against a declared list the caller already read, so
// the caller can keep the layout of the same snapshot.
func (r *DependencyResolver) resolve(node dep.Node, list dep.DependencyList, opts ResolveOptions) ([]dep.Entry, error) {
	log := r.cfg.log().With("mod", node.Key().String())

	container := node.Container()
	log.Debug("resolving mod", "references", len(list.References), "layout", list.Layout.String())

	entries := make([]dep.Entry, 0, len(list.References))
	for _, ref := range list.References {
		if container == nil {
			return nil, &dep.NotFoundError{Reference: ref}
		}
		found, err := container.Find(ref)
		if err != nil {
			return nil, err
		}
		if !ref.Range.Contains(found.Version()) {
			log.Debug("version outside declared range",
				"dependency", ref.Key.String(),
				"range", ref.Range.String(),
				"version", version.String(found.Version()))
			return nil, &dep.VersionMismatchError{Source: ref, Dependency: found}
		}
		entries = append(entries, dep.Entry{Node: found, Range: ref.Range})
	}

	if opts.CheckForCycle {
		g, err := r.cfg.builder.BuildResolveFree(node)
		if err != nil {
			return nil, fmt.Errorf("check cycles of %s: %w", node.Key(), err)
		}
		if g.HasCycle() {
			log.Debug("dependency cycle found", "cycles", len(g.FindCycles()))
			return nil, &dep.CycleError{Source: node, Dependency: node}
		}
	}

	if opts.ResolveCompleteChain {
		if err := r.resolveChain(log, list.Layout, entries, opts); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// resolveChain resolves the children that layout expands, in declared order.
func (r *DependencyResolver) resolveChain(log *slog.Logger, layout dep.Layout, entries []dep.Entry, opts ResolveOptions) error {
	for i, e := range entries {
		if !layout.Expands(i, len(entries)) {
			continue
		}

		switch s := e.Node.Status(); s {
		case dep.StatusResolved, dep.StatusResolving:
			log.Debug("dependency already handled", "dependency", e.Key().String(), "status", s.String())
			continue
		}

		child, ok := e.Node.(Resolvable)
		if !ok {
			log.Debug("dependency cannot be resolved in place", "dependency", e.Key().String())
			continue
		}

		log.Debug("resolving dependency", "dependency", e.Key().String())
		if err := child.Resolve(r, opts); err != nil {
			return fmt.Errorf("resolve dependency %s: %w", e.Key(), err)
		}
	}
	return nil
}

// Traverse returns the effective dependencies of root, root first, using
// the resolver's graph builder.
func (r *DependencyResolver) Traverse(root dep.Node) ([]dep.Entry, error) {
	return traverse(r.cfg.builder, root)
}
