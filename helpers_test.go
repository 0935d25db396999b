package modresolve

import (
	"testing"

	"github.com/albertocavalcante/go-modresolve/dep"
	"github.com/albertocavalcante/go-modresolve/version"
)

func ref(id string) dep.Reference {
	return dep.NewReference(id, dep.KindDefault)
}

func refRange(id, rng string) dep.Reference {
	r := ref(id)
	r.Range = version.MustRange(rng)
	return r
}

// newMod creates a default-kind mod declaring refs with layout.
func newMod(t *testing.T, id, ver string, layout dep.Layout, refs ...dep.Reference) *Mod {
	t.Helper()
	m, err := NewMod(id, dep.KindDefault, ModInfo{
		Version:      ver,
		Dependencies: dep.DependencyList{Layout: layout, References: refs},
	})
	if err != nil {
		t.Fatalf("NewMod(%q) error = %v", id, err)
	}
	return m
}

// recursive is shorthand for a ResolveRecursive mod without a version.
func recursive(t *testing.T, id string, deps ...string) *Mod {
	t.Helper()
	refs := make([]dep.Reference, len(deps))
	for i, d := range deps {
		refs[i] = ref(d)
	}
	return newMod(t, id, "", dep.LayoutResolveRecursive, refs...)
}

func withLayout(t *testing.T, id string, layout dep.Layout, deps ...string) *Mod {
	t.Helper()
	refs := make([]dep.Reference, len(deps))
	for i, d := range deps {
		refs[i] = ref(d)
	}
	return newMod(t, id, "", layout, refs...)
}

func newTestRegistry(mods ...*Mod) *Registry {
	reg := NewRegistry("local")
	reg.Add(mods...)
	return reg
}

func newTestResolver(t *testing.T, opts ...Option) *DependencyResolver {
	t.Helper()
	r, err := NewDependencyResolver(opts...)
	if err != nil {
		t.Fatalf("NewDependencyResolver() error = %v", err)
	}
	return r
}

func keys(ids ...string) []dep.Key {
	out := make([]dep.Key, len(ids))
	for i, id := range ids {
		out[i] = dep.Key{ID: id}
	}
	return out
}

var (
	chainOnly  = ResolveOptions{ResolveCompleteChain: true}
	fullChecks = ResolveOptions{CheckForCycle: true, ResolveCompleteChain: true}
)
