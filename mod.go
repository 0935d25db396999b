package modresolve

import (
	"errors"
	"fmt"
	"sync"

	"github.com/albertocavalcante/go-modresolve/dep"
	"github.com/albertocavalcante/go-modresolve/version"
)

// ModInfo describes a mod as read from its descriptor.
type ModInfo struct {
	// Name is the human readable name. Defaults to the mod id.
	Name string

	// Version is the mod version. Empty means unset.
	Version string

	// Dependencies is the declared dependency block.
	Dependencies dep.DependencyList
}

// DependencyList implements dep.Metadata.
func (i ModInfo) DependencyList() dep.DependencyList {
	return dep.StaticMetadata(i.Dependencies).DependencyList()
}

// DependenciesChanged is delivered to subscribers after every successful
// resolve of a mod.
type DependenciesChanged struct {
	Mod *Mod

	// Old is the dependency list before the resolve. It is empty when the
	// mod was never resolved or its last resolve failed.
	Old []dep.Entry

	// New is the dependency list the resolve produced.
	New []dep.Entry

	// Layout is the layout the new list was resolved with.
	Layout dep.Layout

	// Diff compares Old and New.
	Diff *EntryDiff
}

// Mod is a resolvable mod. Its resolve status and dependency list are only
// written by Resolve; all accessors return snapshots.
//
// Reads are safe for concurrent use. Resolving the same mod from several
// goroutines at once is not supported.
type Mod struct {
	key     dep.Key
	name    string
	version *version.Version

	mu        sync.RWMutex
	meta      dep.Metadata
	container dep.Container
	status    dep.Status
	layout    dep.Layout
	deps      []dep.Entry

	subs   []subscription
	nextID int
}

type subscription struct {
	id int
	fn func(DependenciesChanged)
}

// NewMod creates an unresolved mod whose declared dependencies come from info.
func NewMod(id string, kind dep.Kind, info ModInfo) (*Mod, error) {
	if id == "" {
		return nil, errors.New("mod id must not be empty")
	}
	v, err := version.Parse(info.Version)
	if err != nil {
		return nil, fmt.Errorf("mod %s: %w", id, err)
	}
	name := info.Name
	if name == "" {
		name = id
	}
	return &Mod{
		key:     dep.Key{ID: id, Kind: kind},
		name:    name,
		version: v,
		meta:    info,
		layout:  info.Dependencies.Layout,
	}, nil
}

// MustMod is like NewMod but panics on error.
func MustMod(id string, kind dep.Kind, info ModInfo) *Mod {
	m, err := NewMod(id, kind, info)
	if err != nil {
		panic(err)
	}
	return m
}

// Key returns the mod's identity.
func (m *Mod) Key() dep.Key { return m.key }

// ID returns the mod id.
func (m *Mod) ID() string { return m.key.ID }

// Kind returns the mod kind.
func (m *Mod) Kind() dep.Kind { return m.key.Kind }

// Name returns the mod's display name.
func (m *Mod) Name() string { return m.name }

// Version returns the mod version, or nil when unset.
func (m *Mod) Version() *version.Version { return m.version }

func (m *Mod) String() string { return m.key.String() }

// Declared returns the declared dependency block, read from the metadata
// each time it is called.
func (m *Mod) Declared() dep.DependencyList {
	m.mu.RLock()
	meta := m.meta
	m.mu.RUnlock()
	if meta == nil {
		return dep.DependencyList{}
	}
	return meta.DependencyList()
}

// SetMetadata replaces the source of the mod's declared dependencies.
// It takes effect on the next resolve.
func (m *Mod) SetMetadata(meta dep.Metadata) {
	m.mu.Lock()
	m.meta = meta
	m.mu.Unlock()
}

// Container returns the container the mod's references are looked up in.
func (m *Mod) Container() dep.Container {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.container
}

// SetContainer sets the container the mod's references are looked up in.
// Registry.Add calls it; use it directly to resolve against a ChainContainer.
func (m *Mod) SetContainer(c dep.Container) {
	m.mu.Lock()
	m.container = c
	m.mu.Unlock()
}

// Status returns the current resolve status.
func (m *Mod) Status() dep.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Layout returns the layout of the last successful resolve, or the declared
// layout when the mod is not resolved.
func (m *Mod) Layout() dep.Layout {
	m.mu.RLock()
	status, layout, meta := m.status, m.layout, m.meta
	m.mu.RUnlock()
	if status == dep.StatusResolved || meta == nil {
		return layout
	}
	return meta.DependencyList().Layout
}

// Dependencies returns a copy of the resolved direct dependencies. It is
// empty unless Status is dep.StatusResolved.
func (m *Mod) Dependencies() []dep.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.status != dep.StatusResolved {
		return nil
	}
	return cloneEntries(m.deps)
}

// Subscribe registers fn to be called after every successful resolve.
// fn runs on the resolving goroutine after the mod's state is updated.
// The returned function removes the subscription.
func (m *Mod) Subscribe(fn func(DependenciesChanged)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Resolve recomputes the mod's dependencies with r.
//
// The mod is Resolving for the duration of the call. Calling Resolve again
// while it is Resolving fails with a *dep.CycleError and leaves the state
// to the outer call. On success the list is replaced, the status becomes
// Resolved and subscribers are notified; on failure the list is discarded
// and the status becomes Faulted. A panic during the resolve also leaves the
// mod Faulted before it propagates.
func (m *Mod) Resolve(r *DependencyResolver, opts ResolveOptions) error {
	if r == nil {
		return errors.New("resolve: nil resolver")
	}

	m.mu.Lock()
	if m.status == dep.StatusResolving {
		m.mu.Unlock()
		return &dep.CycleError{Source: m, Dependency: m}
	}
	m.status = dep.StatusResolving
	m.mu.Unlock()

	// A panicking container or metadata must not leave the mod Resolving.
	settled := false
	defer func() {
		if !settled {
			m.mu.Lock()
			m.deps = nil
			m.status = dep.StatusFaulted
			m.mu.Unlock()
		}
	}()

	list := m.Declared()
	layout := list.Layout
	entries, err := r.resolve(m, list, opts)

	m.mu.Lock()
	settled = true
	if err != nil {
		m.deps = nil
		m.status = dep.StatusFaulted
		m.mu.Unlock()
		r.cfg.log().Debug("mod resolve failed", "mod", m.key.String(), "error", err)
		return err
	}

	old := m.deps
	m.deps = entries
	m.layout = layout
	m.status = dep.StatusResolved
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	r.cfg.log().Debug("mod resolved", "mod", m.key.String(), "dependencies", len(entries))

	if len(subs) == 0 {
		return nil
	}
	ev := DependenciesChanged{
		Mod:    m,
		Old:    cloneEntries(old),
		New:    cloneEntries(entries),
		Layout: layout,
		Diff:   DiffEntries(old, entries),
	}
	for _, s := range subs {
		s.fn(ev)
	}
	return nil
}

func cloneEntries(entries []dep.Entry) []dep.Entry {
	out := make([]dep.Entry, len(entries))
	copy(out, entries)
	return out
}
