package modresolve

import (
	"sync"

	"github.com/albertocavalcante/go-modresolve/dep"
)

// Registry is an in-memory container of mods.
// It is safe for concurrent use.
type Registry struct {
	name string

	mu    sync.RWMutex
	mods  map[dep.Key]*Mod
	order []dep.Key
}

// NewRegistry creates an empty registry. name identifies it in errors.
func NewRegistry(name string) *Registry {
	return &Registry{
		name: name,
		mods: make(map[dep.Key]*Mod),
	}
}

// Add registers mods and makes the registry their container. A mod with
// the same key as a registered one replaces it in place.
func (r *Registry) Add(mods ...*Mod) {
	r.mu.Lock()
	for _, m := range mods {
		if _, exists := r.mods[m.Key()]; !exists {
			r.order = append(r.order, m.Key())
		}
		r.mods[m.Key()] = m
	}
	r.mu.Unlock()

	for _, m := range mods {
		m.SetContainer(r)
	}
}

// Remove unregisters the mod with key and reports whether it was present.
func (r *Registry) Remove(key dep.Key) bool {
	r.mu.Lock()
	m, ok := r.mods[key]
	if ok {
		delete(r.mods, key)
		for i, k := range r.order {
			if k == key {
				r.order = append(r.order[:i:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	if ok && m.Container() == dep.Container(r) {
		m.SetContainer(nil)
	}
	return ok
}

// Get returns the mod registered under key.
func (r *Registry) Get(key dep.Key) (*Mod, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mods[key]
	return m, ok
}

// Find implements dep.Container.
func (r *Registry) Find(ref dep.Reference) (dep.Node, error) {
	m, ok := r.Get(ref.Key)
	if !ok {
		return nil, &dep.NotFoundError{Reference: ref, Container: r}
	}
	return m, nil
}

// Mods returns the registered mods in registration order.
func (r *Registry) Mods() []*Mod {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Mod, len(r.order))
	for i, k := range r.order {
		out[i] = r.mods[k]
	}
	return out
}

// Len returns the number of registered mods.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mods)
}

func (r *Registry) String() string {
	return "registry " + r.name
}
