package modresolve

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/albertocavalcante/go-modresolve/dep"
)

// ChainContainer looks mods up in several containers in order.
//
// Key behaviors:
//  1. Containers are tried in order (first to last).
//  2. The container a key was first found in is remembered and asked first
//     on later lookups of that key.
//  3. Any error from a container falls through to the next one.
//  4. A key found nowhere yields a *dep.NotFoundError naming the chain.
//
// A typical chain puts local mods ahead of workshop mods so local copies win.
type ChainContainer struct {
	containers []dep.Container

	// provider tracks which container last provided each key.
	provider   map[dep.Key]int
	providerMu sync.RWMutex
}

// NewChainContainer creates a chain over containers.
// Returns an error if no containers are provided.
func NewChainContainer(containers ...dep.Container) (*ChainContainer, error) {
	valid := make([]dep.Container, 0, len(containers))
	for _, c := range containers {
		if c != nil {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return nil, errors.New("no containers provided")
	}
	return &ChainContainer{
		containers: valid,
		provider:   make(map[dep.Key]int),
	}, nil
}

// Find implements dep.Container.
func (c *ChainContainer) Find(ref dep.Reference) (dep.Node, error) {
	c.providerMu.RLock()
	idx, known := c.provider[ref.Key]
	c.providerMu.RUnlock()

	if known {
		if n, err := c.containers[idx].Find(ref); err == nil {
			return n, nil
		}
		// The container no longer has it; search the whole chain again.
		c.providerMu.Lock()
		delete(c.provider, ref.Key)
		c.providerMu.Unlock()
	}

	var errs []error
	for i, container := range c.containers {
		n, err := container.Find(ref)
		if err == nil {
			c.providerMu.Lock()
			c.provider[ref.Key] = i
			c.providerMu.Unlock()
			return n, nil
		}
		if !errors.Is(err, dep.ErrNotFound) {
			errs = append(errs, fmt.Errorf("%s: %w", container, err))
		}
	}

	notFound := &dep.NotFoundError{Reference: ref, Container: c}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w (other errors: %w)", notFound, errors.Join(errs...))
	}
	return nil, notFound
}

// Containers returns the containers in lookup order.
func (c *ChainContainer) Containers() []dep.Container {
	out := make([]dep.Container, len(c.containers))
	copy(out, c.containers)
	return out
}

// Provider returns the index of the container that last provided key.
func (c *ChainContainer) Provider(key dep.Key) (int, bool) {
	c.providerMu.RLock()
	defer c.providerMu.RUnlock()
	idx, ok := c.provider[key]
	return idx, ok
}

func (c *ChainContainer) String() string {
	names := make([]string, len(c.containers))
	for i, container := range c.containers {
		names[i] = container.String()
	}
	return "chain [" + strings.Join(names, ", ") + "]"
}
