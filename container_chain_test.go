package modresolve

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/go-modresolve/dep"
)

// failingContainer fails every lookup with err.
type failingContainer struct {
	err error
}

func (c failingContainer) Find(dep.Reference) (dep.Node, error) { return nil, c.err }
func (c failingContainer) String() string                       { return "failing" }

func TestNewChainContainer(t *testing.T) {
	if _, err := NewChainContainer(); err == nil {
		t.Error("NewChainContainer() with no containers should fail")
	}
	if _, err := NewChainContainer(nil, nil); err == nil {
		t.Error("NewChainContainer() with only nil containers should fail")
	}
}

func TestChainContainer_FirstMatchWins(t *testing.T) {
	localB := newMod(t, "B", "2.0.0", dep.LayoutResolveRecursive)
	workshopB := newMod(t, "B", "1.0.0", dep.LayoutResolveRecursive)
	c := recursive(t, "C")

	local := NewRegistry("local")
	local.Add(localB)
	workshop := NewRegistry("workshop")
	workshop.Add(workshopB, c)

	chain, err := NewChainContainer(local, workshop)
	if err != nil {
		t.Fatalf("NewChainContainer() error = %v", err)
	}

	got, err := chain.Find(ref("B"))
	if err != nil {
		t.Fatalf("Find(B) error = %v", err)
	}
	if got != dep.Node(localB) {
		t.Errorf("Find(B) = %v, want the local B", got)
	}

	got, err = chain.Find(ref("C"))
	if err != nil {
		t.Fatalf("Find(C) error = %v", err)
	}
	if got != dep.Node(c) {
		t.Errorf("Find(C) = %v, want C from workshop", got)
	}
	if idx, ok := chain.Provider(dep.Key{ID: "C"}); !ok || idx != 1 {
		t.Errorf("Provider(C) = %d, %v, want 1, true", idx, ok)
	}
}

func TestChainContainer_ProviderFallsBackWhenRemoved(t *testing.T) {
	localB := recursive(t, "B")
	workshopB := recursive(t, "B")
	local := newTestRegistry(localB)
	workshop := NewRegistry("workshop")
	workshop.Add(workshopB)

	chain, _ := NewChainContainer(local, workshop)
	if _, err := chain.Find(ref("B")); err != nil {
		t.Fatalf("Find(B) error = %v", err)
	}

	local.Remove(localB.Key())
	got, err := chain.Find(ref("B"))
	if err != nil {
		t.Fatalf("Find(B) after removal error = %v", err)
	}
	if got != dep.Node(workshopB) {
		t.Errorf("Find(B) = %v, want the workshop B", got)
	}
	if idx, _ := chain.Provider(dep.Key{ID: "B"}); idx != 1 {
		t.Errorf("Provider(B) = %d, want 1", idx)
	}
}

func TestChainContainer_NotFound(t *testing.T) {
	local := NewRegistry("local")
	workshop := NewRegistry("workshop")
	chain, _ := NewChainContainer(local, workshop)

	_, err := chain.Find(ref("X"))
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Find(X) error = %v, want *NotFoundError", err)
	}
	if nf.Container != dep.Container(chain) {
		t.Errorf("NotFoundError.Container = %v, want the chain", nf.Container)
	}
	if want := "chain [registry local, registry workshop]"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q should mention %q", err, want)
	}
}

func TestChainContainer_OtherErrorsFallThrough(t *testing.T) {
	boom := errors.New("disk unreadable")
	b := recursive(t, "B")
	chain, _ := NewChainContainer(failingContainer{err: boom}, newTestRegistry(b))

	got, err := chain.Find(ref("B"))
	if err != nil {
		t.Fatalf("Find(B) error = %v", err)
	}
	if got != dep.Node(b) {
		t.Errorf("Find(B) = %v, want B", got)
	}

	_, err = chain.Find(ref("X"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(X) error = %v, want ErrNotFound", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Find(X) error = %v, should carry the container failure", err)
	}
}

func TestChainContainer_ResolveAcrossContainers(t *testing.T) {
	a := recursive(t, "A", "B", "C")
	b := recursive(t, "B")
	c := recursive(t, "C")
	local := newTestRegistry(a, b)
	workshop := NewRegistry("workshop")
	workshop.Add(c)

	chain, _ := NewChainContainer(local, workshop)
	a.SetContainer(chain)

	if err := a.Resolve(newTestResolver(t), fullChecks); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if diff := cmp.Diff(keys("B", "C"), dep.Keys(a.Dependencies())); diff != "" {
		t.Errorf("Dependencies() mismatch (-want +got):\n%s", diff)
	}
}
