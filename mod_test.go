package modresolve

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/go-modresolve/dep"
)

func TestNewMod(t *testing.T) {
	m, err := NewMod("123", dep.KindWorkshop, ModInfo{Name: "Better UI", Version: "1.2.0"})
	if err != nil {
		t.Fatalf("NewMod() error = %v", err)
	}
	if got, want := m.Key(), (dep.Key{ID: "123", Kind: dep.KindWorkshop}); got != want {
		t.Errorf("Key() = %v, want %v", got, want)
	}
	if m.Name() != "Better UI" {
		t.Errorf("Name() = %q, want Better UI", m.Name())
	}
	if m.Version().String() != "1.2.0" {
		t.Errorf("Version() = %v, want 1.2.0", m.Version())
	}
	if m.Status() != dep.StatusNone {
		t.Errorf("Status() = %v, want none", m.Status())
	}

	unnamed := MustMod("core", dep.KindDefault, ModInfo{})
	if unnamed.Name() != "core" {
		t.Errorf("Name() = %q, want the id", unnamed.Name())
	}
	if unnamed.Version() != nil {
		t.Errorf("Version() = %v, want nil", unnamed.Version())
	}

	if _, err := NewMod("", dep.KindDefault, ModInfo{}); err == nil {
		t.Error("NewMod() with empty id should fail")
	}
	if _, err := NewMod("x", dep.KindDefault, ModInfo{Version: "not a version"}); err == nil {
		t.Error("NewMod() with bad version should fail")
	}
}

func TestMod_ResolveWithoutDependencies(t *testing.T) {
	a := recursive(t, "A")
	newTestRegistry(a)

	if err := a.Resolve(newTestResolver(t), fullChecks); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if a.Status() != dep.StatusResolved {
		t.Errorf("Status() = %v, want resolved", a.Status())
	}
	if got := a.Dependencies(); len(got) != 0 {
		t.Errorf("Dependencies() = %v, want empty", got)
	}
}

func TestMod_ResolveReflectsLatestContainer(t *testing.T) {
	a := recursive(t, "A", "B")
	b1 := newMod(t, "B", "1.0.0", dep.LayoutResolveRecursive)
	reg := newTestRegistry(a, b1)
	r := newTestResolver(t)

	if err := a.Resolve(r, fullChecks); err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	if got := a.Dependencies()[0].Node; got != b1 {
		t.Fatalf("first resolve picked %v, want the first B", got)
	}

	b2 := newMod(t, "B", "2.0.0", dep.LayoutResolveRecursive)
	reg.Add(b2)
	if err := a.Resolve(r, fullChecks); err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if got := a.Dependencies()[0].Node; got != b2 {
		t.Errorf("second resolve picked %v, want the replacement B", got)
	}

	reg.Remove(dep.Key{ID: "B"})
	err := a.Resolve(r, fullChecks)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("third Resolve() error = %v, want ErrNotFound", err)
	}
	if a.Status() != dep.StatusFaulted {
		t.Errorf("Status() = %v, want faulted", a.Status())
	}
	if got := a.Dependencies(); len(got) != 0 {
		t.Errorf("Dependencies() = %v, want empty after failure", got)
	}
}

func TestMod_SelfDependency(t *testing.T) {
	a := recursive(t, "A", "A")
	newTestRegistry(a)

	err := a.Resolve(newTestResolver(t), ResolveOptions{CheckForCycle: true})
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Resolve() error = %v, want ErrCycle", err)
	}
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("error should be *CycleError, got %T", err)
	}
	if cycleErr.Source != dep.Node(a) || cycleErr.Dependency != dep.Node(a) {
		t.Errorf("CycleError = %v -> %v, want A -> A", cycleErr.Source, cycleErr.Dependency)
	}
	if a.Status() != dep.StatusFaulted {
		t.Errorf("Status() = %v, want faulted", a.Status())
	}
	if got := a.Dependencies(); len(got) != 0 {
		t.Errorf("Dependencies() = %v, want empty", got)
	}
}

// reentrantContainer resolves target again from inside a lookup.
type reentrantContainer struct {
	*Registry
	target   *Mod
	resolver *DependencyResolver
	innerErr error
}

func (c *reentrantContainer) Find(ref dep.Reference) (dep.Node, error) {
	c.innerErr = c.target.Resolve(c.resolver, ResolveOptions{})
	if c.innerErr != nil {
		return nil, c.innerErr
	}
	return c.Registry.Find(ref)
}

func TestMod_ReentrantResolve(t *testing.T) {
	a := recursive(t, "A", "B")
	b := recursive(t, "B")
	reg := newTestRegistry(a, b)
	r := newTestResolver(t)

	c := &reentrantContainer{Registry: reg, target: a, resolver: r}
	a.SetContainer(c)

	err := a.Resolve(r, ResolveOptions{})

	var inner *CycleError
	if !errors.As(c.innerErr, &inner) {
		t.Fatalf("reentrant Resolve() error = %v, want *CycleError", c.innerErr)
	}
	if inner.Source != dep.Node(a) || inner.Dependency != dep.Node(a) {
		t.Errorf("CycleError = %v -> %v, want A -> A", inner.Source, inner.Dependency)
	}
	if !errors.Is(err, ErrCycle) {
		t.Errorf("outer Resolve() error = %v, want ErrCycle", err)
	}
	if a.Status() != dep.StatusFaulted {
		t.Errorf("Status() = %v, want faulted", a.Status())
	}
}

func TestMod_Layout(t *testing.T) {
	a := withLayout(t, "A", dep.LayoutFullResolved)
	newTestRegistry(a)

	if a.Layout() != dep.LayoutFullResolved {
		t.Errorf("Layout() = %v, want declared FullResolved", a.Layout())
	}
	if err := a.Resolve(newTestResolver(t), fullChecks); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	a.SetMetadata(dep.StaticMetadata{Layout: dep.LayoutResolveLastItem})
	if a.Layout() != dep.LayoutFullResolved {
		t.Errorf("Layout() = %v, want resolved FullResolved until the next resolve", a.Layout())
	}
	if err := a.Resolve(newTestResolver(t), fullChecks); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if a.Layout() != dep.LayoutResolveLastItem {
		t.Errorf("Layout() = %v, want ResolveLastItem", a.Layout())
	}
}

func TestMod_DependenciesReturnsCopy(t *testing.T) {
	a := recursive(t, "A", "B")
	b := recursive(t, "B")
	newTestRegistry(a, b)
	if err := a.Resolve(newTestResolver(t), fullChecks); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	deps := a.Dependencies()
	deps[0] = dep.Entry{Node: a}
	if a.Dependencies()[0].Node != dep.Node(b) {
		t.Error("Dependencies() should return a copy")
	}
}

func TestMod_Subscribe(t *testing.T) {
	a := recursive(t, "A", "B")
	b1 := newMod(t, "B", "1.0.0", dep.LayoutResolveRecursive)
	reg := newTestRegistry(a, b1)
	r := newTestResolver(t)

	var events []DependenciesChanged
	unsubscribe := a.Subscribe(func(ev DependenciesChanged) {
		events = append(events, ev)
	})

	if err := a.Resolve(r, fullChecks); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Mod != a {
		t.Errorf("event mod = %v, want A", ev.Mod)
	}
	if len(ev.Old) != 0 {
		t.Errorf("Old = %v, want empty", ev.Old)
	}
	if diff := cmp.Diff(keys("B"), dep.Keys(ev.New)); diff != "" {
		t.Errorf("New mismatch (-want +got):\n%s", diff)
	}
	if ev.Layout != dep.LayoutResolveRecursive {
		t.Errorf("Layout = %v, want ResolveRecursive", ev.Layout)
	}
	if len(ev.Diff.Added) != 1 || ev.Diff.Added[0].Key.ID != "B" {
		t.Errorf("Diff.Added = %+v, want [B]", ev.Diff.Added)
	}

	reg.Add(newMod(t, "B", "1.1.0", dep.LayoutResolveRecursive))
	if err := a.Resolve(r, fullChecks); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if up := events[1].Diff.Upgraded; len(up) != 1 || up[0].OldVersion != "1.0.0" || up[0].NewVersion != "1.1.0" {
		t.Errorf("Diff.Upgraded = %+v, want B 1.0.0 -> 1.1.0", up)
	}

	// Failures do not notify.
	reg.Remove(dep.Key{ID: "B"})
	if err := a.Resolve(r, fullChecks); err == nil {
		t.Fatal("Resolve() should fail without B")
	}
	if len(events) != 2 {
		t.Errorf("got %d events after a failed resolve, want 2", len(events))
	}

	unsubscribe()
	unsubscribe()
	reg.Add(b1)
	if err := a.Resolve(r, fullChecks); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events after unsubscribe, want 2", len(events))
	}
}

func TestMod_SubscriberSeesResolvedState(t *testing.T) {
	a := recursive(t, "A")
	newTestRegistry(a)

	var status dep.Status
	a.Subscribe(func(ev DependenciesChanged) {
		status = ev.Mod.Status()
	})
	if err := a.Resolve(newTestResolver(t), fullChecks); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if status != dep.StatusResolved {
		t.Errorf("status seen by subscriber = %v, want resolved", status)
	}
}

func TestMod_ResolveNilResolver(t *testing.T) {
	a := recursive(t, "A")
	if err := a.Resolve(nil, ResolveOptions{}); err == nil {
		t.Error("Resolve(nil) should fail")
	}
	if a.Status() != dep.StatusNone {
		t.Errorf("Status() = %v, want none", a.Status())
	}
}

// panickingContainer panics on every lookup.
type panickingContainer struct{}

func (panickingContainer) Find(dep.Reference) (dep.Node, error) { panic("container unavailable") }
func (panickingContainer) String() string                       { return "broken" }

func TestMod_ResolvePanicLeavesFaulted(t *testing.T) {
	a := recursive(t, "A", "B")
	b := recursive(t, "B")
	reg := newTestRegistry(a, b)
	r := newTestResolver(t)

	a.SetContainer(panickingContainer{})
	func() {
		defer func() {
			if recover() == nil {
				t.Error("Resolve() should propagate the container panic")
			}
		}()
		_ = a.Resolve(r, fullChecks)
	}()

	if a.Status() != dep.StatusFaulted {
		t.Errorf("Status() after panic = %v, want faulted", a.Status())
	}
	if got := a.Dependencies(); len(got) != 0 {
		t.Errorf("Dependencies() after panic = %v, want empty", got)
	}

	a.SetContainer(reg)
	if err := a.Resolve(r, fullChecks); err != nil {
		t.Fatalf("Resolve() after fixing the container error = %v", err)
	}
	if diff := cmp.Diff(keys("B"), dep.Keys(a.Dependencies())); diff != "" {
		t.Errorf("Dependencies() mismatch (-want +got):\n%s", diff)
	}
}

// sequenceMetadata returns the next list on every read, repeating the last.
type sequenceMetadata struct {
	lists []dep.DependencyList
	reads int
}

func (m *sequenceMetadata) DependencyList() dep.DependencyList {
	i := min(m.reads, len(m.lists)-1)
	m.reads++
	return m.lists[i]
}

func TestMod_ResolveReadsDeclaredOnce(t *testing.T) {
	a := recursive(t, "A")
	b := recursive(t, "B")
	c := recursive(t, "C")
	newTestRegistry(a, b, c)

	meta := &sequenceMetadata{lists: []dep.DependencyList{
		{Layout: dep.LayoutFullResolved, References: []dep.Reference{ref("B")}},
		{Layout: dep.LayoutResolveLastItem, References: []dep.Reference{ref("C")}},
	}}
	a.SetMetadata(meta)

	if err := a.Resolve(newTestResolver(t), ResolveOptions{}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.reads != 1 {
		t.Errorf("metadata read %d times, want 1", meta.reads)
	}
	if a.Layout() != dep.LayoutFullResolved {
		t.Errorf("Layout() = %v, want FullResolved", a.Layout())
	}
	if diff := cmp.Diff(keys("B"), dep.Keys(a.Dependencies())); diff != "" {
		t.Errorf("Dependencies() mismatch (-want +got):\n%s", diff)
	}
}
