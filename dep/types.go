package dep

import (
	"fmt"
	"strings"

	"github.com/albertocavalcante/go-modresolve/version"
)

// Kind classifies where a mod comes from.
type Kind int

const (
	// KindDefault is a mod installed alongside the game.
	KindDefault Kind = iota

	// KindWorkshop is a mod obtained from an online workshop.
	KindWorkshop

	// KindVirtual is a mod assembled at runtime from other mods.
	KindVirtual
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindWorkshop:
		return "workshop"
	case KindVirtual:
		return "virtual"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses a kind name case-insensitively.
// An empty string is KindDefault.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return KindDefault, nil
	case "workshop", "workshops":
		return KindWorkshop, nil
	case "virtual":
		return KindVirtual, nil
	default:
		return KindDefault, fmt.Errorf("unknown mod kind %q", s)
	}
}

// Key uniquely identifies a mod.
type Key struct {
	ID   string
	Kind Kind
}

// String returns the key as "id@kind".
func (k Key) String() string {
	return k.ID + "@" + k.Kind.String()
}

// Reference is an unresolved pointer to a mod plus an optional version range.
type Reference struct {
	Key

	// Range is the acceptable version range. Nil accepts every version.
	Range *version.Range
}

// NewReference creates a reference without a version range.
func NewReference(id string, kind Kind) Reference {
	return Reference{Key: Key{ID: id, Kind: kind}}
}

// Equal reports whether both references point at the same mod.
// The version range does not take part in equality.
func (r Reference) Equal(other Reference) bool {
	return r.Key == other.Key
}

// String returns "id@kind" followed by the range, if any.
func (r Reference) String() string {
	if r.Range == nil {
		return r.Key.String()
	}
	return r.Key.String() + " (" + r.Range.String() + ")"
}

// Status is the resolve status of a node.
type Status int

const (
	// StatusNone means the node was never resolved.
	StatusNone Status = iota

	// StatusResolving means a resolve operation is in progress on the node.
	StatusResolving

	// StatusResolved means the node's dependency list can be trusted.
	StatusResolved

	// StatusFaulted means the last resolve failed.
	StatusFaulted
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusResolving:
		return "resolving"
	case StatusResolved:
		return "resolved"
	case StatusFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Layout controls how many levels of a node's dependency chain are expanded.
type Layout int

const (
	// LayoutResolveRecursive expands every direct dependency using its own layout.
	LayoutResolveRecursive Layout = iota

	// LayoutResolveLastItem treats all direct dependencies but the last as
	// leaves and expands the last one using its own layout.
	LayoutResolveLastItem

	// LayoutFullResolved treats all direct dependencies as leaves.
	LayoutFullResolved
)

// Expands reports whether the direct dependency at index (of count) is
// expanded further under this layout.
func (l Layout) Expands(index, count int) bool {
	switch l {
	case LayoutResolveRecursive:
		return true
	case LayoutResolveLastItem:
		return index == count-1
	default:
		return false
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutResolveRecursive:
		return "ResolveRecursive"
	case LayoutResolveLastItem:
		return "ResolveLastItem"
	case LayoutFullResolved:
		return "FullResolved"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseLayout parses a layout name. Both "ResolveLastItem" and
// "resolve_last_item" spellings are accepted; an empty string is
// LayoutResolveRecursive.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "")) {
	case "", "resolverecursive":
		return LayoutResolveRecursive, nil
	case "resolvelastitem":
		return LayoutResolveLastItem, nil
	case "fullresolved":
		return LayoutFullResolved, nil
	default:
		return LayoutResolveRecursive, fmt.Errorf("unknown resolve layout %q", s)
	}
}

// DependencyList is the dependency block a mod declares: the layout and the
// ordered references.
type DependencyList struct {
	Layout     Layout
	References []Reference
}

// Entry is a resolved dependency: the node plus the range it was requested with.
// Equality depends only on the node's key.
type Entry struct {
	Node  Node
	Range *version.Range
}

// Key returns the key of the entry's node.
func (e Entry) Key() Key {
	return e.Node.Key()
}

// Equal reports whether both entries refer to the same mod.
func (e Entry) Equal(other Entry) bool {
	return e.Key() == other.Key()
}

func (e Entry) String() string {
	if e.Range == nil {
		return e.Key().String()
	}
	return e.Key().String() + " (" + e.Range.String() + ")"
}

// Keys returns the keys of entries, in order.
func Keys(entries []Entry) []Key {
	keys := make([]Key, len(entries))
	for i, e := range entries {
		keys[i] = e.Key()
	}
	return keys
}

// Node is a resolvable mod as seen by the graph builder, resolver and traverser.
type Node interface {
	Key() Key
	Name() string

	// Version returns the mod version, or nil when unset.
	Version() *version.Version

	// Declared returns the declared dependency block, read from metadata.
	Declared() DependencyList

	Status() Status

	// Layout returns the layout of the last successful resolve, or the
	// declared layout when the node is not resolved.
	Layout() Layout

	// Dependencies returns a copy of the resolved direct dependencies in
	// declaration order. Only meaningful when Status is StatusResolved.
	Dependencies() []Entry

	// Container returns the container that owns the node. It may be nil.
	Container() Container
}

// Container maps references to live nodes.
type Container interface {
	// Find returns the node for ref or a *NotFoundError.
	Find(ref Reference) (Node, error)

	// String names the container in error messages.
	String() string
}

// Metadata supplies a node's declared dependencies on demand.
type Metadata interface {
	DependencyList() DependencyList
}

// StaticMetadata is Metadata backed by a fixed dependency list.
type StaticMetadata DependencyList

// DependencyList returns a copy of the list.
func (m StaticMetadata) DependencyList() DependencyList {
	refs := make([]Reference, len(m.References))
	copy(refs, m.References)
	return DependencyList{Layout: m.Layout, References: refs}
}
