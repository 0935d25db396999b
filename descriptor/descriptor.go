// Package descriptor reads mod descriptor files and turns them into mods.
//
// Two formats are supported. A Starlark MOD.star file:
//
//	mod(
//	    id = "better_ui",
//	    name = "Better UI",
//	    kind = "workshop",
//	    version = "1.2.0",
//	    layout = "ResolveLastItem",
//	)
//
//	mod_dep(id = "core", version = ">=2.0")
//	mod_dep("fonts")
//
// and a modinfo.yaml (or modinfo.json) file with the same fields:
//
//	id: better_ui
//	version: 1.2.0
//	layout: ResolveLastItem
//	dependencies:
//	  - id: core
//	    version: ">=2.0"
//	  - id: fonts
//
// Dependencies keep their declared order. Parsed descriptors are cached by
// content digest.
package descriptor

import (
	"errors"
	"fmt"

	modresolve "github.com/albertocavalcante/go-modresolve"
	"github.com/albertocavalcante/go-modresolve/dep"
	"github.com/albertocavalcante/go-modresolve/version"
)

// Errors returned while parsing descriptors.
var (
	// ErrUnknownFormat indicates a file name that is not a known descriptor.
	ErrUnknownFormat = errors.New("unknown descriptor format")

	// ErrMissingID indicates a descriptor or dependency without an id.
	ErrMissingID = errors.New("missing mod id")
)

// Descriptor is the parsed content of a descriptor file.
type Descriptor struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name,omitempty"`
	Kind         string       `yaml:"kind,omitempty"`
	Version      string       `yaml:"version,omitempty"`
	Layout       string       `yaml:"layout,omitempty"`
	Dependencies []Dependency `yaml:"dependencies,omitempty"`

	// Path is the file the descriptor was read from, if any.
	Path string `yaml:"-"`
}

// Dependency is a declared reference to another mod.
type Dependency struct {
	ID      string `yaml:"id"`
	Kind    string `yaml:"kind,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// ParseError reports a descriptor that could not be read or interpreted.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reference converts the dependency to a dep.Reference.
func (d Dependency) Reference() (dep.Reference, error) {
	if d.ID == "" {
		return dep.Reference{}, ErrMissingID
	}
	kind, err := dep.ParseKind(d.Kind)
	if err != nil {
		return dep.Reference{}, fmt.Errorf("dependency %s: %w", d.ID, err)
	}
	rng, err := version.ParseRange(d.Version)
	if err != nil {
		return dep.Reference{}, fmt.Errorf("dependency %s: %w", d.ID, err)
	}
	ref := dep.NewReference(d.ID, kind)
	ref.Range = rng
	return ref, nil
}

// DependencyList converts the declared dependencies and layout.
func (d *Descriptor) DependencyList() (dep.DependencyList, error) {
	layout, err := dep.ParseLayout(d.Layout)
	if err != nil {
		return dep.DependencyList{}, err
	}
	refs := make([]dep.Reference, 0, len(d.Dependencies))
	for _, dd := range d.Dependencies {
		ref, err := dd.Reference()
		if err != nil {
			return dep.DependencyList{}, err
		}
		refs = append(refs, ref)
	}
	return dep.DependencyList{Layout: layout, References: refs}, nil
}

// ModInfo converts the descriptor to the information a mod is created from.
func (d *Descriptor) ModInfo() (modresolve.ModInfo, error) {
	list, err := d.DependencyList()
	if err != nil {
		return modresolve.ModInfo{}, err
	}
	return modresolve.ModInfo{
		Name:         d.Name,
		Version:      d.Version,
		Dependencies: list,
	}, nil
}

// Mod creates an unresolved mod from the descriptor.
func (d *Descriptor) Mod() (*modresolve.Mod, error) {
	if d.ID == "" {
		return nil, d.wrap(ErrMissingID)
	}
	kind, err := dep.ParseKind(d.Kind)
	if err != nil {
		return nil, d.wrap(err)
	}
	info, err := d.ModInfo()
	if err != nil {
		return nil, d.wrap(err)
	}
	m, err := modresolve.NewMod(d.ID, kind, info)
	if err != nil {
		return nil, d.wrap(err)
	}
	return m, nil
}

func (d *Descriptor) wrap(err error) error {
	if d.Path == "" {
		return err
	}
	return &ParseError{Path: d.Path, Err: err}
}

func (d *Descriptor) clone() *Descriptor {
	c := *d
	c.Dependencies = append([]Dependency(nil), d.Dependencies...)
	return &c
}
