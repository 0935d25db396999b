package descriptor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	modresolve "github.com/albertocavalcante/go-modresolve"
)

// FindDescriptor returns the descriptor file in dir, trying FileNames in order.
func FindDescriptor(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadFile parses the descriptor at path and adds its mod to reg.
func (p *Parser) LoadFile(path string, reg *modresolve.Registry) (*modresolve.Mod, error) {
	d, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return p.add(d, reg)
}

// LoadDir loads every mod directory directly under dir into reg, in
// directory name order. A descriptor without an id takes the name of its
// directory. Directories without a descriptor are skipped.
//
// Invalid descriptors and duplicate mods are logged and skipped; their
// errors are joined into the returned error while the valid mods are still
// registered and returned.
func (p *Parser) LoadDir(dir string, reg *modresolve.Registry) ([]*modresolve.Mod, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read mod directory: %w", err)
	}

	log := p.cfg.log()
	var mods []*modresolve.Mod
	var errs []error
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		path, ok := FindDescriptor(sub)
		if !ok {
			log.Debug("skipping directory without descriptor", "dir", sub)
			continue
		}

		d, err := p.ParseFile(path)
		if err != nil {
			log.Warn("skipping invalid mod descriptor", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		if d.ID == "" {
			d.ID = e.Name()
		}

		m, err := p.add(d, reg)
		if err != nil {
			log.Warn("skipping mod", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		mods = append(mods, m)
	}

	return mods, errors.Join(errs...)
}

func (p *Parser) add(d *Descriptor, reg *modresolve.Registry) (*modresolve.Mod, error) {
	m, err := d.Mod()
	if err != nil {
		return nil, err
	}
	if _, exists := reg.Get(m.Key()); exists {
		return nil, d.wrap(fmt.Errorf("duplicate mod %s in %s", m.Key(), reg))
	}
	reg.Add(m)
	return m, nil
}
