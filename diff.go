package modresolve

import (
	"sort"

	"github.com/albertocavalcante/go-modresolve/dep"
	"github.com/albertocavalcante/go-modresolve/version"
)

// EntryChange is an added or removed dependency.
type EntryChange struct {
	// Key identifies the mod.
	Key dep.Key `json:"key"`

	// Version is the mod version, "_" when unset.
	Version string `json:"version"`
}

// EntryUpgrade is a dependency whose mod changed version.
type EntryUpgrade struct {
	// Key identifies the mod.
	Key dep.Key `json:"key"`

	// OldVersion is the version in the old list.
	OldVersion string `json:"old_version"`

	// NewVersion is the version in the new list.
	NewVersion string `json:"new_version"`
}

// EntryDiff describes the differences between two dependency lists.
//
// Example usage:
//
//	before := mod.Dependencies()
//	_ = mod.Resolve(resolver, opts)
//	diff := DiffEntries(before, mod.Dependencies())
//
//	if !diff.IsEmpty() {
//	    fmt.Printf("%d added, %d removed\n", len(diff.Added), len(diff.Removed))
//	}
type EntryDiff struct {
	// Added contains mods present in new but not in old.
	Added []EntryChange `json:"added,omitempty"`

	// Removed contains mods present in old but not in new.
	Removed []EntryChange `json:"removed,omitempty"`

	// Upgraded contains mods whose new version is higher.
	Upgraded []EntryUpgrade `json:"upgraded,omitempty"`

	// Downgraded contains mods whose new version is lower.
	Downgraded []EntryUpgrade `json:"downgraded,omitempty"`
}

// IsEmpty returns true if there are no differences between the lists.
func (d *EntryDiff) IsEmpty() bool {
	return len(d.Added) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Upgraded) == 0 &&
		len(d.Downgraded) == 0
}

// TotalChanges returns the total number of changes.
func (d *EntryDiff) TotalChanges() int {
	return len(d.Added) + len(d.Removed) + len(d.Upgraded) + len(d.Downgraded)
}

// DiffEntries compares two dependency lists by mod key. Versions are
// compared with semantic version ordering; an unset version sorts after any
// set one. Results are sorted by key.
func DiffEntries(old, new []dep.Entry) *EntryDiff {
	diff := &EntryDiff{}

	oldVersions := make(map[dep.Key]*version.Version, len(old))
	for _, e := range old {
		oldVersions[e.Key()] = e.Node.Version()
	}
	newVersions := make(map[dep.Key]*version.Version, len(new))
	for _, e := range new {
		newVersions[e.Key()] = e.Node.Version()
	}

	for key, newVersion := range newVersions {
		oldVersion, existedBefore := oldVersions[key]
		if !existedBefore {
			diff.Added = append(diff.Added, EntryChange{Key: key, Version: version.String(newVersion)})
			continue
		}
		switch c := version.Compare(newVersion, oldVersion); {
		case c > 0:
			diff.Upgraded = append(diff.Upgraded, EntryUpgrade{
				Key:        key,
				OldVersion: version.String(oldVersion),
				NewVersion: version.String(newVersion),
			})
		case c < 0:
			diff.Downgraded = append(diff.Downgraded, EntryUpgrade{
				Key:        key,
				OldVersion: version.String(oldVersion),
				NewVersion: version.String(newVersion),
			})
		}
	}

	for key, oldVersion := range oldVersions {
		if _, existsNow := newVersions[key]; !existsNow {
			diff.Removed = append(diff.Removed, EntryChange{Key: key, Version: version.String(oldVersion)})
		}
	}

	sortChanges(diff.Added)
	sortChanges(diff.Removed)
	sortUpgrades(diff.Upgraded)
	sortUpgrades(diff.Downgraded)

	return diff
}

func sortChanges(changes []EntryChange) {
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Key.String() < changes[j].Key.String()
	})
}

func sortUpgrades(upgrades []EntryUpgrade) {
	sort.Slice(upgrades, func(i, j int) bool {
		return upgrades[i].Key.String() < upgrades[j].Key.String()
	})
}
