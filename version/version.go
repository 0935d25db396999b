// Package version implements mod version parsing and version range checks.
//
// Versions follow semantic versioning, leniently: "1", "1.2" and "v1.2.3" are
// accepted and normalized. Ranges use the usual comparison syntax, for
// example ">=2.0", "^1.4", ">=1.0, <3.0" or "1.x || 2.x".
//
// An unset version (nil) and an unset range (nil) are both meaningful: a nil
// range accepts everything, and a nil version satisfies every range.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is an alias for semver.Version so callers need not import semver.
type Version = semver.Version

// ParseError represents a version or range parsing error.
type ParseError struct {
	Input string
	What  string
	Err   error
}

func (e *ParseError) Error() string {
	return "bad " + e.What + " " + e.Input + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse parses a version string. An empty string yields a nil version.
func Parse(s string) (*Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, &ParseError{Input: s, What: "version", Err: err}
	}
	return v, nil
}

// MustParse parses a version or panics. Use only for constants/tests.
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare compares two versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
// An unset version sorts after every set version.
func Compare(a, b *Version) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(b)
}

// String renders a possibly unset version.
func String(v *Version) string {
	if v == nil {
		return "_"
	}
	return v.Original()
}

// Range is an acceptable set of versions declared by a dependency reference.
type Range struct {
	raw         string
	constraints *semver.Constraints
}

// ParseRange parses a version range. An empty string yields a nil range.
func ParseRange(s string) (*Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, &ParseError{Input: s, What: "version range", Err: err}
	}
	return &Range{raw: s, constraints: c}, nil
}

// MustRange parses a range or panics. Use only for constants/tests.
func MustRange(s string) *Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the range as it was written.
func (r *Range) String() string {
	if r == nil {
		return ""
	}
	return r.raw
}

// Contains reports whether v satisfies the range.
// A nil range accepts every version and a nil version satisfies every range.
func (r *Range) Contains(v *Version) bool {
	if r == nil || v == nil {
		return true
	}
	return r.constraints.Check(v)
}
