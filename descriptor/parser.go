package descriptor

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bazelbuild/buildtools/build"
	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"

	"github.com/albertocavalcante/go-modresolve/internal/buildutil"
)

// Format is a descriptor file format.
type Format int

const (
	// FormatStarlark is a MOD.star file with mod() and mod_dep() calls.
	FormatStarlark Format = iota

	// FormatYAML is a modinfo.yaml file. JSON files are read as YAML.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatStarlark:
		return "starlark"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// FileNames are the descriptor file names looked for in a mod directory,
// in priority order.
var FileNames = []string{"MOD.star", "modinfo.yaml", "modinfo.yml", "modinfo.json"}

// DetectFormat returns the format of a descriptor file from its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".star", ".bzl", ".bazel":
		return FormatStarlark, nil
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	default:
		return 0, &ParseError{Path: path, Err: ErrUnknownFormat}
	}
}

// Parser parses descriptor files. Parsed descriptors are cached by format
// and content digest, so identical files are only parsed once.
// It is safe for concurrent use.
type Parser struct {
	cfg   *parserConfig
	cache *lru.Cache[string, *Descriptor]
}

// NewParser creates a parser configured by opts.
func NewParser(opts ...Option) (*Parser, error) {
	cfg, err := newParserConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid parser options: %w", err)
	}
	p := &Parser{cfg: cfg}
	if cfg.cacheSize > 0 {
		p.cache, err = lru.New[string, *Descriptor](cfg.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create descriptor cache: %w", err)
		}
	}
	return p, nil
}

// ParseFile reads and parses the descriptor at path.
func (p *Parser) ParseFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return p.Parse(path, data)
}

// Parse parses data in the format implied by path.
func (p *Parser) Parse(path string, data []byte) (*Descriptor, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return p.ParseFormat(format, path, data)
}

// ParseFormat parses data as format. path is only used in errors and
// recorded in the result.
func (p *Parser) ParseFormat(format Format, path string, data []byte) (*Descriptor, error) {
	key := cacheKey(format, data)
	if p.cache != nil {
		if d, ok := p.cache.Get(key); ok {
			c := d.clone()
			c.Path = path
			return c, nil
		}
	}

	var d *Descriptor
	var err error
	switch format {
	case FormatStarlark:
		d, err = p.parseStarlark(path, data)
	case FormatYAML:
		d, err = parseYAML(path, data)
	default:
		err = &ParseError{Path: path, Err: ErrUnknownFormat}
	}
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		p.cache.Add(key, d.clone())
	}
	return d, nil
}

// CacheLen returns the number of cached descriptors.
func (p *Parser) CacheLen() int {
	if p.cache == nil {
		return 0
	}
	return p.cache.Len()
}

func cacheKey(format Format, data []byte) string {
	sum := sha256.Sum256(data)
	return format.String() + ":" + hex.EncodeToString(sum[:])
}

func (p *Parser) parseStarlark(path string, data []byte) (*Descriptor, error) {
	f, err := build.ParseModule(path, data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	d := &Descriptor{Path: path}
	declared := false
	for _, call := range buildutil.Calls(f) {
		isMod, isDep := buildutil.IsFuncCall(call, "mod"), buildutil.IsFuncCall(call, "mod_dep")
		if (isMod || isDep) && ambiguousID(call) {
			return nil, &ParseError{Path: path, Line: buildutil.Line(call),
				Err: fmt.Errorf("%s: id given both by position and by keyword", buildutil.FuncName(call))}
		}

		switch {
		case isMod:
			if declared {
				return nil, &ParseError{Path: path, Line: buildutil.Line(call), Err: errors.New("mod() declared more than once")}
			}
			declared = true
			d.ID = buildutil.StringOrPositional(call, "id")
			d.Name = buildutil.String(call, "name")
			d.Kind = buildutil.String(call, "kind")
			d.Version = buildutil.String(call, "version")
			d.Layout = buildutil.String(call, "layout")
			for _, id := range buildutil.StringList(call, "dependencies") {
				d.Dependencies = append(d.Dependencies, Dependency{ID: id})
			}

		case isDep:
			dd := Dependency{
				ID:      buildutil.StringOrPositional(call, "id"),
				Kind:    buildutil.String(call, "kind"),
				Version: buildutil.String(call, "version"),
			}
			if dd.ID == "" {
				return nil, &ParseError{Path: path, Line: buildutil.Line(call), Err: fmt.Errorf("mod_dep: %w", ErrMissingID)}
			}
			d.Dependencies = append(d.Dependencies, dd)

		default:
			p.cfg.log().Debug("ignoring unknown descriptor call",
				"path", path, "line", buildutil.Line(call), "func", buildutil.FuncName(call))
		}
	}

	if !declared {
		return nil, &ParseError{Path: path, Err: errors.New("no mod() declaration")}
	}
	return d, nil
}

// ambiguousID reports whether call passes a positional string and an id
// keyword at the same time.
func ambiguousID(call *build.CallExpr) bool {
	return buildutil.Has(call, "id") && buildutil.String(call, "") != ""
}

func parseYAML(path string, data []byte) (*Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: path, Err: errors.New("empty descriptor")}
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	for i, dd := range d.Dependencies {
		if dd.ID == "" {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("dependency %d: %w", i, ErrMissingID)}
		}
	}
	d.Path = path
	return &d, nil
}
