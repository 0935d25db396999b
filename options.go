package modresolve

import (
	"context"
	"errors"
	"log/slog"

	"github.com/albertocavalcante/go-modresolve/graph"
)

// Option configures a DependencyResolver.
type Option func(*resolverConfig) error

// resolverConfig holds all resolver configuration.
type resolverConfig struct {
	// defaults are the ResolveOptions used by ResolveMod and the
	// package-level helpers.
	defaults ResolveOptions

	// builder builds the graphs used for cycle checks and traversal.
	builder *graph.Builder

	// logger is the structured logger for debug output.
	// If nil, logging is disabled (silent mode).
	//
	// *slog.Logger lets callers plug in any backend through a slog handler.
	logger *slog.Logger
}

// DefaultResolveOptions returns the options used when none are configured:
// cycles are checked and the complete chain is resolved.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{
		CheckForCycle:        true,
		ResolveCompleteChain: true,
	}
}

// WithDefaultOptions sets the ResolveOptions used by ResolveMod.
func WithDefaultOptions(opts ResolveOptions) Option {
	return func(c *resolverConfig) error {
		c.defaults = opts
		return nil
	}
}

// WithBuilder sets the graph builder used for cycle checks and traversal.
func WithBuilder(b *graph.Builder) Option {
	return func(c *resolverConfig) error {
		if b == nil {
			return errors.New("graph builder must not be nil")
		}
		c.builder = b
		return nil
	}
}

// WithLogger sets a structured logger for resolve diagnostics.
// If not set, logging is disabled (silent mode).
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "modresolve")
//	r, err := modresolve.NewDependencyResolver(modresolve.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *resolverConfig) error {
		c.logger = l
		return nil
	}
}

// validate checks the configuration for logical consistency.
func (c *resolverConfig) validate() error {
	if c.builder == nil {
		return errors.New("graph builder is not configured")
	}
	return nil
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *resolverConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newResolverConfig creates a resolver configuration by applying
// the given options and validating the result.
func newResolverConfig(opts ...Option) (*resolverConfig, error) {
	c := &resolverConfig{defaults: DefaultResolveOptions()}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	// The builder shares the resolver's logger unless one was supplied
	// with its own.
	if c.builder == nil {
		c.builder = &graph.Builder{Logger: c.logger}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}
