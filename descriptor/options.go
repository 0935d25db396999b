package descriptor

import (
	"context"
	"errors"
	"log/slog"
)

// DefaultCacheSize is the number of parsed descriptors kept by default.
const DefaultCacheSize = 256

// Option configures a Parser.
type Option func(*parserConfig) error

type parserConfig struct {
	cacheSize int
	logger    *slog.Logger
}

// WithCacheSize sets how many parsed descriptors are cached.
// Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(c *parserConfig) error {
		c.cacheSize = n
		return nil
	}
}

// WithLogger sets a structured logger for skipped and invalid descriptors.
// If not set, logging is disabled (silent mode).
func WithLogger(l *slog.Logger) Option {
	return func(c *parserConfig) error {
		c.logger = l
		return nil
	}
}

func (c *parserConfig) validate() error {
	if c.cacheSize < 0 {
		return errors.New("cache size must not be negative")
	}
	return nil
}

func (c *parserConfig) log() *slog.Logger {
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

func newParserConfig(opts ...Option) (*parserConfig, error) {
	c := &parserConfig{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}
