// Package names resolves display names for symbols and caches them.
package names

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Resolver looks a display name up from a remote source.
type Resolver interface {
	ResolveName(ctx context.Context, symbol string) (string, error)
}

// Cache memoises resolved names. It is safe for concurrent use; one Cache is
// owned by each scanner rather than shared process-wide.
type Cache struct {
	mu       sync.RWMutex
	names    map[string]string
	resolver Resolver
	skip     func(symbol string) bool
	log      zerolog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithSkip makes the cache return the symbol itself, without a lookup, for
// symbols where skip reports true.
func WithSkip(skip func(symbol string) bool) Option {
	return func(c *Cache) { c.skip = skip }
}

// WithLogger sets the logger used for failed lookups.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// NewCache returns an empty cache backed by resolver. A nil resolver makes
// every symbol its own name.
func NewCache(resolver Resolver, opts ...Option) *Cache {
	c := &Cache{
		names:    make(map[string]string),
		resolver: resolver,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Name returns the display name for symbol. Failed or empty lookups return
// the symbol and are not cached, so a later call may still succeed.
func (c *Cache) Name(ctx context.Context, symbol string) string {
	c.mu.RLock()
	name, ok := c.names[symbol]
	c.mu.RUnlock()
	if ok {
		return name
	}
	if c.resolver == nil || (c.skip != nil && c.skip(symbol)) {
		return symbol
	}

	name, err := c.resolver.ResolveName(ctx, symbol)
	if err != nil || name == "" {
		c.log.Debug().Err(err).Str("symbol", symbol).Msg("name lookup failed")
		return symbol
	}
	c.Put(symbol, name)
	return name
}

// Put stores a known name, for example one that arrived with a listing.
func (c *Cache) Put(symbol, name string) {
	if name == "" {
		return
	}
	c.mu.Lock()
	c.names[symbol] = name
	c.mu.Unlock()
}

// Len returns the number of cached names.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}
