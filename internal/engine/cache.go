package engine

import (
	"sync"
	"sync/atomic"

	"go.trai.ch/derive/internal/core/domain"
)

// Cache is a session-scoped, grow-only memo of resolved values.
// It is safe for concurrent use by the branches of one session.
type Cache struct {
	entries sync.Map
	size    atomic.Int64
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Contains reports whether a value is stored under name.
func (c *Cache) Contains(name string) bool {
	_, ok := c.entries.Load(name)
	return ok
}

// Get returns the value stored under name.
func (c *Cache) Get(name string) (domain.Value, bool) {
	v, ok := c.entries.Load(name)
	if !ok {
		return domain.Value{}, false
	}
	return v.(domain.Value), true
}

// Put stores v under name unless a value is already present, and returns the stored value.
// The first stored value wins so every observer of a session sees the same value.
func (c *Cache) Put(name string, v domain.Value) domain.Value {
	actual, loaded := c.entries.LoadOrStore(name, v)
	if !loaded {
		c.size.Add(1)
	}
	return actual.(domain.Value)
}

// Len returns the number of cached values.
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// Snapshot returns a copy of the cached values.
func (c *Cache) Snapshot() map[string]domain.Value {
	out := make(map[string]domain.Value, c.Len())
	c.entries.Range(func(k, v any) bool {
		out[k.(string)] = v.(domain.Value)
		return true
	})
	return out
}
