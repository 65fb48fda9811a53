package sdl

import (
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
)

type cacheKey struct {
	name    string
	version string
}

// Cache holds compiled schemas for the lifetime of the process, keyed by
// (schema name, version). Safe for concurrent readers; entries are replaced
// wholesale, never mutated in place.
type Cache struct {
	mu      sync.RWMutex
	schemas map[cacheKey]*ast.Schema
}

func NewCache() *Cache {
	return &Cache{schemas: make(map[cacheKey]*ast.Schema)}
}

func (c *Cache) Get(name, version string) (*ast.Schema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	schema, ok := c.schemas[cacheKey{name, version}]

	return schema, ok
}

func (c *Cache) Put(name, version string, schema *ast.Schema) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.schemas[cacheKey{name, version}] = schema
}

// Invalidate drops one entry. A no-op when the entry is absent.
func (c *Cache) Invalidate(name, version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.schemas, cacheKey{name, version})
}
