package dedup

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is the number of message ids remembered when no capacity is given.
const DefaultCapacity = 1000

// Cache is a bounded set of recently seen message ids. It is safe for concurrent use.
type Cache struct {
	ids      *lru.Cache[string, struct{}]
	capacity int
}

// New creates a cache holding at most capacity ids.
// A capacity < 1 selects DefaultCapacity.
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	// lru.New only fails for a non-positive size.
	ids, _ := lru.New[string, struct{}](capacity)

	return &Cache{
		ids:      ids,
		capacity: capacity,
	}
}

// Seen records id and reports whether it was already present.
// Lookups never touch recency, so eviction follows insertion order.
func (c *Cache) Seen(id string) bool {
	seen, _ := c.ids.ContainsOrAdd(id, struct{}{})
	return seen
}

// Contains reports whether id is currently remembered without recording it.
func (c *Cache) Contains(id string) bool {
	return c.ids.Contains(id)
}

// Len returns the number of remembered ids.
func (c *Cache) Len() int {
	return c.ids.Len()
}

// Capacity returns the maximum number of remembered ids.
func (c *Cache) Capacity() int {
	return c.capacity
}
