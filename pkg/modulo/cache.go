package modulo

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache keeps one automaton per modulus, evicting the least recently used
// one when full. Entries are never mutated after insertion, so readers
// share them without copying.
type Cache struct {
	items *lru.Cache[int, *Automaton]
}

// NewCache creates a cache holding at most limit automatons. A limit of
// zero or less means unbounded.
func NewCache(limit int) *Cache {
	if limit <= 0 {
		limit = math.MaxInt
	}
	items, err := lru.New[int, *Automaton](limit)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Cache{items: items}
}

// Get returns the cached automaton for modulus, if any.
func (c *Cache) Get(modulus int) (*Automaton, bool) {
	return c.items.Get(modulus)
}

// Put stores a and returns the automaton now cached for its modulus. When
// two callers race, the first insert wins and both get the same instance.
func (c *Cache) Put(a *Automaton) *Automaton {
	if existing, ok, _ := c.items.PeekOrAdd(a.modulus, a); ok {
		return existing
	}
	return a
}

// GetOrBuild returns the cached automaton or builds and caches it.
// The bool reports whether it was served from the cache.
func (c *Cache) GetOrBuild(modulus int) (*Automaton, bool, error) {
	if a, ok := c.Get(modulus); ok {
		return a, true, nil
	}
	a, err := Build(modulus)
	if err != nil {
		return nil, false, err
	}
	return c.Put(a), false, nil
}

// Len returns the number of cached automatons.
func (c *Cache) Len() int {
	return c.items.Len()
}

// Remove drops the automaton for modulus.
func (c *Cache) Remove(modulus int) {
	c.items.Remove(modulus)
}
