// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shadercache memoizes WGSL front-end results by source text.
//
// Pipelines are usually rebuilt from the same few shader sources, for
// example after a surface rebind. The cache keeps the parse and validation
// outcome so that only the first build pays for naga.
//
// Cache is safe for concurrent use and must not be copied after creation.
package shadercache

import (
	"crypto/sha256"
	"sync"
)

// DefaultLimit is the soft limit used by the webgpu backend.
const DefaultLimit = 64

// Result is the outcome of running a source through the front end.
type Result struct {
	// Lowered reports whether the source parsed and lowered to IR.
	// EntryPoints is only meaningful when it is true.
	Lowered     bool
	EntryPoints []string

	// Err is the first failure, from any stage.
	Err error
}

type key [sha256.Size]byte

type entry struct {
	res   Result
	atime int64
}

// Cache maps source text to Result with a soft entry limit. When the limit
// is exceeded the least recently used quarter is evicted.
type Cache struct {
	mu      sync.Mutex
	entries map[key]*entry
	limit   int
	tick    int64

	hits   uint64
	misses uint64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Len    int
	Limit  int
	Hits   uint64
	Misses uint64
}

// New returns an empty cache. A limit of 0 means unlimited.
func New(limit int) *Cache {
	return &Cache{
		entries: make(map[key]*entry),
		limit:   limit,
	}
}

// Lookup returns the cached result for source, calling compile on a miss.
// compile runs under the cache lock, so concurrent lookups of one source
// compile it once.
func (c *Cache) Lookup(source string, compile func(string) Result) Result {
	k := key(sha256.Sum256([]byte(source)))

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[k]; ok {
		c.hits++
		e.atime = c.tick
		return e.res.clone()
	}
	c.misses++
	res := compile(source)
	c.entries[k] = &entry{res: res, atime: c.tick}
	if c.limit > 0 && len(c.entries) > c.limit {
		c.evictOldest()
	}
	return res.clone()
}

// Len returns the number of cached sources.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[key]*entry)
	c.tick = 0
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Len: len(c.entries), Limit: c.limit, Hits: c.hits, Misses: c.misses}
}

// evictOldest shrinks the cache to three quarters of its limit.
// Caller must hold c.mu.
func (c *Cache) evictOldest() {
	target := c.limit * 3 / 4
	if target < 1 {
		target = 1
	}
	toEvict := len(c.entries) - target
	if toEvict <= 0 {
		return
	}

	type aged struct {
		k     key
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k: k, atime: e.atime})
	}
	// Partial selection sort; toEvict is small next to the map.
	for i := 0; i < toEvict; i++ {
		oldest := i
		for j := i + 1; j < len(all); j++ {
			if all[j].atime < all[oldest].atime {
				oldest = j
			}
		}
		all[i], all[oldest] = all[oldest], all[i]
		delete(c.entries, all[i].k)
	}
}

func (r Result) clone() Result {
	if r.EntryPoints != nil {
		r.EntryPoints = append([]string(nil), r.EntryPoints...)
	}
	return r
}
