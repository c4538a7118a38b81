package api

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// responseCache is a small TTL cache for GET list responses, so that running
// two list commands back to back does not hammer the server. Any mutating
// request flushes it wholesale; correctness never depends on it.
type responseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uint64]cacheEntry
}

type cacheEntry struct {
	body      []byte
	expiresAt time.Time
}

// newResponseCache returns a cache with the given TTL, or nil when ttl <= 0
// (callers treat a nil cache as disabled).
func newResponseCache(ttl time.Duration) *responseCache {
	if ttl <= 0 {
		return nil
	}
	return &responseCache{
		ttl:     ttl,
		entries: make(map[uint64]cacheEntry),
	}
}

// key hashes the request identity. The token is part of the key so a cache
// surviving a re-login can never leak another account's data.
func (c *responseCache) key(path, token string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(path)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(token)
	return h.Sum64()
}

func (c *responseCache) get(path, token string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(path, token)
	entry, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, k)
		return nil, false
	}
	return entry.body, true
}

func (c *responseCache) put(path, token string, body []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// Opportunistic prune so the map cannot grow without bound.
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}

	c.entries[c.key(path, token)] = cacheEntry{
		body:      body,
		expiresAt: now.Add(c.ttl),
	}
}

// flush drops every entry. Called after any mutating request, login, or logout.
func (c *responseCache) flush() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]cacheEntry)
}
