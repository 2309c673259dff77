// Package cache provides the content-hash keyed result cache that guarantees
// at most one pipeline execution per distinct input within the TTL window.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/192005chandrakant/credlens/internal/model"
)

// Key derives the stable cache key for an input. Identical content and type
// always hash identically; nothing time- or request-dependent is mixed in.
func Key(content string, contentType model.ContentType) string {
	hash := sha256.Sum256([]byte(content + "\x00" + string(contentType)))
	return "credlens:v1:" + hex.EncodeToString(hash[:])
}

// entry is the stored cache record with access statistics.
type entry struct {
	result    model.AnalysisResult
	createdAt time.Time

	mu           sync.Mutex
	lastAccessed time.Time
	accessCount  int64
}

// Stats is a point-in-time snapshot of an entry's bookkeeping.
type Stats struct {
	CreatedAt    time.Time
	LastAccessed time.Time
	AccessCount  int64
}

// AnalysisCache caches full pipeline results with TTL. Eviction is lazy:
// expired entries disappear at lookup time, and Sweep exists for hosts that
// want bounded memory.
type AnalysisCache struct {
	backing *gocache.Cache
	ttl     time.Duration
}

// New creates a cache with the given TTL. Expiry is checked lazily on Get;
// no background janitor runs.
func New(ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{
		backing: gocache.New(ttl, 0),
		ttl:     ttl,
	}
}

// Get returns the cached result for key, marking the hit in the entry's
// access statistics. The returned result has CacheHit set.
func (c *AnalysisCache) Get(key string) (model.AnalysisResult, bool) {
	val, found := c.backing.Get(key)
	if !found {
		return model.AnalysisResult{}, false
	}
	e := val.(*entry)

	e.mu.Lock()
	e.accessCount++
	e.lastAccessed = time.Now()
	e.mu.Unlock()

	result := e.result
	result.CacheHit = true
	return result, true
}

// Put stores a completed result. Concurrent writes for the same key are
// last-writer-wins; duplicate misses recomputing a key waste work but stay
// correct.
func (c *AnalysisCache) Put(key string, result model.AnalysisResult) {
	now := time.Now()
	c.backing.Set(key, &entry{
		result:       result,
		createdAt:    now,
		lastAccessed: now,
	}, c.ttl)
}

// GetStats returns the access statistics for a live entry.
func (c *AnalysisCache) GetStats(key string) (Stats, bool) {
	val, found := c.backing.Get(key)
	if !found {
		return Stats{}, false
	}
	e := val.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		CreatedAt:    e.createdAt,
		LastAccessed: e.lastAccessed,
		AccessCount:  e.accessCount,
	}, true
}

// Len returns the number of stored entries, including any not yet swept.
func (c *AnalysisCache) Len() int {
	return c.backing.ItemCount()
}

// Sweep drops expired entries. Hook for hosts wanting bounded memory; the
// cache itself never sweeps proactively.
func (c *AnalysisCache) Sweep() {
	c.backing.DeleteExpired()
}

// Clear removes every entry.
func (c *AnalysisCache) Clear() {
	c.backing.Flush()
}
