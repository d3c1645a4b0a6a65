package distance

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"distance-shipping/internal/models"
)

// DefaultCacheTTL bounds how long a distance result stays reusable.
const DefaultCacheTTL = time.Hour

// Fingerprint derives the deterministic cache key of a distance lookup from
// everything that can change its outcome: the query, the package contents
// and the effective method settings.
func Fingerprint(query models.DistanceQuery, pkg models.Package, settings models.MethodSettings) string {
	payload, _ := json.Marshal(struct {
		Query    models.DistanceQuery  `json:"query"`
		Package  models.Package        `json:"package"`
		Settings models.MethodSettings `json:"settings"`
	}{query, pkg, settings})

	sum := md5.Sum(payload)
	return "api_request_" + hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	result    models.DistanceResult
	expiresAt time.Time
}

// Cache is a TTL-bounded store of distance results shared by concurrent
// calculations. Reads and writes are atomic per key; a get-or-fetch race is
// tolerated since results are idempotent for the same fingerprint.
type Cache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache creates a cache with the given TTL, falling back to
// DefaultCacheTTL when the value is not positive.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached result for key, if present and not expired.
func (c *Cache) Get(key string) (models.DistanceResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return models.DistanceResult{}, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return models.DistanceResult{}, false
	}
	return entry.result, true
}

// Put stores a result under key. Any stale entry under the same key is
// removed first so duplicates never accumulate.
func (c *Cache) Put(key string, result models.DistanceResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	c.entries[key] = cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	}
}
