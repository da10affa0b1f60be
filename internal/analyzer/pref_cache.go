package analyzer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	"github.com/kthrnbeh/ISweep-backend/internal/metrics"
)

// PrefCache provides in-memory caching of user preferences with TTL-based
// expiration. Every analysis call needs the user's preferences, so hot users
// would otherwise hit Redis/Postgres once per snippet.
type PrefCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*prefEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

type prefEntry struct {
	prefs     domain.Preferences
	expiresAt time.Time
}

// NewPrefCache creates a preference cache with the given TTL.
func NewPrefCache(ttl time.Duration, clock clockwork.Clock) *PrefCache {
	return &PrefCache{
		entries: make(map[uuid.UUID]*prefEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get retrieves cached preferences if present and not expired.
// Returns (prefs, true) on cache hit, (zero, false) on miss or expiry.
func (c *PrefCache) Get(userID uuid.UUID) (domain.Preferences, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok {
		metrics.PrefCacheMisses.Inc()
		return domain.Preferences{}, false
	}

	// Expired entries count as misses. They are not deleted here (read lock
	// only); the eviction timer cleans them up.
	if c.clock.Now().After(entry.expiresAt) {
		metrics.PrefCacheMisses.Inc()
		return domain.Preferences{}, false
	}

	metrics.PrefCacheHits.Inc()
	return entry.prefs, true
}

// Set stores preferences with current timestamp + TTL.
func (c *PrefCache) Set(userID uuid.UUID, prefs domain.Preferences) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = &prefEntry{
		prefs:     prefs,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Invalidate explicitly removes a user's preferences from the cache.
// Used after a preference update to force an immediate refresh.
func (c *PrefCache) Invalidate(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// Clear removes all entries from the cache.
func (c *PrefCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uuid.UUID]*prefEntry)
}

// Size returns the current number of entries in the cache (including expired).
func (c *PrefCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// EvictExpired removes all expired entries and returns the count evicted.
// This prevents unbounded cache growth over time.
func (c *PrefCache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0

	for userID, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, userID)
			evicted++
		}
	}

	return evicted
}

// StartEvictionTimer starts a background goroutine that periodically evicts
// expired entries. Returns a stop function that cleans up the goroutine.
func (c *PrefCache) StartEvictionTimer(interval time.Duration) func() {
	ticker := c.clock.NewTicker(interval)
	done := make(chan bool)

	go func() {
		for {
			select {
			case <-ticker.Chan():
				evicted := c.EvictExpired()
				if evicted > 0 {
					slog.Debug("Evicted expired preference cache entries",
						"count", evicted,
						"remaining", c.Size(),
					)
					metrics.PrefCacheEvictions.Add(float64(evicted))
				}
				metrics.PrefCacheSize.Set(float64(c.Size()))

			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}
