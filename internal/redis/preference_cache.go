package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	"github.com/kthrnbeh/ISweep-backend/internal/metrics"
	goredis "github.com/redis/go-redis/v9"
)

// Key schema:
//   pref:{userID}  JSON document of domain.Preferences, expires after ttl

func preferenceKey(userID uuid.UUID) string {
	return "pref:" + userID.String()
}

// PreferenceCache is a read-through cache over a PreferenceRepository.
// Reads hit Redis first and fall back to the inner repository on a miss,
// repopulating the cache. Updates go through the inner repository and then
// drop the cached entry. Redis failures degrade to the inner repository and
// are never surfaced to the caller.
type PreferenceCache struct {
	rdb   *goredis.Client
	inner domain.PreferenceRepository
	ttl   time.Duration
}

var (
	_ domain.PreferenceRepository       = (*PreferenceCache)(nil)
	_ domain.PreferenceCacheInvalidator = (*PreferenceCache)(nil)
)

// NewPreferenceCache creates a PreferenceCache over inner with the given TTL.
func NewPreferenceCache(rdb *goredis.Client, inner domain.PreferenceRepository, ttl time.Duration) *PreferenceCache {
	return &PreferenceCache{rdb: rdb, inner: inner, ttl: ttl}
}

func (c *PreferenceCache) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error) {
	payload, err := c.rdb.Get(ctx, preferenceKey(userID)).Result()
	if err == nil {
		var prefs domain.Preferences
		if jerr := json.Unmarshal([]byte(payload), &prefs); jerr == nil {
			metrics.RedisCacheHits.Inc()
			return &prefs, nil
		}
		// Undecodable entry: treat as a miss and let the store below rewrite it.
		slog.Warn("dropping undecodable preference cache entry", "user_id", userID)
	} else if !errors.Is(err, goredis.Nil) {
		slog.Warn("preference cache read failed, falling back to database", "user_id", userID, "error", err)
	}
	metrics.RedisCacheMisses.Inc()

	prefs, err := c.inner.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.store(ctx, userID, prefs)
	return prefs, nil
}

func (c *PreferenceCache) UpdatePreferences(ctx context.Context, userID uuid.UUID, update domain.PreferencesUpdate) (*domain.Preferences, error) {
	prefs, err := c.inner.UpdatePreferences(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	// Drop rather than rewrite: the next read repopulates from the database,
	// so a failed DEL can at worst serve stale data for one TTL.
	if err := c.InvalidateCache(ctx, userID); err != nil {
		slog.Warn("preference cache invalidation failed", "user_id", userID, "error", err)
	}
	return prefs, nil
}

// InvalidateCache removes the cached entry for userID.
func (c *PreferenceCache) InvalidateCache(ctx context.Context, userID uuid.UUID) error {
	if err := c.rdb.Del(ctx, preferenceKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate preference cache: %w", err)
	}
	return nil
}

func (c *PreferenceCache) store(ctx context.Context, userID uuid.UUID, prefs *domain.Preferences) {
	payload, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, preferenceKey(userID), payload, c.ttl).Err(); err != nil {
		slog.Warn("preference cache write failed", "user_id", userID, "error", err)
	}
}
