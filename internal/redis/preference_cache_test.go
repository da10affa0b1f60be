package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPreferenceRepo is an in-memory PreferenceRepository that counts calls.
type stubPreferenceRepo struct {
	prefs       map[uuid.UUID]domain.Preferences
	getCalls    int
	updateCalls int
}

func newStubPreferenceRepo() *stubPreferenceRepo {
	return &stubPreferenceRepo{prefs: make(map[uuid.UUID]domain.Preferences)}
}

func (s *stubPreferenceRepo) GetPreferences(_ context.Context, userID uuid.UUID) (*domain.Preferences, error) {
	s.getCalls++
	p, ok := s.prefs[userID]
	if !ok {
		return nil, domain.ErrPreferencesNotFound
	}
	return &p, nil
}

func (s *stubPreferenceRepo) UpdatePreferences(_ context.Context, userID uuid.UUID, update domain.PreferencesUpdate) (*domain.Preferences, error) {
	s.updateCalls++
	p, ok := s.prefs[userID]
	if !ok {
		return nil, domain.ErrPreferencesNotFound
	}
	if update.LanguageFilter != nil {
		p.LanguageFilter = *update.LanguageFilter
	}
	if update.SexualContentFilter != nil {
		p.SexualContentFilter = *update.SexualContentFilter
	}
	if update.ViolenceFilter != nil {
		p.ViolenceFilter = *update.ViolenceFilter
	}
	if update.LanguageSensitivity != nil {
		p.LanguageSensitivity = *update.LanguageSensitivity
	}
	if update.SexualContentSensitivity != nil {
		p.SexualContentSensitivity = *update.SexualContentSensitivity
	}
	if update.ViolenceSensitivity != nil {
		p.ViolenceSensitivity = *update.ViolenceSensitivity
	}
	s.prefs[userID] = p
	return &p, nil
}

func boolPtr(b bool) *bool { return &b }

// unreachableClient returns a client pointed at a closed port, without the
// circuit breaker hook, so every command fails immediately.
func unreachableClient() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:       "127.0.0.1:1",
		MaxRetries: -1,
	})
}

func TestPreferenceCache_RedisDownDegradesOnRead(t *testing.T) {
	inner := newStubPreferenceRepo()
	userID := uuid.New()
	inner.prefs[userID] = domain.DefaultPreferences()

	cache := NewPreferenceCache(unreachableClient(), inner, time.Minute)

	prefs, err := cache.GetPreferences(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), *prefs)
	assert.Equal(t, 1, inner.getCalls)
}

func TestPreferenceCache_RedisDownDegradesOnUpdate(t *testing.T) {
	inner := newStubPreferenceRepo()
	userID := uuid.New()
	inner.prefs[userID] = domain.DefaultPreferences()

	cache := NewPreferenceCache(unreachableClient(), inner, time.Minute)

	prefs, err := cache.UpdatePreferences(context.Background(), userID, domain.PreferencesUpdate{
		ViolenceFilter: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, prefs.ViolenceFilter)
	assert.Equal(t, 1, inner.updateCalls)
}

func TestPreferenceCache_InnerErrorPropagates(t *testing.T) {
	inner := newStubPreferenceRepo()
	cache := NewPreferenceCache(unreachableClient(), inner, time.Minute)

	prefs, err := cache.GetPreferences(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPreferencesNotFound)
	assert.Nil(t, prefs)
}
