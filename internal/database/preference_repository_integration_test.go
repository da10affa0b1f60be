package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func sensPtr(s domain.Sensitivity) *domain.Sensitivity { return &s }

func TestGetPreferences_Defaults(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPreferenceRepo(pool)
	ctx := context.Background()

	user := CreateTestUser(t, pool, "alice")

	prefs, err := repo.GetPreferences(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), *prefs)
}

func TestGetPreferences_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPreferenceRepo(pool)
	ctx := context.Background()

	prefs, err := repo.GetPreferences(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPreferencesNotFound)
	assert.Nil(t, prefs)
}

func TestUpdatePreferences_Partial(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPreferenceRepo(pool)
	ctx := context.Background()

	user := CreateTestUser(t, pool, "alice")

	update := domain.PreferencesUpdate{
		LanguageFilter:      boolPtr(false),
		ViolenceSensitivity: sensPtr(domain.SensitivityHigh),
	}
	prefs, err := repo.UpdatePreferences(ctx, user.ID, update)
	require.NoError(t, err)

	// Touched fields change, everything else keeps its default
	assert.False(t, prefs.LanguageFilter)
	assert.Equal(t, domain.SensitivityHigh, prefs.ViolenceSensitivity)
	assert.True(t, prefs.SexualContentFilter)
	assert.True(t, prefs.ViolenceFilter)
	assert.Equal(t, domain.SensitivityMedium, prefs.LanguageSensitivity)
	assert.Equal(t, domain.SensitivityMedium, prefs.SexualContentSensitivity)

	// Changes are persisted
	stored, err := repo.GetPreferences(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, *prefs, *stored)
}

func TestUpdatePreferences_AllFields(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPreferenceRepo(pool)
	ctx := context.Background()

	user := CreateTestUser(t, pool, "alice")

	update := domain.PreferencesUpdate{
		LanguageFilter:           boolPtr(false),
		SexualContentFilter:      boolPtr(false),
		ViolenceFilter:           boolPtr(true),
		LanguageSensitivity:      sensPtr(domain.SensitivityLow),
		SexualContentSensitivity: sensPtr(domain.SensitivityHigh),
		ViolenceSensitivity:      sensPtr(domain.SensitivityLow),
	}
	prefs, err := repo.UpdatePreferences(ctx, user.ID, update)
	require.NoError(t, err)

	want := domain.Preferences{
		LanguageFilter:           false,
		SexualContentFilter:      false,
		ViolenceFilter:           true,
		LanguageSensitivity:      domain.SensitivityLow,
		SexualContentSensitivity: domain.SensitivityHigh,
		ViolenceSensitivity:      domain.SensitivityLow,
	}
	assert.Equal(t, want, *prefs)
}

func TestUpdatePreferences_EmptyUpdateKeepsRow(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPreferenceRepo(pool)
	ctx := context.Background()

	user := CreateTestUser(t, pool, "alice")
	UpdateTestPreferences(t, pool, user.ID, domain.PreferencesUpdate{
		LanguageSensitivity: sensPtr(domain.SensitivityHigh),
	})

	prefs, err := repo.UpdatePreferences(ctx, user.ID, domain.PreferencesUpdate{})
	require.NoError(t, err)
	assert.Equal(t, domain.SensitivityHigh, prefs.LanguageSensitivity)
	assert.True(t, prefs.LanguageFilter)
}

func TestUpdatePreferences_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPreferenceRepo(pool)
	ctx := context.Background()

	prefs, err := repo.UpdatePreferences(ctx, uuid.New(), domain.PreferencesUpdate{
		ViolenceFilter: boolPtr(false),
	})
	assert.ErrorIs(t, err, domain.ErrPreferencesNotFound)
	assert.Nil(t, prefs)
}

func TestDeleteUser_CascadesPreferences(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPreferenceRepo(pool)
	ctx := context.Background()

	user := CreateTestUser(t, pool, "alice")

	_, err := pool.Exec(ctx, "DELETE FROM users WHERE id = $1", user.ID)
	require.NoError(t, err)

	prefs, err := repo.GetPreferences(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrPreferencesNotFound)
	assert.Nil(t, prefs)
}
