package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	"github.com/stretchr/testify/require"
)

// CreateTestUser is a helper that creates a user (with default preferences) for testing.
// Returns the created user.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool, username string) *domain.User {
	t.Helper()

	repo := NewUserRepo(pool)
	user, err := repo.CreateUser(context.Background(), username)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)

	return user
}

// UpdateTestPreferences is a helper that applies a preference update for testing.
func UpdateTestPreferences(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, update domain.PreferencesUpdate) *domain.Preferences {
	t.Helper()

	repo := NewPreferenceRepo(pool)
	prefs, err := repo.UpdatePreferences(context.Background(), userID, update)
	require.NoError(t, err)

	return prefs
}
