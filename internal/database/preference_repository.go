package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kthrnbeh/ISweep-backend/internal/domain"
)

// preferenceColumns must match the Scan order in scanPreferences.
const preferenceColumns = `language_filter, sexual_content_filter, violence_filter,
	language_sensitivity, sexual_content_sensitivity, violence_sensitivity`

// PreferenceRepo implements domain.PreferenceRepository backed by PostgreSQL.
type PreferenceRepo struct {
	pool *pgxpool.Pool
}

var _ domain.PreferenceRepository = (*PreferenceRepo)(nil)

// NewPreferenceRepo creates a PreferenceRepo from the shared connection pool.
func NewPreferenceRepo(pool *pgxpool.Pool) *PreferenceRepo {
	return &PreferenceRepo{pool: pool}
}

func scanPreferences(row pgx.Row) (*domain.Preferences, error) {
	var prefs domain.Preferences
	err := row.Scan(
		&prefs.LanguageFilter, &prefs.SexualContentFilter, &prefs.ViolenceFilter,
		&prefs.LanguageSensitivity, &prefs.SexualContentSensitivity, &prefs.ViolenceSensitivity,
	)
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *PreferenceRepo) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error) {
	prefs, err := scanPreferences(r.pool.QueryRow(ctx,
		`SELECT `+preferenceColumns+` FROM user_preferences WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPreferencesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return prefs, nil
}

// UpdatePreferences applies only the fields set in update; nil fields keep
// their stored value via COALESCE. Returns the full row as stored.
func (r *PreferenceRepo) UpdatePreferences(ctx context.Context, userID uuid.UUID, update domain.PreferencesUpdate) (*domain.Preferences, error) {
	prefs, err := scanPreferences(r.pool.QueryRow(ctx, `
		UPDATE user_preferences
		SET language_filter = COALESCE($1, language_filter),
			sexual_content_filter = COALESCE($2, sexual_content_filter),
			violence_filter = COALESCE($3, violence_filter),
			language_sensitivity = COALESCE($4, language_sensitivity),
			sexual_content_sensitivity = COALESCE($5, sexual_content_sensitivity),
			violence_sensitivity = COALESCE($6, violence_sensitivity),
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING `+preferenceColumns+`
	`,
		update.LanguageFilter, update.SexualContentFilter, update.ViolenceFilter,
		update.LanguageSensitivity, update.SexualContentSensitivity, update.ViolenceSensitivity,
		userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPreferencesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return prefs, nil
}
