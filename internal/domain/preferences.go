package domain

import (
	"context"

	"github.com/google/uuid"
)

// Sensitivity controls how aggressively a content category triggers.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Valid reports whether s is one of the three recognized sensitivity levels.
// Analysis never rejects unknown values (it falls back to medium); preference
// writes do.
func (s Sensitivity) Valid() bool {
	switch s {
	case SensitivityLow, SensitivityMedium, SensitivityHigh:
		return true
	}
	return false
}

// Preferences holds a user's per-category filter settings. The JSON keys are
// the public wire shape used by the preferences and user endpoints.
type Preferences struct {
	LanguageFilter           bool        `json:"language_filter"`
	SexualContentFilter      bool        `json:"sexual_content_filter"`
	ViolenceFilter           bool        `json:"violence_filter"`
	LanguageSensitivity      Sensitivity `json:"language_sensitivity"`
	SexualContentSensitivity Sensitivity `json:"sexual_content_sensitivity"`
	ViolenceSensitivity      Sensitivity `json:"violence_sensitivity"`
}

// DefaultPreferences mirrors the database column defaults: every filter on,
// every sensitivity medium.
func DefaultPreferences() Preferences {
	return Preferences{
		LanguageFilter:           true,
		SexualContentFilter:      true,
		ViolenceFilter:           true,
		LanguageSensitivity:      SensitivityMedium,
		SexualContentSensitivity: SensitivityMedium,
		ViolenceSensitivity:      SensitivityMedium,
	}
}

// Enabled reports whether the given category's filter is switched on.
func (p Preferences) Enabled(c Category) bool {
	switch c {
	case CategoryLanguage:
		return p.LanguageFilter
	case CategorySexualContent:
		return p.SexualContentFilter
	case CategoryViolence:
		return p.ViolenceFilter
	}
	return false
}

// SensitivityFor returns the sensitivity configured for the given category.
func (p Preferences) SensitivityFor(c Category) Sensitivity {
	switch c {
	case CategoryLanguage:
		return p.LanguageSensitivity
	case CategorySexualContent:
		return p.SexualContentSensitivity
	case CategoryViolence:
		return p.ViolenceSensitivity
	}
	return ""
}

// PreferencesUpdate is a partial update: nil fields leave the stored value
// unchanged.
type PreferencesUpdate struct {
	LanguageFilter           *bool        `json:"language_filter"`
	SexualContentFilter      *bool        `json:"sexual_content_filter"`
	ViolenceFilter           *bool        `json:"violence_filter"`
	LanguageSensitivity      *Sensitivity `json:"language_sensitivity"`
	SexualContentSensitivity *Sensitivity `json:"sexual_content_sensitivity"`
	ViolenceSensitivity      *Sensitivity `json:"violence_sensitivity"`
}

// Empty reports whether the update carries no changes at all.
func (u PreferencesUpdate) Empty() bool {
	return u.LanguageFilter == nil && u.SexualContentFilter == nil && u.ViolenceFilter == nil &&
		u.LanguageSensitivity == nil && u.SexualContentSensitivity == nil && u.ViolenceSensitivity == nil
}

// Validate rejects updates carrying an unrecognized sensitivity value.
func (u PreferencesUpdate) Validate() error {
	for _, s := range []*Sensitivity{u.LanguageSensitivity, u.SexualContentSensitivity, u.ViolenceSensitivity} {
		if s != nil && !s.Valid() {
			return ErrInvalidSensitivity
		}
	}
	return nil
}

// PreferenceRepository abstracts preference persistence.
type PreferenceRepository interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (*Preferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, update PreferencesUpdate) (*Preferences, error)
}

// PreferenceCacheInvalidator removes a user's preferences from the Redis cache.
type PreferenceCacheInvalidator interface {
	InvalidateCache(ctx context.Context, userID uuid.UUID) error
}
