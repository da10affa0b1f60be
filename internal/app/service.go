package app

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kthrnbeh/ISweep-backend/internal/analyzer"
	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	"github.com/kthrnbeh/ISweep-backend/internal/metrics"
	"golang.org/x/sync/singleflight"
)

const maxUsernameLength = 64

// DecisionPublisher pushes analysis outcomes to live feed subscribers.
// Implementations must not block: Publish runs on the analysis hot path.
type DecisionPublisher interface {
	Publish(userID uuid.UUID, decision domain.Decision)
}

// Service is the application layer. It is the only component that references
// multiple domain components and orchestrates all use cases.
type Service struct {
	users     domain.UserRepository
	prefs     domain.PreferenceRepository
	prefCache *analyzer.PrefCache
	engine    *analyzer.Engine
	publisher DecisionPublisher
	prefGroup singleflight.Group
	clock     clockwork.Clock
}

// NewService creates the application layer service.
// publisher may be nil if the live feed is not wired.
func NewService(users domain.UserRepository, prefs domain.PreferenceRepository, prefCache *analyzer.PrefCache, engine *analyzer.Engine, publisher DecisionPublisher, clock clockwork.Clock) *Service {
	return &Service{
		users:     users,
		prefs:     prefs,
		prefCache: prefCache,
		engine:    engine,
		publisher: publisher,
		clock:     clock,
	}
}

// CreateUser registers a new user and returns it together with the default
// preferences created alongside.
func (s *Service) CreateUser(ctx context.Context, username string) (*domain.User, *domain.Preferences, error) {
	if username == "" || len(username) > maxUsernameLength {
		return nil, nil, domain.ErrInvalidUsername
	}

	user, err := s.users.CreateUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	prefs, err := s.prefs.GetPreferences(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, prefs, nil
}

// GetUserByID retrieves a user by ID.
func (s *Service) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// GetPreferences returns the stored preferences for an existing user. The user
// lookup runs first so an unknown user reports ErrUserNotFound rather than
// ErrPreferencesNotFound.
func (s *Service) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.prefs.GetPreferences(ctx, userID)
}

// UpdatePreferences applies a partial preference update and drops the user's
// in-memory cache entry so the next analysis sees the new settings. The Redis
// layer invalidates itself on write; entries on other instances age out within
// the cache TTL.
func (s *Service) UpdatePreferences(ctx context.Context, userID uuid.UUID, update domain.PreferencesUpdate) (*domain.Preferences, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := update.Validate(); err != nil {
		return nil, err
	}
	if update.Empty() {
		return nil, domain.ErrEmptyUpdate
	}

	prefs, err := s.prefs.UpdatePreferences(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	s.prefCache.Invalidate(userID)
	return prefs, nil
}

// AnalyzeText classifies text against the user's preferences and returns the
// playback action.
func (s *Service) AnalyzeText(ctx context.Context, userID uuid.UUID, text string) (domain.Action, error) {
	start := s.clock.Now()

	prefs, err := s.resolvePreferences(ctx, userID)
	if err != nil {
		return "", err
	}

	action := s.engine.Analyze(text, prefs)

	metrics.AnalysesTotal.WithLabelValues("analyze", string(action)).Inc()
	metrics.AnalysisDuration.WithLabelValues("analyze").Observe(s.clock.Since(start).Seconds())
	return action, nil
}

// AnalyzeDecision runs the scored analysis pass and pushes the outcome to the
// live feed. Publishing is fire-and-forget: feed delivery never delays or
// fails the analysis response.
func (s *Service) AnalyzeDecision(ctx context.Context, userID uuid.UUID, text string, confidence *float64) (domain.Decision, error) {
	start := s.clock.Now()

	prefs, err := s.resolvePreferences(ctx, userID)
	if err != nil {
		return domain.Decision{}, err
	}

	decision := s.engine.AnalyzeDecision(text, prefs, confidence)

	metrics.AnalysesTotal.WithLabelValues("decision", string(decision.Action)).Inc()
	metrics.AnalysisDuration.WithLabelValues("decision").Observe(s.clock.Since(start).Seconds())
	if decision.MatchedCategory != nil {
		metrics.CategoryBreaches.WithLabelValues(string(*decision.MatchedCategory)).Inc()
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, decision)
	}

	return decision, nil
}

// resolvePreferences returns the preferences used for analysis, consulting the
// in-memory cache first. Concurrent misses for the same user collapse into a
// single repository call. A user always has a preference row (created
// transactionally, removed by cascade), so a missing row means the user is
// gone and surfaces as ErrUserNotFound.
func (s *Service) resolvePreferences(ctx context.Context, userID uuid.UUID) (domain.Preferences, error) {
	if prefs, ok := s.prefCache.Get(userID); ok {
		return prefs, nil
	}

	v, err, _ := s.prefGroup.Do(userID.String(), func() (any, error) {
		prefs, err := s.prefs.GetPreferences(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.prefCache.Set(userID, *prefs)
		return *prefs, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrPreferencesNotFound) {
			return domain.Preferences{}, domain.ErrUserNotFound
		}
		return domain.Preferences{}, err
	}

	return v.(domain.Preferences), nil
}
