package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kthrnbeh/ISweep-backend/internal/config"
	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	apperrors "github.com/kthrnbeh/ISweep-backend/internal/errors"
)

// --- Mock implementations ---

type mockAppService struct {
	createUserFn        func(ctx context.Context, username string) (*domain.User, *domain.Preferences, error)
	getUserByIDFn       func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	getPreferencesFn    func(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error)
	updatePreferencesFn func(ctx context.Context, userID uuid.UUID, update domain.PreferencesUpdate) (*domain.Preferences, error)
	analyzeTextFn       func(ctx context.Context, userID uuid.UUID, text string) (domain.Action, error)
	analyzeDecisionFn   func(ctx context.Context, userID uuid.UUID, text string, confidence *float64) (domain.Decision, error)
}

func (m *mockAppService) CreateUser(ctx context.Context, username string) (*domain.User, *domain.Preferences, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, username)
	}
	return nil, nil, errors.New("not implemented")
}

func (m *mockAppService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, userID)
	}
	return &domain.User{ID: userID, Username: "testuser"}, nil
}

func (m *mockAppService) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error) {
	if m.getPreferencesFn != nil {
		return m.getPreferencesFn(ctx, userID)
	}
	prefs := domain.DefaultPreferences()
	return &prefs, nil
}

func (m *mockAppService) UpdatePreferences(ctx context.Context, userID uuid.UUID, update domain.PreferencesUpdate) (*domain.Preferences, error) {
	if m.updatePreferencesFn != nil {
		return m.updatePreferencesFn(ctx, userID, update)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) AnalyzeText(ctx context.Context, userID uuid.UUID, text string) (domain.Action, error) {
	if m.analyzeTextFn != nil {
		return m.analyzeTextFn(ctx, userID, text)
	}
	return domain.ActionNone, nil
}

func (m *mockAppService) AnalyzeDecision(ctx context.Context, userID uuid.UUID, text string, confidence *float64) (domain.Decision, error) {
	if m.analyzeDecisionFn != nil {
		return m.analyzeDecisionFn(ctx, userID, text, confidence)
	}
	return domain.NoMatchDecision(), nil
}

type mockFeed struct {
	registerFn   func(userID uuid.UUID, conn *websocket.Conn) error
	unregisterFn func(userID uuid.UUID, conn *websocket.Conn)
}

func (m *mockFeed) Register(userID uuid.UUID, conn *websocket.Conn) error {
	if m.registerFn != nil {
		return m.registerFn(userID, conn)
	}
	return nil
}

func (m *mockFeed) Unregister(userID uuid.UUID, conn *websocket.Conn) {
	if m.unregisterFn != nil {
		m.unregisterFn(userID, conn)
	}
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			Port:             "8080",
			AnalyzeRateLimit: 100,
			AnalyzeRateBurst: 100,
		},
		app:       app,
		feed:      &mockFeed{},
		startTime: time.Now(),
		// A private registry so repeated server construction across tests
		// does not collide on the process-global default.
		metricsRegisterer: prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

func withFeed(feed decisionFeed) func(*Server) {
	return func(s *Server) {
		s.feed = feed
	}
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(handler)(c)
}
