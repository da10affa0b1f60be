package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kthrnbeh/ISweep-backend/internal/config"
	"github.com/kthrnbeh/ISweep-backend/internal/domain"
)

// appService is the slice of the application layer the HTTP surface consumes.
type appService interface {
	CreateUser(ctx context.Context, username string) (*domain.User, *domain.Preferences, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, update domain.PreferencesUpdate) (*domain.Preferences, error)
	AnalyzeText(ctx context.Context, userID uuid.UUID, text string) (domain.Action, error)
	AnalyzeDecision(ctx context.Context, userID uuid.UUID, text string, confidence *float64) (domain.Decision, error)
}

// decisionFeed registers and releases live feed subscribers.
type decisionFeed interface {
	Register(userID uuid.UUID, conn *websocket.Conn) error
	Unregister(userID uuid.UUID, conn *websocket.Conn)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app  appService
	feed decisionFeed

	healthChecks []HealthCheck
	startTime    time.Time

	// metricsRegisterer receives the HTTP-level collectors. Tests swap in a
	// private registry so repeated server construction does not collide on
	// the process-global default.
	metricsRegisterer prometheus.Registerer
}

func NewServer(cfg *config.Config, app appService, feed decisionFeed, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:              e,
		config:            cfg,
		app:               app,
		feed:              feed,
		healthChecks:      healthChecks,
		startTime:         time.Now(),
		metricsRegisterer: prometheus.DefaultRegisterer,
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
