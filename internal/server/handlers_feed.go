package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	apperrors "github.com/kthrnbeh/ISweep-backend/internal/errors"
	"github.com/kthrnbeh/ISweep-backend/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // feed is consumed by players on arbitrary origins
	},
}

func (s *Server) registerFeedRoutes() {
	s.echo.GET("/ws/decisions/:user_id", s.handleDecisionFeed)
}

// handleDecisionFeed upgrades the connection and subscribes it to the user's
// decision stream until the client goes away.
func (s *Server) handleDecisionFeed(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	if _, err := s.app.GetUserByID(c.Request().Context(), userID); err != nil {
		return apperrors.FromDomain(err).WithContext("user_id", userID.String())
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		metrics.FeedConnectionsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	if err := s.feed.Register(userID, conn); err != nil {
		// The hub has already closed the connection.
		slog.Warn("Feed registration rejected", "user_id", userID, "error", err)
		return nil
	}

	// Read pump. The feed is push only, so inbound frames are discarded; the
	// loop exists to notice disconnects and expired read deadlines.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.feed.Unregister(userID, conn)

	return nil
}
