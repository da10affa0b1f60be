package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	apperrors "github.com/kthrnbeh/ISweep-backend/internal/errors"
)

func (s *Server) registerAnalysisRoutes(limiter echo.MiddlewareFunc) {
	s.echo.POST("/api/analyze", s.handleAnalyze, limiter)
	s.echo.POST("/event", s.handleEvent, limiter)
}

type analyzeRequest struct {
	UserID *string `json:"user_id"`
	Text   *string `json:"text"`
}

type analyzeResponse struct {
	Action domain.Action `json:"action"`
	Text   string        `json:"text"`
	UserID uuid.UUID     `json:"user_id"`
}

// handleAnalyze is the simple analysis entry point: a bare action token plus
// an echo of the input. Empty text is a valid request and resolves to none.
func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil || req.UserID == nil || req.Text == nil {
		return apperrors.ValidationError("user_id and text are required")
	}

	// An unparseable user id can never belong to an existing user.
	userID, err := uuid.Parse(*req.UserID)
	if err != nil {
		return apperrors.NotFoundError("user not found").WithContext("user_id", *req.UserID)
	}

	action, err := s.app.AnalyzeText(c.Request().Context(), userID, *req.Text)
	if err != nil {
		return apperrors.FromDomain(err).WithContext("user_id", userID.String())
	}

	response := analyzeResponse{Action: action, Text: *req.Text, UserID: userID}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type eventRequest struct {
	UserID     *string  `json:"user_id"`
	Text       *string  `json:"text"`
	Confidence *float64 `json:"confidence"`
}

// handleEvent is the structured analysis entry point. It always answers 200
// with the four-field decision shape: malformed payloads and unknown users
// degrade to the no-match decision with an explanatory reason instead of an
// error status, so playback loops never have to branch on status codes.
func (s *Server) handleEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil || req.UserID == nil || req.Text == nil {
		return sendDecision(c, noMatchWithReason("Invalid request"))
	}

	userID, err := uuid.Parse(*req.UserID)
	if err != nil {
		return sendDecision(c, noMatchWithReason("Unknown user_id"))
	}

	decision, err := s.app.AnalyzeDecision(c.Request().Context(), userID, *req.Text, req.Confidence)
	if errors.Is(err, domain.ErrUserNotFound) {
		return sendDecision(c, noMatchWithReason("Unknown user_id"))
	}
	if err != nil {
		return apperrors.FromDomain(err).WithContext("user_id", userID.String())
	}

	return sendDecision(c, decision)
}

func sendDecision(c echo.Context, decision domain.Decision) error {
	if err := c.JSON(http.StatusOK, decision); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func noMatchWithReason(reason string) domain.Decision {
	decision := domain.NoMatchDecision()
	decision.Reason = reason
	return decision
}
