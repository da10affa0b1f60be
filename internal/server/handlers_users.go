package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	apperrors "github.com/kthrnbeh/ISweep-backend/internal/errors"
)

func (s *Server) registerUserRoutes() {
	s.echo.POST("/api/users", s.handleCreateUser)
	s.echo.GET("/api/users/:user_id/preferences", s.handleGetPreferences)
	s.echo.PUT("/api/users/:user_id/preferences", s.handleUpdatePreferences)
}

// parseUserID extracts and validates the user_id path parameter.
func parseUserID(c echo.Context) (uuid.UUID, error) {
	raw := c.Param("user_id")
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid user ID").WithContext("user_id", raw)
	}
	return userID, nil
}

// preferencesResponse is the flat preference payload the API has always
// exposed: the user id rides along with the six preference fields.
type preferencesResponse struct {
	UserID uuid.UUID `json:"user_id"`
	domain.Preferences
}

type createUserRequest struct {
	Username string `json:"username"`
}

type createUserResponse struct {
	UserID      uuid.UUID           `json:"user_id"`
	Username    string              `json:"username"`
	Preferences preferencesResponse `json:"preferences"`
}

func (s *Server) handleCreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil || req.Username == "" {
		return apperrors.ValidationError("username is required")
	}

	user, prefs, err := s.app.CreateUser(c.Request().Context(), req.Username)
	if err != nil {
		return apperrors.FromDomain(err).WithContext("username", req.Username)
	}

	response := createUserResponse{
		UserID:      user.ID,
		Username:    user.Username,
		Preferences: preferencesResponse{UserID: user.ID, Preferences: *prefs},
	}
	if err := c.JSON(http.StatusCreated, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetPreferences(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	prefs, err := s.app.GetPreferences(c.Request().Context(), userID)
	if err != nil {
		return apperrors.FromDomain(err).WithContext("user_id", userID.String())
	}

	response := preferencesResponse{UserID: userID, Preferences: *prefs}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// sensitivityFields are the update keys whose values must be a valid
// sensitivity level. Unknown keys are ignored.
var sensitivityFields = []string{"language_sensitivity", "sexual_content_sensitivity", "violence_sensitivity"}

func (s *Server) handleUpdatePreferences(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperrors.InternalError("failed to read request body", err)
	}

	// A raw decode pass first: an absent or empty body is rejected before any
	// field is interpreted, and sensitivity values are validated per field so
	// the response names the offending key.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return apperrors.ValidationError("request body is required")
	}

	for _, field := range sensitivityFields {
		raw, ok := fields[field]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil || !domain.Sensitivity(value).Valid() {
			return apperrors.ValidationError("sensitivity must be one of: low, medium, high").
				WithContext("field", field)
		}
	}

	var update domain.PreferencesUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	prefs, err := s.app.UpdatePreferences(c.Request().Context(), userID, update)
	if err != nil {
		return apperrors.FromDomain(err).WithContext("user_id", userID.String())
	}

	response := map[string]any{
		"message":     "Preferences updated successfully",
		"preferences": preferencesResponse{UserID: userID, Preferences: *prefs},
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
