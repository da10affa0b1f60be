package server

import (
	"github.com/labstack/echo/v4"

	"github.com/kthrnbeh/ISweep-backend/internal/correlation"
)

// correlationMiddleware tags every request context with a fresh correlation
// ID so all log lines emitted while serving it can be tied together.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
