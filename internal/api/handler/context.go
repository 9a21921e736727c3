package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirenecole/admin-console/internal/api/middleware"
)

// ctxUserID returns the subject injected by the Auth middleware.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
	}
	return id, nil
}

func invalid(message string) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, message)
}
