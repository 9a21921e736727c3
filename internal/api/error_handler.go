package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/core/domain"
)

// errorResponse is the failure shape of the admin API envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders {"success": false, "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Identifiants invalides."
	case errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusUnauthorized, "Code OTP invalide ou expiré."
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthenticated."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Accès refusé."
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "Utilisateur introuvable."
	case errors.Is(err, domain.ErrRoleNotFound):
		return http.StatusNotFound, "Rôle introuvable."
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Ressource introuvable."
	case errors.Is(err, domain.ErrRoleExists):
		return http.StatusConflict, "Un rôle avec ce slug existe déjà."
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Erreur interne du serveur."
}
