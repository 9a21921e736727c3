package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/metrics"
)

// UserLoader returns a user with its role and permissions embedded.
type UserLoader interface {
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// RequirePermission lets the request through when the authenticated user
// holds at least one of permissions. It must run after Auth. Only the
// permissions stored on the user's role count: a role stripped of every
// permission grants nothing.
func RequirePermission(users UserLoader, log zerolog.Logger, permissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserID).(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
			}

			user, err := users.Me(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
				}
				return err
			}

			granted := domain.NewPermissionSet(user.Role.PermissionSlugs())
			for _, p := range permissions {
				if granted.Has(p) {
					return next(c)
				}
			}

			denied := ""
			if len(permissions) > 0 {
				denied = permissions[0]
			}
			metrics.PermissionDenialsTotal.WithLabelValues(denied).Inc()
			log.Warn().
				Str("user_id", userID).
				Strs("required", permissions).
				Str("path", c.Path()).
				Msg("permission denied")
			return domain.ErrForbidden
		}
	}
}
