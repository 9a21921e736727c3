package transport

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/core/ports"
	"github.com/sirenecole/admin-console/internal/infrastructure/navigation"
	"github.com/sirenecole/admin-console/internal/metrics"
)

// BearerToken attaches the persisted token to every request. Requests go out
// unauthenticated when no token is stored.
func BearerToken(tokens ports.TokenSource, prefix string) Middleware {
	if prefix == "" {
		prefix = "Bearer"
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, call *ports.APIRequest, req *http.Request) (*http.Response, error) {
			token, err := tokens.Token(ctx)
			if err != nil {
				return nil, err
			}
			if token != "" {
				req.Header.Set("Authorization", prefix+" "+token)
			}
			return next(ctx, call, req)
		}
	}
}

// Invalidator clears the session after an authorization failure.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// SessionGuard reacts to authorization failures. On 401 it clears the
// session and sends the user to the login screen, unless the request opted
// out or the user is already on an authentication screen. 403 and 500 are
// logged and reported without touching the session. The response is always
// passed through unchanged.
func SessionGuard(sessions Invalidator, nav ports.Navigator, reporter ports.Reporter, log zerolog.Logger) Middleware {
	var mu sync.Mutex

	return func(next Handler) Handler {
		return func(ctx context.Context, call *ports.APIRequest, req *http.Request) (*http.Response, error) {
			resp, err := next(ctx, call, req)
			if err != nil {
				return resp, err
			}

			switch resp.StatusCode {
			case http.StatusUnauthorized:
				if call.SkipAuthRedirect {
					return resp, nil
				}
				mu.Lock()
				defer mu.Unlock()

				if navigation.IsAuthRoute(nav.CurrentPath()) {
					log.Info().Str("path", call.Path).Msg("401 during auth flow, keeping session")
					return resp, nil
				}
				log.Warn().Str("path", call.Path).Msg("401, clearing session and redirecting to login")
				if ierr := sessions.Invalidate(ctx); ierr != nil {
					log.Error().Err(ierr).Msg("session invalidation failed")
				}
				metrics.SessionInvalidationsTotal.Inc()
				nav.Navigate(navigation.LoginPath)

			case http.StatusForbidden:
				log.Error().Str("method", call.Method).Str("path", call.Path).Msg("access forbidden")
				if reporter != nil {
					reporter.Error("Accès refusé", "Vous n'avez pas les droits nécessaires pour cette action.")
				}

			case http.StatusInternalServerError:
				log.Error().Str("method", call.Method).Str("path", call.Path).Msg("server error")
				if reporter != nil {
					reporter.Error("Erreur serveur", "Le serveur a rencontré une erreur. Réessayez plus tard.")
				}
			}
			return resp, nil
		}
	}
}

// Instrument records request counts and latency.
func Instrument() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *ports.APIRequest, req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(ctx, call, req)

			status := "error"
			if err == nil {
				status = strconv.Itoa(resp.StatusCode)
			}
			metrics.APIRequestsTotal.WithLabelValues(call.Method, status).Inc()
			metrics.APIRequestDuration.WithLabelValues(call.Method).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// Trace logs each round trip at debug level.
func Trace(log zerolog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *ports.APIRequest, req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(ctx, call, req)

			ev := log.Debug().
				Str("method", req.Method).
				Str("url", req.URL.Redacted()).
				Dur("elapsed", time.Since(start))
			if err != nil {
				ev.Err(err).Msg("request failed")
			} else {
				ev.Int("status", resp.StatusCode).Msg("request done")
			}
			return resp, err
		}
	}
}
