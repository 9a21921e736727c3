package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/core/ports"
	"github.com/sirenecole/admin-console/internal/core/service"
	"github.com/sirenecole/admin-console/internal/infrastructure/config"
	redisstore "github.com/sirenecole/admin-console/internal/infrastructure/db/redis"
	"github.com/sirenecole/admin-console/internal/infrastructure/navigation"
	"github.com/sirenecole/admin-console/internal/infrastructure/session"
	"github.com/sirenecole/admin-console/internal/infrastructure/transport"
)

// App is the client side of the console wired from configuration: one
// session, one transport and the services on top of it.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Sessions *service.SessionManager
	Router   *navigation.Router
	Notifier *service.Notifier
	Auth     *service.AuthService
	Roles    *service.RoleService
	Cities   *service.CityService
	Authz    *service.Authorizer

	closers []func() error
}

// NewApp restores the persisted session and builds the client stack. The
// router starts on startPath.
func NewApp(ctx context.Context, cfg *config.Config, startPath string, log zerolog.Logger) (*App, error) {
	store, closer, err := openSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessions := service.NewSessionManager(store, log.With().Str("component", "session").Logger())
	if err := sessions.Restore(ctx); err != nil {
		if closer != nil {
			_ = closer()
		}
		return nil, err
	}

	router := navigation.NewRouter(startPath)
	notifier := service.NewNotifier()
	transportLog := log.With().Str("component", "transport").Logger()
	client := transport.New(transport.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  transportLog,
		Middleware: []transport.Middleware{
			transport.Trace(transportLog),
			transport.Instrument(),
			transport.SessionGuard(sessions, router, notifier, transportLog),
			transport.BearerToken(sessions, cfg.API.TokenPrefix),
		},
	})

	app := &App{
		Config:   cfg,
		Log:      log,
		Sessions: sessions,
		Router:   router,
		Notifier: notifier,
		Auth:     service.NewAuthService(client, sessions, log.With().Str("component", "auth").Logger()),
		Roles:    service.NewRoleService(client),
		Cities:   service.NewCityService(client),
		Authz:    service.NewAuthorizer(sessions, nil),
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	return app, nil
}

// Close stops pending notification timers and releases the session backend.
func (a *App) Close() error {
	a.Notifier.ClearAll()
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openSessionStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, func() error, error) {
	switch cfg.Session.Backend {
	case config.SessionMemory:
		return session.NewMemoryStore(), nil, nil
	case config.SessionRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewSessionStore(client, cfg.API.TokenKey, cfg.API.UserKey), client.Close, nil
	default:
		dir := cfg.Session.Dir
		if dir == "" {
			base, err := os.UserConfigDir()
			if err != nil {
				return nil, nil, fmt.Errorf("session dir: %w", err)
			}
			dir = filepath.Join(base, "sirenctl")
		}
		store, err := session.NewFileStore(dir, cfg.API.TokenKey, cfg.API.UserKey)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}
