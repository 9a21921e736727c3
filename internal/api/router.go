package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sirenecole/admin-console/docs"
	"github.com/sirenecole/admin-console/internal/api/handler"
	"github.com/sirenecole/admin-console/internal/api/middleware"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

// BasePath prefixes every admin endpoint, matching the client's default
// API_URL.
const BasePath = "/api"

// Deps are the collaborators of the mock admin API.
type Deps struct {
	Directory ports.Directory
	JWTSecret string
	Checks    map[string]handler.Check
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Each router owns its HTTP metrics registry; /metrics also exposes the
// process-wide collectors.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "mockapi",
		Registerer: reg,
	}))
	e.Use(requestLogger(d.Log))

	// --- Operational routes ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Admin API ---
	authHandler := handler.NewAuthHandler(d.Directory)
	roleHandler := handler.NewRoleHandler(d.Directory)
	cityHandler := handler.NewCityHandler(d.Directory)

	authenticated := middleware.Auth(d.JWTSecret)
	can := func(perms ...string) echo.MiddlewareFunc {
		return middleware.RequirePermission(d.Directory, d.Log, perms...)
	}
	viewRoles := can("view_roles", "manage_roles")
	manageRoles := can("manage_roles")
	managePermissions := can("manage_permissions", "manage_roles")

	api := e.Group(BasePath)

	auth := api.Group("/auth")
	auth.POST("/request-otp", authHandler.RequestOTP)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authenticated)
	auth.POST("/logout", authHandler.Logout, authenticated)
	auth.POST("/changerMotDePasse", authHandler.ChangePassword, authenticated)

	roles := api.Group("/roles", authenticated)
	roles.GET("", roleHandler.List, viewRoles)
	roles.POST("", roleHandler.Create, manageRoles)
	roles.GET("/:id", roleHandler.Get, viewRoles)
	roles.PUT("/:id", roleHandler.Update, manageRoles)
	roles.DELETE("/:id", roleHandler.Delete, manageRoles)
	roles.POST("/:id/permissions/:op", roleHandler.ChangePermissions, managePermissions)

	api.GET("/permissions", roleHandler.Permissions, authenticated, viewRoles)
	api.GET("/villes", cityHandler.List, authenticated)

	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
