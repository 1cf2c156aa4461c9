package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/medqueue/clinic-auth/docs"
	"github.com/medqueue/clinic-auth/internal/api/handler"
	"github.com/medqueue/clinic-auth/internal/api/middleware"
	"github.com/medqueue/clinic-auth/internal/core/ports"
)

// Dependencies are the services and health checks the router exposes.
type Dependencies struct {
	Auth         ports.AuthService
	Authz        ports.Authorizer
	Directory    ports.PrincipalDirectory
	Cookie       handler.SessionCookie
	HealthChecks map[string]handler.PingFunc
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("clinic_auth_http"))
	e.Use(middleware.SessionToken(deps.Cookie.Name))

	authenticated := []echo.MiddlewareFunc{
		middleware.Authenticate(deps.Authz),
		deps.Cookie.Slide(),
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookie)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, authenticated...)

	// --- Authorization API ---
	authzHandler := handler.NewAuthzHandler(deps.Directory)
	v1 := e.Group("/v1", authenticated...)
	v1.GET("/authz/roles/:role", authzHandler.CheckRole)
	v1.GET("/principals/:kind/:id", authzHandler.GetPrincipal, middleware.SelfOrAdmin("id"))

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request.
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
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
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
