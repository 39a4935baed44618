package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/devmatch/account-service/docs"
	"github.com/devmatch/account-service/internal/api/handler"
	"github.com/devmatch/account-service/internal/api/middleware"
	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is wired with.
type Deps struct {
	Accounts ports.AccountService
	Tokens   ports.TokenVerifier
	Resolver ports.AccountResolver
	// Checks feed the readiness probe, keyed by dependency name.
	Checks map[string]handler.Check
	// SecureCookie marks the session cookie Secure (production).
	SecureCookie bool
	Log          zerolog.Logger
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "accounts",
		Registerer: registerer,
	}))

	authHandler := handler.NewAuthHandler(d.Accounts, d.SecureCookie)
	accountHandler := handler.NewAccountHandler(d.Accounts)
	gate := middleware.Auth(d.Tokens, d.Resolver, d.Log)

	v1 := e.Group("/v1/api")

	// --- Public ---
	v1.POST("/signUp", authHandler.SignUp)
	v1.POST("/signIn", authHandler.SignIn)

	// --- Behind the auth gate ---
	v1.GET("/users", accountHandler.List, gate)
	v1.GET("/user/id/:id", accountHandler.GetByID, gate)
	v1.GET("/user/email/:email", accountHandler.GetByEmail, gate)
	v1.DELETE("/user/id/:id", accountHandler.Delete, gate)
	v1.PATCH("/user/id/:id", accountHandler.Update, gate, middleware.AllowFields(domain.UpdatableFields...))

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)                  // liveness  – is the process alive?
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
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
