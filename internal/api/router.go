package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/exercise-tracker/docs"
	"github.com/99minutos/exercise-tracker/internal/api/handler"
	"github.com/99minutos/exercise-tracker/internal/api/middleware"
	"github.com/99minutos/exercise-tracker/internal/core/ports"
)

const metricsSubsystem = "exercise_tracker"

// Dependencies carries everything the router needs to build its handlers.
type Dependencies struct {
	Users     ports.UserService
	Exercises ports.ExerciseService
	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handler.CheckFunc

	JWTSecret string
	StaticDir string
	Logger    zerolog.Logger

	// Registry receives the HTTP request metrics. Nil means the Prometheus
	// default registry, which also holds the domain metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: registerer,
	}))

	// --- Handlers ---
	userHandler := handler.NewUserHandler(deps.Users)
	exerciseHandler := handler.NewExerciseHandler(deps.Exercises)
	writeGuard := middleware.Auth(deps.JWTSecret)

	e.GET("/", handler.Index)
	// Assets are served from the site root; every named route below wins over
	// the static wildcard, and a missing file is a plain 404.
	if deps.StaticDir != "" {
		e.Static("/", deps.StaticDir)
	}

	// --- API routes ---
	users := e.Group("/api/users")
	users.POST("", userHandler.Create, writeGuard)
	users.GET("", userHandler.List)
	users.POST("/:id/exercises", exerciseHandler.Add, writeGuard)
	users.GET("/:id/logs", exerciseHandler.Logs)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog event per request.
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
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Msg("request")
			return nil
		},
	})
}
