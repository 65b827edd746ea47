package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/newsfeed/newsfeed-api/docs"
	"github.com/newsfeed/newsfeed-api/internal/api/handler"
	"github.com/newsfeed/newsfeed-api/internal/api/middleware"
	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

// Deps is everything the router needs. Mongo, Redis and Registerer are
// optional: readiness is only mounted with a Mongo database, and request
// metrics plus /metrics only with a Registerer.
type Deps struct {
	Auth        ports.AuthService
	Preferences ports.PreferenceService
	News        ports.NewsService
	Tokens      ports.TokenVerifier
	Log         zerolog.Logger

	Mongo      *mongo.Database
	Redis      *redis.Client
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit("1M"))
	if d.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "newsfeed",
			Subsystem:  "http",
			Registerer: d.Registerer,
		}))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	prefHandler := handler.NewPreferenceHandler(d.Preferences)
	newsHandler := handler.NewNewsHandler(d.News)
	requireAuth := middleware.Auth(d.Tokens, d.Log)

	// --- User routes ---
	users := e.Group("/users")
	users.POST("/signup", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.GET("/preferences", prefHandler.Get, requireAuth)
	users.PUT("/preferences", prefHandler.Update, requireAuth)

	// --- News ---
	e.GET("/news", newsHandler.Personalized, requireAuth)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if d.Mongo != nil {
		e.GET("/health/ready", handler.NewReadinessHandler(d.Mongo, d.Redis).Readiness)
	}

	// --- Operational ---
	if d.Registerer != nil {
		gatherer := d.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	}
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
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			}
			if v.Error != nil {
				ev = ev.Err(v.Error)
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
