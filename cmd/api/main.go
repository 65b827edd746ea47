// @title                       Newsfeed API
// @version                     1.0
// @description                 User registration, session tokens, reading preferences and a personalized news proxy.
// @BasePath                    /
// @securityDefinitions.apikey  SessionToken
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/newsfeed/newsfeed-api/internal/api"
	"github.com/newsfeed/newsfeed-api/internal/core/ports"
	"github.com/newsfeed/newsfeed-api/internal/core/service"
	"github.com/newsfeed/newsfeed-api/internal/infrastructure/config"
	"github.com/newsfeed/newsfeed-api/internal/infrastructure/db/mongo"
	"github.com/newsfeed/newsfeed-api/internal/infrastructure/db/redis"
	"github.com/newsfeed/newsfeed-api/internal/infrastructure/news"
	"github.com/newsfeed/newsfeed-api/internal/infrastructure/password"
	"github.com/newsfeed/newsfeed-api/internal/infrastructure/token"
	"github.com/newsfeed/newsfeed-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the process environment wins either way.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Error().Err(err).Msg("invalid configuration")
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "newsfeed-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Error().Err(err).Msg("mongodb unavailable")
		return err
	}
	defer func() {
		if err := mongo.Disconnect(context.Background(), mongoClient); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	users := mongo.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Error().Err(err).Msg("could not create user indexes")
		return err
	}

	var (
		rdb       *goredis.Client
		newsCache ports.NewsCache
	)
	redisCfg := redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err = redis.Connect(ctx, redisCfg)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, news cache disabled")
		} else {
			defer rdb.Close()
			newsCache = redis.NewNewsCache(rdb, cfg.News.CacheTTL)
		}
	}

	// --- Auth primitives ---
	poolCtx, stopPool := context.WithCancel(context.Background())
	hashers := password.NewPool(cfg.Auth.HashWorkers, password.NewBcrypt(cfg.Auth.BcryptCost), logger.Component("password"))
	hashers.Start(poolCtx)
	defer func() {
		stopPool()
		hashers.Wait()
	}()

	tokens := token.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// --- Services ---
	newsClient := news.NewClient(news.Config{
		BaseURL: cfg.News.BaseURL,
		APIKey:  cfg.News.APIKey,
		Timeout: cfg.News.Timeout,
	})

	e := api.NewRouter(api.Deps{
		Auth:        service.NewAuthService(users, hashers, tokens, logger.Component("auth")),
		Preferences: service.NewPreferenceService(users, logger.Component("preferences")),
		News:        service.NewNewsService(users, newsClient, newsCache, logger.Component("news")),
		Tokens:      tokens,
		Log:         log,
		Mongo:       db,
		Redis:       rdb,
		Registerer:  prometheus.DefaultRegisterer,
		Gatherer:    prometheus.DefaultGatherer,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
