// @title           Exercise Tracker API
// @version         1.0
// @description     Records users and their exercise log entries.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/99minutos/exercise-tracker/internal/api"
	"github.com/99minutos/exercise-tracker/internal/api/handler"
	"github.com/99minutos/exercise-tracker/internal/core/ports"
	"github.com/99minutos/exercise-tracker/internal/core/service"
	"github.com/99minutos/exercise-tracker/internal/infrastructure/db/mongo"
	"github.com/99minutos/exercise-tracker/internal/infrastructure/db/redis"
	"github.com/99minutos/exercise-tracker/internal/pkg/config"
	"github.com/99minutos/exercise-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "exercise-tracker",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	userRepo := mongo.NewUserRepository(db)
	exerciseRepo := mongo.NewExerciseRepository(db)
	if err := exerciseRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create exercise indexes")
	}

	checks := map[string]handler.CheckFunc{
		"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}

	var (
		cache ports.UserCache
		rdb   *goredis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		cache = redis.NewUserCache(rdb, cfg.Redis.UserTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Info().Msg("REDIS_ADDR not set, user cache disabled")
	}

	e := api.NewRouter(api.Dependencies{
		Users:     service.NewUserService(userRepo, cache, log),
		Exercises: service.NewExerciseService(userRepo, exerciseRepo, cache, log),
		Checks:    checks,
		JWTSecret: cfg.JWTSecret,
		StaticDir: cfg.StaticDir,
		Logger:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
}
