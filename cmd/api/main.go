package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/wjlander/choo/internal/config"
	"github.com/wjlander/choo/internal/logger"
	"github.com/wjlander/choo/internal/metrics"
	"github.com/wjlander/choo/internal/platform/validation"
	"github.com/wjlander/choo/internal/version"

	// DDD slices (factories)
	committees "github.com/wjlander/choo/internal/committees"
	organizations "github.com/wjlander/choo/internal/organizations"
	settings "github.com/wjlander/choo/internal/settings"
	workflows "github.com/wjlander/choo/internal/workflows"
)

func main() {
	_ = godotenv.Load()

	if handleCLICommand(os.Args[1:]) {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.WithLevel(logger.New(cfg.AppEnv), cfg.LogLevel)
	log.Info().Str("config", cfg.String()).Str("version", version.String()).Msg("starting api server")

	// Init Postgres
	pgCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid DATABASE_URL")
	}
	pgPool, err := pgxpool.NewWithConfig(context.Background(), pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create pg pool")
	}
	defer pgPool.Close()

	// Init Redis/Valkey
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer redisClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middlewares
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Secure())
	e.Use(metrics.HTTPMiddleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			return matchCORSOrigin(origin, cfg.CORSAllowedOrigins), nil
		},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Validator
	e.Validator = validation.New()

	// Register domain routes via factories
	organizations.Register(e, pgPool, cfg)
	settings.Register(e, pgPool, cfg)
	committees.Register(e, pgPool, cfg)
	workflows.Register(e, pgPool, cfg)

	// Health endpoint pings DB and Redis and refreshes the availability gauges
	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := pgPool.Ping(ctx)
		dbStatus := metrics.ObservePing(metrics.DepPostgres, time.Since(start), err)

		start = time.Now()
		err = redisClient.Ping(ctx).Err()
		cacheStatus := metrics.ObservePing(metrics.DepRedis, time.Since(start), err)

		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"time":    time.Now().UTC().Format(time.RFC3339),
			"version": version.String(),
			"db":      dbStatus,
			"cache":   cacheStatus,
		})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Start server
	go func() {
		if err := e.Start(cfg.AppAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server stopped")
}
