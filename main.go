package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shortlink-be/internal/cache"
	"shortlink-be/internal/clock"
	"shortlink-be/internal/config"
	"shortlink-be/internal/database"
	"shortlink-be/internal/logger"
	"shortlink-be/internal/reaper"
	"shortlink-be/internal/repository"
	"shortlink-be/internal/routes"
	"shortlink-be/internal/service"
	"shortlink-be/internal/shortid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(zapLogger)

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	linkRepo, closeRepo, err := openRepository(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer closeRepo()

	cacheClient := openCache(cfg, zapLogger)

	linkService := service.NewLinkService(
		linkRepo,
		shortid.NewGenerator(),
		cacheClient,
		clock.Real{},
		service.Options{BaseURL: cfg.BaseURL, CacheTTL: cfg.CacheTTL},
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(linkService, zapLogger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zapLogger.Info("server starting", zap.String("addr", srv.Addr), zap.String("base_url", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.ReaperInterval > 0 {
		r := reaper.New(linkService, cfg.ReaperInterval)
		g.Go(func() error {
			return r.Run(gctx)
		})
	}

	return g.Wait()
}

func openRepository(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (repository.LinkRepository, func(), error) {
	if cfg.DatabaseURL == config.MemoryDatabase {
		zapLogger.Warn("using in-memory link store, links will not survive a restart")
		return repository.NewMemoryLinkRepository(), func() {}, nil
	}

	conn, err := database.Open(ctx, cfg.DatabaseURL, zapLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(conn, zapLogger); err != nil {
		conn.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := conn.Close(); err != nil {
			zapLogger.Warn("failed to close database", zap.Error(err))
		}
	}
	return repository.NewLinkRepository(conn.DB, conn.Dialect), closeFn, nil
}

// openCache prefers Redis and falls back to an in-process cache.
func openCache(cfg *config.Config, zapLogger *zap.Logger) cache.Cache {
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err == nil {
			zapLogger.Info("connected to Redis cache")
			return redisCache
		}
		zapLogger.Warn("failed to connect to Redis, using in-memory cache", zap.Error(err))
	}
	return cache.NewMemoryCache(cfg.CacheTTL, 10*time.Minute)
}
