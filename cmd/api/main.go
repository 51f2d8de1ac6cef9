package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/karthikkarki2001-ops/bolt64/internal/httpapi"
	"github.com/karthikkarki2001-ops/bolt64/pkg/config"
	"github.com/karthikkarki2001-ops/bolt64/pkg/db"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}
	defer pool.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
	}

	rdb, err := db.OpenRedis(ctx, cfg.RedisAddr)
	if err != nil {
		// The directory cache is optional; run without it.
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:   cfg,
		DB:    pool,
		Redis: rdb,
		Log:   logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
