// Command purificadora-devserver runs a stand-in purificadora backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/config"
	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/devserver"
	mongodb "github.com/purificadora/app-client/internal/infrastructure/db/mongo"
	redisdb "github.com/purificadora/app-client/internal/infrastructure/db/redis"
	"github.com/purificadora/app-client/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty(), Service: "purificadora-devserver"})

	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("dev server stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var store devserver.Store = devserver.NewMemoryStore(domain.SampleCatalog()...)
	if cfg.Mongo.URI != "" {
		ms, err := mongodb.Open(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return fmt.Errorf("open MongoDB store: %w", err)
		}
		defer func() { _ = ms.Close(context.Background()) }()

		if err := ms.Seed(ctx, domain.SampleCatalog()); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		store = ms
		log.Info().Str("database", cfg.Mongo.Database).Msg("using MongoDB storage")
	}

	var idem devserver.Idempotency = devserver.NewMemoryIdempotency()
	if cfg.Redis.Addr != "" {
		rc, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return fmt.Errorf("connect to Redis: %w", err)
		}
		defer rc.Close()
		idem = redisdb.NewIdempotencyRegistry(rc)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using Redis idempotency registry")
	}

	if cfg.DevServer.AdminEmail != "" {
		if err := devserver.EnsureAdmin(ctx, store, "Administrador", cfg.DevServer.AdminEmail, cfg.DevServer.AdminPassword); err != nil {
			return fmt.Errorf("seed admin account: %w", err)
		}
	}

	e, err := devserver.New(devserver.Options{
		Store:                   store,
		Idempotency:             idem,
		Tokens:                  devserver.NewTokens(cfg.DevServer.JWTSecret, cfg.DevServer.TokenTTL),
		PublicURL:               cfg.DevServer.PublicURL,
		RedirectUnauthenticated: cfg.DevServer.RedirectUnauthenticated,
		Logger:                  logger.Component("devserver"),
	})
	if err != nil {
		return fmt.Errorf("build dev server: %w", err)
	}

	log.Info().Str("port", cfg.DevServer.Port).Msg("dev server listening")
	return serve(ctx, e, ":"+cfg.DevServer.Port, log)
}

// serve runs e until ctx is done or the listener fails, then shuts it down.
func serve(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("dev server stopped")
	return nil
}
