// Command purificadora-gateway serves the client use cases as a local JSON API.
//
//	@title			Purificadora gateway
//	@version		1.0
//	@description	Local JSON gateway over the purificadora client core.
//	@BasePath		/
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

	"github.com/purificadora/app-client/docs"
	"github.com/purificadora/app-client/internal/api"
	"github.com/purificadora/app-client/internal/api/handler"
	"github.com/purificadora/app-client/internal/app"
	"github.com/purificadora/app-client/internal/config"
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
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty(), Service: "purificadora-gateway"})

	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("gateway stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("closing client failed")
		}
	}()

	var checks []handler.Check
	if p, ok := client.Prefs.(app.Pinger); ok {
		checks = append(checks, handler.Check{Name: "prefs", Ping: p.Ping})
	}

	docs.SwaggerInfo.Host = "localhost:" + cfg.Gateway.Port
	e := api.NewRouter(api.Services{
		Auth:     client.Auth,
		Profile:  client.Profile,
		Products: client.Products,
		Orders:   client.Orders,
	}, logger.Component("gateway"), checks...)

	log.Info().Str("port", cfg.Gateway.Port).Msg("gateway listening")
	return serve(ctx, e, ":"+cfg.Gateway.Port, log)
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
	log.Info().Msg("gateway stopped")
	return nil
}
