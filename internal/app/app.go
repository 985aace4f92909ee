// Package app wires the client core from configuration. The CLI and the
// gateway share it.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/config"
	"github.com/purificadora/app-client/internal/core/ports"
	"github.com/purificadora/app-client/internal/core/service"
	"github.com/purificadora/app-client/internal/core/validation"
	"github.com/purificadora/app-client/internal/infrastructure/backend"
	redisdb "github.com/purificadora/app-client/internal/infrastructure/db/redis"
	"github.com/purificadora/app-client/internal/infrastructure/prefs"
)

// Client is the assembled client core.
type Client struct {
	Prefs    ports.PrefsStore
	Session  *service.SessionStore
	Resolver *backend.Resolver
	Factory  *backend.Factory

	Auth     *service.AuthService
	Profile  *service.ProfileService
	Products *service.ProductService
	Orders   *service.OrderService

	closers []func() error
}

// New builds the client core. Close releases whatever the prefs backend opened.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Client, error) {
	c := &Client{}

	store, err := c.openPrefs(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Prefs = store
	c.Session = service.NewSessionStore(store)

	c.Resolver = backend.NewResolver(backend.ResolverOptions{
		DefaultURL: cfg.Backend.DefaultURL,
		Timeout:    cfg.Backend.DiscoveryTimeout,
		Store:      c.Session,
		Logger:     log.With().Str("component", "resolver").Logger(),
	})
	c.Factory, err = backend.NewFactory(ctx, backend.FactoryOptions{
		Resolver:            c.Resolver,
		Session:             c.Session,
		Timeout:             cfg.Backend.Timeout,
		ResetBaseURLOnStart: cfg.Backend.ResetBaseURLOnStart,
		OnSessionExpired: func(context.Context) {
			log.Warn().Msg("session expired, login required")
		},
		Logger: log.With().Str("component", "backend").Logger(),
	})
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	v := validation.New()
	svcLog := log.With().Str("component", "service").Logger()
	c.Auth = service.NewAuthService(c.Factory, c.Session, v, svcLog)
	c.Profile = service.NewProfileService(c.Factory, c.Session, v, svcLog)
	c.Products = service.NewProductService(c.Factory, cfg.Backend.OfflineCatalog, svcLog)
	c.Orders = service.NewOrderService(c.Factory, c.Session, v, svcLog)
	return c, nil
}

func (c *Client) openPrefs(ctx context.Context, cfg *config.Config) (ports.PrefsStore, error) {
	switch cfg.Prefs.Backend {
	case config.PrefsMemory:
		return prefs.NewMemoryStore(), nil
	case config.PrefsRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		c.closers = append(c.closers, client.Close)
		return redisdb.NewPrefsStore(client, cfg.Prefs.Name), nil
	case config.PrefsFile:
		path := cfg.Prefs.Path
		if path == "" {
			p, err := prefs.DefaultPath(cfg.Prefs.Name)
			if err != nil {
				return nil, fmt.Errorf("app: %w", err)
			}
			path = p
		}
		return prefs.NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("app: unknown prefs backend %q", cfg.Prefs.Backend)
	}
}

// Pinger is implemented by prefs backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func (c *Client) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}
