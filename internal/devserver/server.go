package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/api/middleware"
	"github.com/purificadora/app-client/internal/core/domain"
)

// Options configures the dev server.
type Options struct {
	Store       Store
	Idempotency Idempotency
	Tokens      *Tokens
	// PublicURL is published as ngrok_url by GET /api/data.
	PublicURL string
	// RedirectUnauthenticated answers rejected tokens with a 302 to /login
	// instead of a 401.
	RedirectUnauthenticated bool
	Logger                  zerolog.Logger
}

// New builds the Echo instance serving the backend routes under /api.
func New(opts Options) (*echo.Echo, error) {
	if opts.Store == nil || opts.Tokens == nil {
		return nil, errors.New("devserver: store and tokens are required")
	}
	if opts.Idempotency == nil {
		opts.Idempotency = NewMemoryIdempotency()
	}

	h := &handlers{
		store:     opts.Store,
		idem:      opts.Idempotency,
		tokens:    opts.Tokens,
		publicURL: opts.PublicURL,
		log:       opts.Logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(opts.Logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))

	api := e.Group("/api")
	api.POST("/login", h.login)
	api.POST("/register", h.register)
	api.GET("/data", h.data)

	auth := api.Group("", requireToken(opts.Tokens, opts.RedirectUnauthenticated))
	auth.PUT("/users/:id", h.updateUser)

	auth.GET("/productos", h.listProducts)
	auth.GET("/productos/:id", h.getProduct)
	auth.DELETE("/productos/:id", h.deleteProduct, requireAdmin)

	auth.GET("/pedidos", h.listOrders)
	auth.POST("/pedidos", h.createOrder)
	auth.GET("/pedidos/:id", h.getOrder)
	auth.PUT("/pedidos/:id", h.updateOrder)
	auth.DELETE("/pedidos/:id", h.deleteOrder)

	e.GET(LoginPath, h.loginPage)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e, nil
}

// EnsureAdmin creates an admin account for email unless one exists.
func EnsureAdmin(ctx context.Context, store Store, name, email, password string) error {
	if password == "" {
		return errors.New("devserver: admin password is empty")
	}
	if _, err := store.UserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("devserver: look up admin: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	_, err = store.CreateUser(ctx, &Account{
		User:         domain.User{Name: name, Email: email, Role: domain.RoleAdmin},
		PasswordHash: hash,
	})
	if err != nil && !errors.Is(err, ErrEmailTaken) {
		return fmt.Errorf("devserver: create admin: %w", err)
	}
	return nil
}
