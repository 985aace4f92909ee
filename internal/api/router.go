// Package api exposes the client use cases as a local JSON gateway.
package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/purificadora/app-client/docs"
	"github.com/purificadora/app-client/internal/api/handler"
	"github.com/purificadora/app-client/internal/api/middleware"
	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
)

// Services are the use cases the gateway serves.
type Services struct {
	Auth     ports.AuthService
	Profile  ports.ProfileService
	Products ports.ProductService
	Orders   ports.OrderService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, log zerolog.Logger, checks ...handler.Check) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(log))

	authHandler := handler.NewAuthHandler(svc.Auth)
	profileHandler := handler.NewProfileHandler(svc.Profile)
	productHandler := handler.NewProductHandler(svc.Products)
	orderHandler := handler.NewOrderHandler(svc.Orders)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST(LoginRoute, authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/password/check", handler.CheckPassword)

	// --- Session routes ---
	s := e.Group("", middleware.RequireSession(svc.Auth))
	s.GET("/me", authHandler.Me)
	s.PUT("/me", profileHandler.Update)
	s.GET("/status", authHandler.Status)

	s.GET("/productos", productHandler.List)
	s.GET("/productos/:id", productHandler.Get)
	s.DELETE("/productos/:id", productHandler.Delete, middleware.RBAC(domain.RoleAdmin))

	s.GET("/pedidos", orderHandler.List)
	s.POST("/pedidos", orderHandler.Create)
	s.POST("/pedidos/quote", orderHandler.Quote)
	s.GET("/pedidos/:id", orderHandler.Get)
	s.PUT("/pedidos/:id", orderHandler.Update)
	s.DELETE("/pedidos/:id", orderHandler.Delete)

	// --- Health probes, metrics and docs (no session required) ---
	e.GET("/health", handler.Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(checks...).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
