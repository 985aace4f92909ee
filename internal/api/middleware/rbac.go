package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/purificadora/app-client/internal/api/handler"
	"github.com/purificadora/app-client/internal/core/domain"
)

const msgForbidden = "No tienes permiso para realizar esta acción"

// RBAC admits sessions whose role is one of roles. It must run after
// RequireSession; a request that reaches it without a role is unauthenticated.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(handler.CtxRole).(string)
			if !ok {
				return domain.ErrNotAuthenticated
			}
			if !slices.Contains(roles, role) {
				return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
			}
			return next(c)
		}
	}
}
