package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/purificadora/app-client/internal/api/handler"
	"github.com/purificadora/app-client/internal/core/ports"
)

// RequireSession loads the stored session and injects it, with its role,
// into the echo context. Without one the request fails with
// domain.ErrNotAuthenticated, which the error handler renders as a redirect
// to the login route.
func RequireSession(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := auth.Current(c.Request().Context())
			if err != nil {
				return err
			}
			c.Set(handler.CtxSession, sess)
			c.Set(handler.CtxRole, sess.Role)
			return next(c)
		}
	}
}
