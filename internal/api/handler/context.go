package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/purificadora/app-client/internal/core/domain"
)

// Context keys set by middleware.RequireSession.
const (
	CtxSession = "session"
	CtxRole    = "role"
)

// ctxSession returns the session injected by the session middleware.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get(CtxSession).(*domain.Session)
	if sess == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return sess, nil
}

func paramID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	return id, nil
}

func errInvalidPayload() error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
}
