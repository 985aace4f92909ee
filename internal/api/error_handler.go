package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/validation"
)

// LoginRoute is where clients are sent when the session is missing or expired.
const LoginRoute = "/auth/login"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain and validation errors to HTTP status codes.
//   - Sends session failures back to the login route.
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve validation.Errors
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: validation.GeneralMessage, Fields: ve.Fields()}
	}

	var (
		apiErr  *domain.APIError
		connErr *domain.ConnectionError
	)
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, errorResponse{Error: domain.UserMessage(err, ""), Redirect: LoginRoute}
	case errors.Is(err, domain.ErrNoUserID), errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict, errorResponse{Error: domain.UserMessage(err, "")}
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, errorResponse{Error: domain.UserMessage(err, "")}
	case errors.As(err, &connErr):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unreachable")
		return http.StatusBadGateway, errorResponse{Error: domain.UserMessage(err, "")}
	case errors.As(err, &apiErr):
		code := apiErr.StatusCode
		if code < http.StatusBadRequest {
			code = http.StatusBadGateway
		}
		return code, errorResponse{Error: domain.UserMessage(err, http.StatusText(apiErr.StatusCode))}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
