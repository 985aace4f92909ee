package devserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// apiError renders as a Laravel-style body: {"message": ..., "errors": {...}}.
type apiError struct {
	Status  int                 `json:"-"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (e *apiError) Error() string { return e.Message }

func newError(status int, message string) *apiError {
	return &apiError{Status: status, Message: message}
}

func invalid(field, message string) *apiError {
	return &apiError{
		Status:  http.StatusUnprocessableEntity,
		Message: message,
		Errors:  map[string][]string{field: {message}},
	}
}

func errorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			ae *apiError
			he *echo.HTTPError
		)
		switch {
		case errors.As(err, &ae):
		case errors.Is(err, ErrNotFound):
			ae = newError(http.StatusNotFound, "Not found.")
		case errors.As(err, &he):
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			ae = newError(he.Code, msg)
		default:
			log.Error().Err(err).Str("path", c.Path()).Msg("dev server request failed")
			ae = newError(http.StatusInternalServerError, "Server Error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(ae.Status)
			return
		}
		_ = c.JSON(ae.Status, ae)
	}
}
