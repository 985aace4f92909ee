package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks form input rejected before any request is sent.
	ErrValidation = errors.New("validation failed")
	// ErrNotAuthenticated means no token is stored; the caller should show the login screen.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the backend rejected the token (401, or a redirect to login).
	// The local credentials have already been cleared when this is returned.
	ErrSessionExpired = errors.New("session expired")
	// ErrConnection wraps transport failures: DNS, refused connections, timeouts.
	ErrConnection = errors.New("connection error")
	// ErrNoUserID means the session has a token but no user id.
	ErrNoUserID        = errors.New("user id not found in session")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("no stock available")
	// ErrOrderWithoutUser is ErrNoUserID as raised when placing an order.
	ErrOrderWithoutUser = fmt.Errorf("place order: %w", ErrNoUserID)
)

// APIError is an unsuccessful HTTP status carrying the server's raw body.
type APIError struct {
	StatusCode int
	Body       string
	// Fallback is shown instead of an empty body.
	Fallback string
}

func (e *APIError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, body)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// MessageOr returns the server body, or fallback when the body is empty.
func (e *APIError) MessageOr(fallback string) string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fallback
}

// WithFallback sets the message shown when err is an APIError with an empty body.
func WithFallback(err error, fallback string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Fallback == "" {
		apiErr.Fallback = fallback
	}
	return err
}

// ConnectionError is a transport failure. It matches ErrConnection under errors.Is.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return ErrConnection.Error() + ": " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// UserMessage turns any error returned by the client into the text shown to the user.
func UserMessage(err error, fallback string) string {
	var (
		apiErr  *APIError
		connErr *ConnectionError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		if apiErr.Fallback != "" {
			fallback = apiErr.Fallback
		}
		return apiErr.MessageOr(fallback)
	case errors.Is(err, ErrSessionExpired):
		return "Sesión expirada. Por favor, inicia sesión nuevamente."
	case errors.Is(err, ErrNotAuthenticated):
		return "Token no disponible. Inicia sesión."
	case errors.Is(err, ErrOrderWithoutUser):
		return "Usuario no identificado"
	case errors.Is(err, ErrNoUserID):
		return "Error: No se encontró ID de usuario"
	case errors.Is(err, ErrOutOfStock):
		return "No hay stock disponible"
	case errors.Is(err, ErrProductNotFound):
		return "Producto no disponible"
	case errors.As(err, &connErr):
		return "Error de conexión: " + connErr.Err.Error()
	case errors.Is(err, ErrConnection):
		return "Error de conexión"
	default:
		return err.Error()
	}
}
