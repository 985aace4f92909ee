package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/purificadora/app-client/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type sessionResponse struct {
	Message string   `json:"message"`
	User    userView `json:"user"`
}

// Login authenticates against the backend and stores the session locally.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.LoginInput  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Failure      502   {object}  errorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginInput
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}

	sess, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Message: "Bienvenido, " + sess.Name, User: sessionUser(sess)})
}

// Register creates a backend account and stores the session locally.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegisterInput  true  "User registration details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Failure      502   {object}  errorBody
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterInput
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}

	sess, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResponse{Message: "Registro exitoso", User: sessionUser(sess)})
}

// Logout forgets the stored session.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the logged-in user, as shown on the home screen.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorBody
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Message: "Bienvenido, " + sess.Name, User: sessionUser(sess)})
}

// Status calls the backend's authenticated data endpoint.
//
// @Summary      Backend status
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.DataResponse
// @Failure      401  {object}  errorBody
// @Failure      502  {object}  errorBody
// @Router       /status [get]
func (h *AuthHandler) Status(c echo.Context) error {
	data, err := h.authService.Data(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}
