package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
)

type ProfileHandler struct {
	profileService ports.ProfileService
}

func NewProfileHandler(profileService ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type profileResponse struct {
	Message string   `json:"message"`
	User    userView `json:"user"`
}

type passwordCheckRequest struct {
	Password string `json:"password"`
}

type passwordCheckResponse struct {
	Satisfied bool     `json:"satisfied"`
	Checklist []string `json:"checklist"`
}

// Update edits the profile and optionally changes the password.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      ports.ProfileInput  true  "Profile form"
// @Success      200   {object}  profileResponse
// @Failure      401   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /me [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req ports.ProfileInput
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}

	user, err := h.profileService.Update(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Message: "Perfil actualizado", User: domainUser(user)})
}

// CheckPassword reports which password requirements are met, for live form feedback.
//
// @Summary      Check password strength
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      passwordCheckRequest  true  "Candidate password"
// @Success      200   {object}  passwordCheckResponse
// @Router       /password/check [post]
func CheckPassword(c echo.Context) error {
	var req passwordCheckRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}
	r := domain.CheckPassword(req.Password)
	return c.JSON(http.StatusOK, passwordCheckResponse{Satisfied: r.Satisfied(), Checklist: r.Checklist()})
}
