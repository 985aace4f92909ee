package ports

import (
	"context"

	"github.com/purificadora/app-client/internal/core/domain"
)

// ProfileInput carries the edit-profile form. The three password fields are
// only checked when at least one of them is filled in.
type ProfileInput struct {
	Name                 string `json:"name"                      validate:"required"`
	Phone                string `json:"telefono"                  validate:"omitempty,mxphone"`
	Address              string `json:"direccion"`
	CurrentPassword      string `json:"current_password"`
	NewPassword          string `json:"new_password"`
	PasswordConfirmation string `json:"new_password_confirmation"`
}

func (in ProfileInput) ChangingPassword() bool {
	return in.CurrentPassword != "" || in.NewPassword != "" || in.PasswordConfirmation != ""
}

type ProfileService interface {
	Update(ctx context.Context, input ProfileInput) (*domain.User, error)
}
