package ports

import (
	"context"

	"github.com/purificadora/app-client/internal/core/domain"
)

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*domain.Session, error)
	Register(ctx context.Context, input RegisterInput) (*domain.Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*domain.Session, error)
	Data(ctx context.Context) (*domain.DataResponse, error)
}
