package ports

import (
	"context"

	"github.com/purificadora/app-client/internal/core/domain"
)

// BackendAPI is the REST surface of the purificadora backend.
//
// Implementations return domain.ErrSessionExpired when the backend rejects the
// token, a *domain.ConnectionError on transport failures and a
// *domain.APIError for any other unsuccessful status.
type BackendAPI interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
	Data(ctx context.Context) (*domain.DataResponse, error)
	UpdateProfile(ctx context.Context, userID int, req domain.UpdateProfileRequest) (*domain.AuthResponse, error)

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int, req domain.OrderRequest) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int) error
}

// ClientFactory hands out backend clients bound to the resolved base URL.
type ClientFactory interface {
	// Anonymous returns a client that sends no credentials.
	Anonymous(ctx context.Context) (BackendAPI, error)
	// Authenticated returns a client carrying the stored bearer token, or
	// domain.ErrNotAuthenticated when there is none.
	Authenticated(ctx context.Context) (BackendAPI, error)
}
