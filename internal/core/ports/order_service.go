package ports

import (
	"context"

	"github.com/purificadora/app-client/internal/core/domain"
)

type PlaceOrderInput struct {
	ProductID int `json:"producto_id" validate:"required,gt=0"`
	Quantity  int `json:"cantidad"    validate:"required,gt=0"`
}

// Quote is what the user confirms before an order is sent.
type Quote struct {
	Product  domain.Product
	Quantity int
	Total    float64
}

func (q Quote) Request() domain.OrderRequest {
	return domain.OrderRequest{ProductID: q.Product.ID, Quantity: q.Quantity, Total: q.Total}
}

type OrderService interface {
	Quote(ctx context.Context, input PlaceOrderInput) (*Quote, error)
	Place(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id int) (*domain.Order, error)
	Update(ctx context.Context, id int, input PlaceOrderInput) (*domain.Order, error)
	Cancel(ctx context.Context, id int) error
}
