package ports

import (
	"context"

	"github.com/purificadora/app-client/internal/core/domain"
)

// Catalog is the product listing screen. Offline is true when the products
// come from the built-in sample catalog because the backend failed.
type Catalog struct {
	Products []domain.Product
	Offline  bool
}

type ProductService interface {
	Catalog(ctx context.Context) (*Catalog, error)
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
}
