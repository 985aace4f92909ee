package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
	"github.com/purificadora/app-client/internal/metrics"
)

type ProductService struct {
	clients ports.ClientFactory
	// offline enables the sample catalog when the backend cannot serve products.
	offline bool
	logger  zerolog.Logger
}

var _ ports.ProductService = (*ProductService)(nil)

func NewProductService(clients ports.ClientFactory, offlineCatalog bool, logger zerolog.Logger) *ProductService {
	return &ProductService{clients: clients, offline: offlineCatalog, logger: logger}
}

// Catalog lists the products, falling back to the sample catalog on
// connection failures and backend errors. Session errors always surface.
func (s *ProductService) Catalog(ctx context.Context) (*ports.Catalog, error) {
	products, err := s.List(ctx)
	if err == nil {
		return &ports.Catalog{Products: products}, nil
	}
	if !s.offline || !fallbackAllowed(err) {
		return nil, err
	}

	metrics.OfflineCatalogTotal.Inc()
	s.logger.Warn().Err(err).Msg("products unavailable, showing sample catalog")
	return &ports.Catalog{Products: domain.SampleCatalog(), Offline: true}, nil
}

func fallbackAllowed(err error) bool {
	if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrNotAuthenticated) {
		return false
	}
	var apiErr *domain.APIError
	return errors.Is(err, domain.ErrConnection) || errors.As(err, &apiErr)
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	products, err := api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(products)).Msg("products listed")
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*domain.Product, error) {
	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	p, err := api.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return err
	}
	if err := api.DeleteProduct(ctx, id); err != nil {
		return notFound(err, id)
	}
	s.logger.Info().Int("product_id", id).Msg("product deleted")
	return nil
}

func notFound(err error, id int) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	return err
}
