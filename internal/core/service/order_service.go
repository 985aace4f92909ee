package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
	"github.com/purificadora/app-client/internal/core/validation"
	"github.com/purificadora/app-client/internal/metrics"
)

type OrderService struct {
	clients  ports.ClientFactory
	session  *SessionStore
	validate *validation.Validator
	logger   zerolog.Logger
}

var _ ports.OrderService = (*OrderService)(nil)

func NewOrderService(clients ports.ClientFactory, session *SessionStore, validate *validation.Validator, logger zerolog.Logger) *OrderService {
	return &OrderService{clients: clients, session: session, validate: validate, logger: logger}
}

// Quote fetches the product and prices the requested quantity without
// placing anything.
func (s *OrderService) Quote(ctx context.Context, input ports.PlaceOrderInput) (*ports.Quote, error) {
	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	return s.quote(ctx, api, input)
}

func (s *OrderService) quote(ctx context.Context, api ports.BackendAPI, input ports.PlaceOrderInput) (*ports.Quote, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}
	p, err := api.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, notFound(err, input.ProductID)
	}
	if err := s.validate.Quantity(*p, input.Quantity); err != nil {
		return nil, err
	}
	return &ports.Quote{
		Product:  *p,
		Quantity: input.Quantity,
		Total:    domain.OrderTotal(p.Price, input.Quantity),
	}, nil
}

// Place quotes the order again and sends it.
func (s *OrderService) Place(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	sess, err := s.session.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Authenticated() && !sess.HasUserID() {
		return nil, domain.ErrOrderWithoutUser
	}
	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	q, err := s.quote(ctx, api, input)
	if err != nil {
		return nil, err
	}

	order, err := api.CreateOrder(ctx, q.Request())
	if err != nil {
		s.logger.Warn().Err(err).Int("product_id", q.Product.ID).Int("cantidad", q.Quantity).Msg("order failed")
		return nil, domain.WithFallback(err, "Error al crear el pedido")
	}

	metrics.OrdersPlacedTotal.WithLabelValues(q.Product.Name).Inc()
	s.logger.Info().
		Int("order_id", order.ID).
		Int("user_id", sess.UserID).
		Int("product_id", q.Product.ID).
		Int("cantidad", q.Quantity).
		Float64("total", q.Total).
		Msg("order placed")
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	return api.ListOrders(ctx)
}

func (s *OrderService) Get(ctx context.Context, id int) (*domain.Order, error) {
	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	return api.GetOrder(ctx, id)
}

// Update reprices the order against current stock and sends the change.
func (s *OrderService) Update(ctx context.Context, id int, input ports.PlaceOrderInput) (*domain.Order, error) {
	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	q, err := s.quote(ctx, api, input)
	if err != nil {
		return nil, err
	}
	order, err := api.UpdateOrder(ctx, id, q.Request())
	if err != nil {
		return nil, domain.WithFallback(err, "Error al actualizar el pedido")
	}
	s.logger.Info().Int("order_id", id).Int("cantidad", q.Quantity).Msg("order updated")
	return order, nil
}

func (s *OrderService) Cancel(ctx context.Context, id int) error {
	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return err
	}
	if err := api.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("cancel order %d: %w", id, err)
	}
	s.logger.Info().Int("order_id", id).Msg("order cancelled")
	return nil
}
