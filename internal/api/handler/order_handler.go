package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
)

// HeaderIdempotencyKey is forwarded to the backend on order creation.
const HeaderIdempotencyKey = "Idempotency-Key"

type OrderHandler struct {
	orderService ports.OrderService
}

func NewOrderHandler(orderService ports.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type quoteResponse struct {
	Product   productView `json:"producto"`
	Quantity  int         `json:"cantidad"`
	UnitPrice string      `json:"precio_unitario"`
	Total     float64     `json:"total"`
	TotalText string      `json:"total_texto"`
}

// Quote prices an order for the confirmation dialog without placing it.
//
// @Summary      Quote order
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Param        body  body      ports.PlaceOrderInput  true  "Product and quantity"
// @Success      200   {object}  quoteResponse
// @Failure      409   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /pedidos/quote [post]
func (h *OrderHandler) Quote(c echo.Context) error {
	var req ports.PlaceOrderInput
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}
	q, err := h.orderService.Quote(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quoteResponse{
		Product:   toProductView(q.Product),
		Quantity:  q.Quantity,
		UnitPrice: domain.FormatMXN(q.Product.Price),
		Total:     q.Total,
		TotalText: domain.FormatMXN(q.Total),
	})
}

// Create places an order. An Idempotency-Key header is passed to the backend.
//
// @Summary      Place order
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                 false  "Replay protection key"
// @Param        body             body      ports.PlaceOrderInput  true   "Product and quantity"
// @Success      201              {object}  orderView
// @Failure      409              {object}  errorBody
// @Failure      422              {object}  errorBody
// @Router       /pedidos [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req ports.PlaceOrderInput
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}

	ctx := c.Request().Context()
	if key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey)); key != "" {
		ctx = ports.WithIdempotencyKey(ctx, key)
	}

	order, err := h.orderService.Place(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderView(*order))
}

// List returns the user's orders.
//
// @Summary      List orders
// @Tags         pedidos
// @Produce      json
// @Success      200  {array}   orderView
// @Failure      401  {object}  errorBody
// @Router       /pedidos [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orderService.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderView(o))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one order.
//
// @Summary      Get order
// @Tags         pedidos
// @Produce      json
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  orderView
// @Failure      404  {object}  errorBody
// @Router       /pedidos/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	order, err := h.orderService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderView(*order))
}

// Update changes the product or quantity of an order.
//
// @Summary      Update order
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "Order id"
// @Param        body  body      ports.PlaceOrderInput  true  "Product and quantity"
// @Success      200   {object}  orderView
// @Failure      422   {object}  errorBody
// @Router       /pedidos/{id} [put]
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req ports.PlaceOrderInput
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}
	order, err := h.orderService.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderView(*order))
}

// Delete cancels an order.
//
// @Summary      Cancel order
// @Tags         pedidos
// @Param        id   path  int  true  "Order id"
// @Success      204
// @Router       /pedidos/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.orderService.Cancel(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
