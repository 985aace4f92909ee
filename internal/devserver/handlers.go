package devserver

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/metrics"
)

const headerIdempotencyKey = "Idempotency-Key"

type handlers struct {
	store     Store
	idem      Idempotency
	tokens    *Tokens
	publicURL string
	log       zerolog.Logger
}

type loginBody struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerBody struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type profileBody struct {
	Name                 string `json:"name"                      validate:"required,max=255"`
	Phone                string `json:"telefono"                  validate:"omitempty,len=10,numeric"`
	Address              string `json:"direccion"                 validate:"max=255"`
	CurrentPassword      string `json:"current_password"`
	NewPassword          string `json:"new_password"              validate:"omitempty,min=8"`
	PasswordConfirmation string `json:"new_password_confirmation"`
}

type orderBody struct {
	ProductID int     `json:"producto_id" validate:"required,gt=0"`
	Quantity  int     `json:"cantidad"    validate:"required,min=1,max=10"`
	Total     float64 `json:"total"       validate:"required,gt=0"`
}

type messageResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user,omitempty"`
}

func (h *handlers) login(c echo.Context) error {
	var body loginBody
	if err := bind(c, &body); err != nil {
		return err
	}
	acct, err := h.store.UserByEmail(c.Request().Context(), strings.TrimSpace(body.Email))
	if errors.Is(err, ErrNotFound) || (err == nil && !passwordMatches(acct.PasswordHash, body.Password)) {
		return newError(http.StatusUnauthorized, "Credenciales incorrectas")
	}
	if err != nil {
		return err
	}
	return h.authResponse(c, http.StatusOK, acct)
}

func (h *handlers) register(c echo.Context) error {
	var body registerBody
	if err := bind(c, &body); err != nil {
		return err
	}
	hash, err := hashPassword(body.Password)
	if err != nil {
		return err
	}
	acct, err := h.store.CreateUser(c.Request().Context(), &Account{
		User:         domain.User{Name: strings.TrimSpace(body.Name), Email: strings.TrimSpace(body.Email), Role: domain.DefaultRole},
		PasswordHash: hash,
	})
	if errors.Is(err, ErrEmailTaken) {
		return invalid("email", "The email has already been taken.")
	}
	if err != nil {
		return err
	}
	h.log.Info().Int("user_id", acct.ID).Msg("user registered")
	return h.authResponse(c, http.StatusCreated, acct)
}

func (h *handlers) authResponse(c echo.Context, status int, acct *Account) error {
	token, err := h.tokens.Issue(acct)
	if err != nil {
		return err
	}
	user := acct.User
	return c.JSON(status, domain.AuthResponse{AccessToken: token, TokenType: "Bearer", User: &user})
}

func (h *handlers) data(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.DataResponse{
		Message:  "Datos obtenidos correctamente",
		Data:     []int{1, 2, 3},
		NgrokURL: h.publicURL,
	})
}

func (h *handlers) updateUser(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if self, _ := currentUser(c); self != id {
		return newError(http.StatusForbidden, "This action is unauthorized.")
	}

	var body profileBody
	if err := bind(c, &body); err != nil {
		return err
	}
	ctx := c.Request().Context()
	acct, err := h.store.UserByID(ctx, id)
	if err != nil {
		return err
	}

	if body.NewPassword != "" {
		switch {
		case body.CurrentPassword == "":
			return invalid("current_password", "The current password field is required.")
		case !passwordMatches(acct.PasswordHash, body.CurrentPassword):
			return invalid("current_password", "The current password is incorrect.")
		case body.PasswordConfirmation != body.NewPassword:
			return invalid("new_password", "The new password field confirmation does not match.")
		case !domain.CheckPassword(body.NewPassword).Satisfied():
			return invalid("new_password", "The new password does not meet the password requirements.")
		}
		hash, err := hashPassword(body.NewPassword)
		if err != nil {
			return err
		}
		acct.PasswordHash = hash
	}

	acct.Name = strings.TrimSpace(body.Name)
	acct.Phone = body.Phone
	acct.Address = strings.TrimSpace(body.Address)
	if err := h.store.UpdateUser(ctx, acct); err != nil {
		return err
	}
	user := acct.User
	return c.JSON(http.StatusOK, messageResponse{Message: "Perfil actualizado correctamente", User: &user})
}

func (h *handlers) listProducts(c echo.Context) error {
	products, err := h.store.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	p, err := h.store.Product(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *handlers) deleteProduct(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Producto eliminado"})
}

func (h *handlers) listOrders(c echo.Context) error {
	userID, role := currentUser(c)
	if role == domain.RoleAdmin {
		userID = 0
	}
	stored, err := h.store.ListOrders(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	out := make([]domain.Order, 0, len(stored))
	for _, o := range stored {
		out = append(out, o.Order)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *handlers) getOrder(c echo.Context) error {
	o, err := h.ownedOrder(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o.Order)
}

func (h *handlers) createOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUser(c)

	key := strings.TrimSpace(c.Request().Header.Get(headerIdempotencyKey))
	if key != "" {
		prior, err := h.replay(ctx, key, userID)
		if err != nil {
			return err
		}
		if prior != nil {
			return c.JSON(http.StatusCreated, prior.Order)
		}
	}

	var body orderBody
	if err := bind(c, &body); err != nil {
		return err
	}
	p, total, err := h.priced(ctx, body)
	if err != nil {
		return err
	}
	if err := h.takeStock(ctx, p.ID, body.Quantity); err != nil {
		return err
	}

	p.Quantity -= body.Quantity
	created, err := h.store.CreateOrder(ctx, &StoredOrder{
		Order: domain.Order{
			ProductID: p.ID,
			Quantity:  body.Quantity,
			Total:     total,
			Status:    domain.OrderStatusPending,
			Product:   *p,
		},
		UserID: userID,
	})
	if err != nil {
		h.returnStock(ctx, p.ID, body.Quantity)
		return err
	}
	if key != "" {
		if err := h.idem.Remember(ctx, key, created.ID); err != nil {
			h.log.Warn().Err(err).Int("order_id", created.ID).Msg("idempotency key not stored")
		}
	}
	metrics.DevServerOrdersTotal.WithLabelValues("created").Inc()
	h.log.Info().Int("order_id", created.ID).Int("user_id", userID).Int("producto_id", p.ID).Msg("order created")
	return c.JSON(http.StatusCreated, created.Order)
}

// replay returns the order previously created under key by the same user.
func (h *handlers) replay(ctx context.Context, key string, userID int) (*StoredOrder, error) {
	orderID, ok, err := h.idem.Lookup(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	o, err := h.store.Order(ctx, orderID)
	if errors.Is(err, ErrNotFound) || (err == nil && o.UserID != userID) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	metrics.DevServerOrdersTotal.WithLabelValues("replayed").Inc()
	return o, nil
}

func (h *handlers) updateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	o, err := h.ownedOrder(c)
	if err != nil {
		return err
	}
	var body orderBody
	if err := bind(c, &body); err != nil {
		return err
	}
	p, total, err := h.priced(ctx, body)
	if err != nil {
		return err
	}

	// The old quantity goes back first, so raising the quantity of the same
	// product only needs the difference in stock.
	if err := h.store.AdjustStock(ctx, o.ProductID, o.Quantity); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := h.takeStock(ctx, p.ID, body.Quantity); err != nil {
		h.reclaim(ctx, o)
		return err
	}

	if fresh, err := h.store.Product(ctx, p.ID); err == nil {
		p = fresh
	}
	o.ProductID = p.ID
	o.Quantity = body.Quantity
	o.Total = total
	o.Product = *p
	if err := h.store.UpdateOrder(ctx, o); err != nil {
		return err
	}
	metrics.DevServerOrdersTotal.WithLabelValues("updated").Inc()
	return c.JSON(http.StatusOK, o.Order)
}

func (h *handlers) deleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	o, err := h.ownedOrder(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteOrder(ctx, o.ID); err != nil {
		return err
	}
	h.returnStock(ctx, o.ProductID, o.Quantity)
	metrics.DevServerOrdersTotal.WithLabelValues("deleted").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Pedido eliminado"})
}

// ownedOrder loads the order named by :id. Orders of other users are reported
// as missing unless the caller is an admin.
func (h *handlers) ownedOrder(c echo.Context) (*StoredOrder, error) {
	id, err := idParam(c)
	if err != nil {
		return nil, err
	}
	o, err := h.store.Order(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if userID, role := currentUser(c); o.UserID != userID && role != domain.RoleAdmin {
		return nil, ErrNotFound
	}
	return o, nil
}

// priced resolves the product and checks the submitted total against its price.
func (h *handlers) priced(ctx context.Context, body orderBody) (*domain.Product, float64, error) {
	p, err := h.store.Product(ctx, body.ProductID)
	if errors.Is(err, ErrNotFound) {
		return nil, 0, invalid("producto_id", "The selected producto id is invalid.")
	}
	if err != nil {
		return nil, 0, err
	}
	total := domain.OrderTotal(p.Price, body.Quantity)
	if math.Abs(total-body.Total) > 0.01 {
		return nil, 0, invalid("total", "The total does not match the product price.")
	}
	return p, total, nil
}

func (h *handlers) takeStock(ctx context.Context, productID, quantity int) error {
	err := h.store.AdjustStock(ctx, productID, -quantity)
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return invalid("cantidad", "No hay suficiente stock disponible.")
	case errors.Is(err, ErrNotFound):
		return invalid("producto_id", "The selected producto id is invalid.")
	}
	return err
}

func (h *handlers) returnStock(ctx context.Context, productID, quantity int) {
	if err := h.store.AdjustStock(ctx, productID, quantity); err != nil && !errors.Is(err, ErrNotFound) {
		h.log.Error().Err(err).Int("producto_id", productID).Msg("stock not restored")
	}
}

// reclaim takes back the stock of o after a failed update released it.
func (h *handlers) reclaim(ctx context.Context, o *StoredOrder) {
	if err := h.store.AdjustStock(ctx, o.ProductID, -o.Quantity); err != nil && !errors.Is(err, ErrNotFound) {
		h.log.Error().Err(err).Int("order_id", o.ID).Msg("stock not reclaimed after failed update")
	}
}

func (h *handlers) loginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Inicia sesión en /api/login"})
}

func idParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
