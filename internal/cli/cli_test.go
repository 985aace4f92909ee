package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
	"github.com/purificadora/app-client/internal/core/validation"
)

type fakeAuth struct {
	session *domain.Session
	err     error
	login   ports.LoginInput
}

func (f *fakeAuth) Login(_ context.Context, in ports.LoginInput) (*domain.Session, error) {
	f.login = in
	return f.session, f.err
}
func (f *fakeAuth) Register(context.Context, ports.RegisterInput) (*domain.Session, error) {
	return f.session, f.err
}
func (f *fakeAuth) Logout(context.Context) error { return f.err }
func (f *fakeAuth) Current(context.Context) (*domain.Session, error) {
	return f.session, f.err
}
func (f *fakeAuth) Data(context.Context) (*domain.DataResponse, error) {
	return &domain.DataResponse{Message: "ok", NgrokURL: "https://abc.ngrok.app"}, f.err
}

type fakeProfile struct {
	updates []ports.ProfileInput
}

func (f *fakeProfile) Update(_ context.Context, in ports.ProfileInput) (*domain.User, error) {
	f.updates = append(f.updates, in)
	return &domain.User{ID: 7, Name: in.Name, Phone: in.Phone, Address: in.Address}, nil
}

type fakeProducts struct {
	catalog *ports.Catalog
}

func (f *fakeProducts) Catalog(context.Context) (*ports.Catalog, error) { return f.catalog, nil }
func (f *fakeProducts) List(context.Context) ([]domain.Product, error) {
	return f.catalog.Products, nil
}
func (f *fakeProducts) Get(context.Context, int) (*domain.Product, error) {
	return &f.catalog.Products[0], nil
}
func (f *fakeProducts) Delete(context.Context, int) error { return nil }

type fakeOrders struct {
	placed   []ports.PlaceOrderInput
	placeKey string
	list     []domain.Order
}

func (f *fakeOrders) Quote(_ context.Context, in ports.PlaceOrderInput) (*ports.Quote, error) {
	p := domain.Product{ID: in.ProductID, Name: "Garrafón 20L Nuevo", Price: 35}
	return &ports.Quote{Product: p, Quantity: in.Quantity, Total: domain.OrderTotal(p.Price, in.Quantity)}, nil
}
func (f *fakeOrders) Place(ctx context.Context, in ports.PlaceOrderInput) (*domain.Order, error) {
	f.placed = append(f.placed, in)
	f.placeKey = ports.IdempotencyKey(ctx)
	return &domain.Order{ID: 12, ProductID: in.ProductID, Quantity: in.Quantity}, nil
}
func (f *fakeOrders) List(context.Context) ([]domain.Order, error) { return f.list, nil }
func (f *fakeOrders) Get(context.Context, int) (*domain.Order, error) {
	return &domain.Order{ID: 3, Quantity: 1, Total: 15, Status: domain.OrderStatusPending, Product: domain.Product{Name: "Relleno de agua"}}, nil
}
func (f *fakeOrders) Update(_ context.Context, id int, in ports.PlaceOrderInput) (*domain.Order, error) {
	return &domain.Order{ID: id, Quantity: in.Quantity}, nil
}
func (f *fakeOrders) Cancel(context.Context, int) error { return nil }

type fakeBaseURLs struct {
	resets int
}

func (f *fakeBaseURLs) BaseURL(context.Context) string { return "http://localhost:8000/api/" }
func (f *fakeBaseURLs) Reset()                         { f.resets++ }

type harness struct {
	runner  *Runner
	auth    *fakeAuth
	profile *fakeProfile
	orders  *fakeOrders
	urls    *fakeBaseURLs
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func newHarness(stdin string) *harness {
	h := &harness{
		auth:    &fakeAuth{session: &domain.Session{Token: "t", UserID: 7, Name: "Ana", Email: "ana@example.com", Role: domain.DefaultRole}},
		profile: &fakeProfile{},
		orders:  &fakeOrders{},
		urls:    &fakeBaseURLs{},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
	}
	h.runner = &Runner{
		Auth:              h.auth,
		Profile:           h.profile,
		Products:          &fakeProducts{catalog: &ports.Catalog{Products: domain.SampleCatalog(), Offline: true}},
		Orders:            h.orders,
		BaseURLs:          h.urls,
		NewIdempotencyKey: func() string { return "key-1" },
		Stdin:             strings.NewReader(stdin),
		Stdout:            h.stdout,
		Stderr:            h.stderr,
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.runner.Run(context.Background(), args)
}

func TestRun_Usage(t *testing.T) {
	h := newHarness("")
	if code := h.run(); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(h.stderr.String(), "uso: purificadora") {
		t.Fatalf("expected usage, got %q", h.stderr)
	}

	h = newHarness("")
	if code := h.run("bogus"); code != 1 || !strings.Contains(h.stderr.String(), "comando desconocido: bogus") {
		t.Fatalf("unexpected result %d %q", code, h.stderr)
	}
}

func TestLogin(t *testing.T) {
	h := newHarness("")
	if code := h.run("login", "-email", "ana@example.com", "-password", "Agua2024!"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.stderr)
	}
	if h.auth.login.Email != "ana@example.com" {
		t.Fatalf("unexpected login input %+v", h.auth.login)
	}
	if got := h.stdout.String(); got != "Bienvenido, Ana\nana@example.com\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestErrorsGoToStderr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api fallback", &domain.APIError{StatusCode: 401, Fallback: "Credenciales incorrectas"}, "Credenciales incorrectas\n"},
		{"api body", &domain.APIError{StatusCode: 422, Body: `{"message":"x"}`}, `{"message":"x"}` + "\n"},
		{"session expired", domain.ErrSessionExpired, "Sesión expirada. Por favor, inicia sesión nuevamente.\n"},
		{"validation", validation.Errors{{Field: "email", Message: "Correo no válido"}}, validation.GeneralMessage + "\n  email: Correo no válido\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness("")
			h.auth.err = tt.err
			if code := h.run("whoami"); code != 1 {
				t.Fatalf("expected exit 1, got %d", code)
			}
			if got := h.stderr.String(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPasswordCheck(t *testing.T) {
	h := newHarness("")
	if code := h.run("password-check", "-password", "Agua2024!"); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	out := h.stdout.String()
	if !strings.HasPrefix(out, "✓ 8+ caracteres\n") || !strings.Contains(out, "cumple con todos los requisitos") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCreateOrder_Yes(t *testing.T) {
	h := newHarness("")
	if code := h.run("pedidos", "create", "-producto", "2", "-cantidad", "3", "-yes"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.stderr)
	}
	out := h.stdout.String()
	for _, want := range []string{"Precio unitario: $35.00", "Total: $105.00", "Pedido #12 creado"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if len(h.orders.placed) != 1 || h.orders.placeKey != "key-1" {
		t.Fatalf("expected one keyed order, got %+v key=%q", h.orders.placed, h.orders.placeKey)
	}
}

func TestCreateOrder_Confirmation(t *testing.T) {
	h := newHarness("n\n")
	if code := h.run("pedidos", "create", "-producto", "1", "-cantidad", "1"); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(h.stdout.String(), "Pedido cancelado") || len(h.orders.placed) != 0 {
		t.Fatalf("expected the order to be abandoned, got %q", h.stdout)
	}

	h = newHarness("sí\n")
	if code := h.run("pedidos", "create", "-producto", "1", "-cantidad", "1"); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(h.orders.placed) != 1 {
		t.Fatalf("expected the order to be placed after confirming")
	}
}

func TestProductosList_Offline(t *testing.T) {
	h := newHarness("")
	if code := h.run("productos", "list"); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "catálogo de ejemplo") || !strings.Contains(out, "Relleno de agua") || !strings.Contains(out, "$15.00") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPedidos_MissingID(t *testing.T) {
	h := newHarness("")
	if code := h.run("pedidos", "get"); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(h.stderr.String(), "-id es obligatorio") {
		t.Fatalf("unexpected stderr %q", h.stderr)
	}

	h = newHarness("")
	if code := h.run("pedidos", "archive"); code != 1 || !strings.Contains(h.stderr.String(), "subcomando desconocido: archive") {
		t.Fatalf("unexpected result %d %q", code, h.stderr)
	}
}

func TestPedidosList_Empty(t *testing.T) {
	h := newHarness("")
	if code := h.run("pedidos", "list"); code != 0 || h.stdout.String() != "No tienes pedidos\n" {
		t.Fatalf("unexpected result %d %q", code, h.stdout)
	}
}

func TestBaseURL_Resolve(t *testing.T) {
	h := newHarness("")
	if code := h.run("baseurl", "-resolve"); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if h.urls.resets != 1 || h.stdout.String() != "http://localhost:8000/api/\n" {
		t.Fatalf("unexpected result resets=%d out=%q", h.urls.resets, h.stdout)
	}
}

func TestProfile_KeepsOmittedFields(t *testing.T) {
	h := newHarness("")
	h.auth.session.Phone = "5512345678"
	h.auth.session.Address = "Calle 1"

	if code := h.run("profile", "-name", "Ana Maria"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.stderr)
	}
	if len(h.profile.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(h.profile.updates))
	}
	got := h.profile.updates[0]
	if got.Name != "Ana Maria" || got.Phone != "5512345678" || got.Address != "Calle 1" {
		t.Fatalf("unexpected profile input %+v", got)
	}

	h = newHarness("")
	h.auth.session.Address = "Calle 1"
	if code := h.run("profile", "-direccion", ""); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.stderr)
	}
	if got := h.profile.updates[0]; got.Name != "Ana" || got.Address != "" {
		t.Fatalf("an explicit empty flag should clear the field, got %+v", got)
	}
}

func TestProfile_RequiresSession(t *testing.T) {
	h := newHarness("")
	h.auth.session = nil
	h.auth.err = domain.ErrNotAuthenticated
	if code := h.run("profile", "-name", "Ana"); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if len(h.profile.updates) != 0 {
		t.Fatalf("expected no update without a session")
	}
}
