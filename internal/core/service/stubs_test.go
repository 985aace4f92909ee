package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
	"github.com/purificadora/app-client/internal/core/validation"
	"github.com/purificadora/app-client/internal/infrastructure/prefs"
)

var storedKeys = []string{
	domain.KeyBaseURL, domain.KeyToken, domain.KeyUserID, domain.KeyName, domain.KeyEmail,
	domain.KeyPhone, domain.KeyAddress, domain.KeyEmailVerifiedAt, domain.KeyRole,
}

// stored returns every known preference key present in p.
func stored(t *testing.T, p ports.PrefsStore) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, k := range storedKeys {
		v, ok, err := p.Get(context.Background(), k)
		if err != nil {
			t.Fatalf("get %s: %v", k, err)
		}
		if ok {
			out[k] = v
		}
	}
	return out
}

// stubBackend answers from in-memory fixtures and records what it was sent.
type stubBackend struct {
	authResp *domain.AuthResponse
	authErr  error

	products    map[int]domain.Product
	productsErr error

	orders   []domain.Order
	orderErr error

	gotLogin    domain.LoginRequest
	gotRegister domain.RegisterRequest
	gotProfile  domain.UpdateProfileRequest
	gotUserID   int
	gotOrder    domain.OrderRequest
	deleted     []int
}

func (b *stubBackend) Login(_ context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	b.gotLogin = req
	return b.authResp, b.authErr
}

func (b *stubBackend) Register(_ context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	b.gotRegister = req
	return b.authResp, b.authErr
}

func (b *stubBackend) Data(context.Context) (*domain.DataResponse, error) {
	return &domain.DataResponse{Message: "ok", Data: []int{1, 2, 3}}, nil
}

func (b *stubBackend) UpdateProfile(_ context.Context, userID int, req domain.UpdateProfileRequest) (*domain.AuthResponse, error) {
	b.gotUserID = userID
	b.gotProfile = req
	return b.authResp, b.authErr
}

func (b *stubBackend) ListProducts(context.Context) ([]domain.Product, error) {
	if b.productsErr != nil {
		return nil, b.productsErr
	}
	out := make([]domain.Product, 0, len(b.products))
	for _, p := range b.products {
		out = append(out, p)
	}
	return out, nil
}

func (b *stubBackend) GetProduct(_ context.Context, id int) (*domain.Product, error) {
	if b.productsErr != nil {
		return nil, b.productsErr
	}
	p, ok := b.products[id]
	if !ok {
		return nil, &domain.APIError{StatusCode: 404, Body: `{"message":"No query results"}`}
	}
	return &p, nil
}

func (b *stubBackend) DeleteProduct(_ context.Context, id int) error {
	if _, ok := b.products[id]; !ok {
		return &domain.APIError{StatusCode: 404}
	}
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *stubBackend) ListOrders(context.Context) ([]domain.Order, error) {
	return b.orders, b.orderErr
}

func (b *stubBackend) GetOrder(_ context.Context, id int) (*domain.Order, error) {
	for _, o := range b.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, &domain.APIError{StatusCode: 404}
}

func (b *stubBackend) CreateOrder(_ context.Context, req domain.OrderRequest) (*domain.Order, error) {
	b.gotOrder = req
	if b.orderErr != nil {
		return nil, b.orderErr
	}
	o := domain.Order{ID: len(b.orders) + 1, ProductID: req.ProductID, Quantity: req.Quantity, Total: req.Total, Status: domain.OrderStatusPending}
	b.orders = append(b.orders, o)
	return &o, nil
}

func (b *stubBackend) UpdateOrder(_ context.Context, id int, req domain.OrderRequest) (*domain.Order, error) {
	b.gotOrder = req
	if b.orderErr != nil {
		return nil, b.orderErr
	}
	return &domain.Order{ID: id, ProductID: req.ProductID, Quantity: req.Quantity, Total: req.Total, Status: domain.OrderStatusPending}, nil
}

func (b *stubBackend) DeleteOrder(_ context.Context, id int) error {
	b.deleted = append(b.deleted, id)
	return b.orderErr
}

// stubFactory hands out the same backend and mimics the token check.
type stubFactory struct {
	backend *stubBackend
	session *SessionStore
	authErr error
	anon    int
	authed  int
}

func (f *stubFactory) Anonymous(context.Context) (ports.BackendAPI, error) {
	f.anon++
	return f.backend, nil
}

func (f *stubFactory) Authenticated(ctx context.Context) (ports.BackendAPI, error) {
	f.authed++
	if f.authErr != nil {
		return nil, f.authErr
	}
	token, err := f.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return f.backend, nil
}

type fixture struct {
	prefs   *prefs.MemoryStore
	session *SessionStore
	backend *stubBackend
	clients *stubFactory
	v       *validation.Validator
	log     zerolog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := prefs.NewMemoryStore()
	session := NewSessionStore(store)
	backend := &stubBackend{products: map[int]domain.Product{}}
	for _, p := range domain.SampleCatalog() {
		backend.products[p.ID] = p
	}
	return &fixture{
		prefs:   store,
		session: session,
		backend: backend,
		clients: &stubFactory{backend: backend, session: session},
		v:       validation.New(),
		log:     zerolog.Nop(),
	}
}

// loggedIn stores a session for user 7.
func (f *fixture) loggedIn(t *testing.T) {
	t.Helper()
	err := f.session.SaveLogin(context.Background(), "tok", &domain.User{ID: 7, Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("save login: %v", err)
	}
}
