package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
)

type testServer struct {
	e     *echo.Echo
	store *MemoryStore
}

func newTestServer(t *testing.T, redirect bool) *testServer {
	t.Helper()
	store := NewMemoryStore(domain.SampleCatalog()...)
	e, err := New(Options{
		Store:                   store,
		Tokens:                  NewTokens("test-secret", time.Hour),
		PublicURL:               "https://abc.ngrok.app",
		RedirectUnauthenticated: redirect,
		Logger:                  zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testServer{e: e, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, name, email string) domain.AuthResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"name": name, "email": email, "password": "Agua2024!",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	return decode[domain.AuthResponse](t, rec)
}

func (s *testServer) stock(t *testing.T, productID int) int {
	t.Helper()
	p, err := s.store.Product(context.Background(), productID)
	if err != nil {
		t.Fatalf("product %d: %v", productID, err)
	}
	return p.Quantity
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, false)
	reg := s.register(t, "Ana", "ana@example.com")
	if reg.AccessToken == "" || reg.TokenType != "Bearer" {
		t.Fatalf("expected bearer token, got %+v", reg)
	}
	if reg.User == nil || reg.User.ID != 1 || reg.User.Role != domain.DefaultRole {
		t.Fatalf("unexpected user %+v", reg.User)
	}

	rec := s.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ANA@example.com", "password": "Agua2024!"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if got := decode[domain.AuthResponse](t, rec); got.User.Email != "ana@example.com" {
		t.Fatalf("unexpected login user %+v", got.User)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t, false)
	s.register(t, "Ana", "ana@example.com")

	rec := s.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Otra", "email": "ana@example.com", "password": "Agua2024!",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decode[apiError](t, rec)
	if body.Message != "The email has already been taken." || len(body.Errors["email"]) != 1 {
		t.Fatalf("unexpected body %s", rec.Body)
	}
}

func TestRegister_ValidationMessages(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(t, http.MethodPost, "/api/register", "", map[string]string{"email": "nope", "password": "short"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decode[apiError](t, rec)
	if body.Message != "The name field is required. (and 2 more errors)" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if got := body.Errors["password"]; len(got) != 1 || got[0] != "The password field must be at least 8 characters." {
		t.Fatalf("unexpected password errors %v", got)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t, false)
	s.register(t, "Ana", "ana@example.com")

	for _, creds := range []map[string]string{
		{"email": "ana@example.com", "password": "Otra2024!"},
		{"email": "nadie@example.com", "password": "Agua2024!"},
	} {
		rec := s.do(t, http.MethodPost, "/api/login", "", creds)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if got := decode[apiError](t, rec).Message; got != "Credenciales incorrectas" {
			t.Fatalf("unexpected message %q", got)
		}
	}
}

func TestData_PublishesPublicURL(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(t, http.MethodGet, "/api/data", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[domain.DataResponse](t, rec).NgrokURL; got != "https://abc.ngrok.app" {
		t.Fatalf("unexpected ngrok_url %q", got)
	}
}

func TestUnauthenticated(t *testing.T) {
	s := newTestServer(t, false)
	for _, token := range []string{"", "garbage"} {
		rec := s.do(t, http.MethodGet, "/api/productos", token, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if got := decode[apiError](t, rec).Message; got != "Unauthenticated." {
			t.Fatalf("unexpected message %q", got)
		}
	}
}

func TestUnauthenticated_RedirectMode(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(t, http.MethodGet, "/api/pedidos", "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Fatalf("unexpected Location %q", loc)
	}
}

func TestProducts(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "Ana", "ana@example.com").AccessToken

	rec := s.do(t, http.MethodGet, "/api/productos", token, nil)
	if got := decode[[]domain.Product](t, rec); len(got) != 2 || got[0].ID != 1 {
		t.Fatalf("unexpected catalog %+v", got)
	}

	if rec := s.do(t, http.MethodGet, "/api/productos/99", token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodDelete, "/api/productos/1", token, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin delete, got %d", rec.Code)
	}
}

func TestDeleteProduct_Admin(t *testing.T) {
	s := newTestServer(t, false)
	ctx := context.Background()
	if err := EnsureAdmin(ctx, s.store, "Admin", "admin@example.com", "Admin2024!"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := EnsureAdmin(ctx, s.store, "Admin", "admin@example.com", "Admin2024!"); err != nil {
		t.Fatalf("EnsureAdmin twice: %v", err)
	}

	rec := s.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "admin@example.com", "password": "Admin2024!"})
	token := decode[domain.AuthResponse](t, rec).AccessToken

	if rec := s.do(t, http.MethodDelete, "/api/productos/2", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if _, err := s.store.Product(ctx, 2); err != ErrNotFound {
		t.Fatalf("expected product to be gone, got %v", err)
	}
}

func TestCreateOrder(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "Ana", "ana@example.com").AccessToken

	rec := s.do(t, http.MethodPost, "/api/pedidos", token, domain.OrderRequest{ProductID: 2, Quantity: 3, Total: 105})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	o := decode[domain.Order](t, rec)
	if o.ID != 1 || o.Status != domain.OrderStatusPending || o.Total != 105 || o.Product.Name != "Garrafón 20L Nuevo" {
		t.Fatalf("unexpected order %+v", o)
	}
	if got := s.stock(t, 2); got != 31 {
		t.Fatalf("expected stock 31, got %d", got)
	}
}

func TestCreateOrder_Rejections(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "Ana", "ana@example.com").AccessToken
	if err := s.store.AdjustStock(context.Background(), 2, -32); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}

	tests := []struct {
		name  string
		req   domain.OrderRequest
		field string
	}{
		{"total mismatch", domain.OrderRequest{ProductID: 1, Quantity: 2, Total: 29}, "total"},
		{"unknown product", domain.OrderRequest{ProductID: 9, Quantity: 1, Total: 15}, "producto_id"},
		{"over the per-order cap", domain.OrderRequest{ProductID: 1, Quantity: 11, Total: 165}, "cantidad"},
		{"over stock", domain.OrderRequest{ProductID: 2, Quantity: 3, Total: 105}, "cantidad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/pedidos", token, tt.req)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body)
			}
			if _, ok := decode[apiError](t, rec).Errors[tt.field]; !ok {
				t.Fatalf("expected error on %s, got %s", tt.field, rec.Body)
			}
		})
	}
	if got := s.stock(t, 2); got != 2 {
		t.Fatalf("rejected orders must not touch stock, got %d", got)
	}
}

func TestCreateOrder_IdempotentReplay(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "Ana", "ana@example.com").AccessToken
	req := domain.OrderRequest{ProductID: 1, Quantity: 2, Total: 30}

	first := decode[domain.Order](t, s.do(t, http.MethodPost, "/api/pedidos", token, req, headerIdempotencyKey, "k-1"))
	second := decode[domain.Order](t, s.do(t, http.MethodPost, "/api/pedidos", token, req, headerIdempotencyKey, "k-1"))
	if first.ID != second.ID {
		t.Fatalf("expected replay of order %d, got %d", first.ID, second.ID)
	}
	if got := s.stock(t, 1); got != 298 {
		t.Fatalf("replay must not take stock again, got %d", got)
	}

	other := s.register(t, "Luis", "luis@example.com").AccessToken
	third := decode[domain.Order](t, s.do(t, http.MethodPost, "/api/pedidos", other, req, headerIdempotencyKey, "k-1"))
	if third.ID == first.ID {
		t.Fatalf("a key must not replay another user's order")
	}
}

func TestOrders_Ownership(t *testing.T) {
	s := newTestServer(t, false)
	ana := s.register(t, "Ana", "ana@example.com").AccessToken
	luis := s.register(t, "Luis", "luis@example.com").AccessToken

	o := decode[domain.Order](t, s.do(t, http.MethodPost, "/api/pedidos", ana, domain.OrderRequest{ProductID: 1, Quantity: 1, Total: 15}))
	path := "/api/pedidos/" + strconv.Itoa(o.ID)

	if rec := s.do(t, http.MethodGet, path, luis, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's order, got %d", rec.Code)
	}
	if got := decode[[]domain.Order](t, s.do(t, http.MethodGet, "/api/pedidos", luis, nil)); len(got) != 0 {
		t.Fatalf("expected no orders for luis, got %+v", got)
	}
	if got := decode[[]domain.Order](t, s.do(t, http.MethodGet, "/api/pedidos", ana, nil)); len(got) != 1 {
		t.Fatalf("expected one order for ana, got %+v", got)
	}
}

func TestUpdateOrder_MovesStock(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "Ana", "ana@example.com").AccessToken
	o := decode[domain.Order](t, s.do(t, http.MethodPost, "/api/pedidos", token, domain.OrderRequest{ProductID: 1, Quantity: 4, Total: 60}))
	path := "/api/pedidos/" + strconv.Itoa(o.ID)

	rec := s.do(t, http.MethodPut, path, token, domain.OrderRequest{ProductID: 2, Quantity: 2, Total: 70})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	updated := decode[domain.Order](t, rec)
	if updated.ProductID != 2 || updated.Quantity != 2 || updated.Total != 70 {
		t.Fatalf("unexpected order %+v", updated)
	}
	if a, b := s.stock(t, 1), s.stock(t, 2); a != 300 || b != 32 {
		t.Fatalf("expected stock 300/32, got %d/%d", a, b)
	}
}

func TestUpdateOrder_FailureKeepsReservation(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "Ana", "ana@example.com").AccessToken
	o := decode[domain.Order](t, s.do(t, http.MethodPost, "/api/pedidos", token, domain.OrderRequest{ProductID: 2, Quantity: 4, Total: 140}))
	if err := s.store.AdjustStock(context.Background(), 2, -30); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}

	rec := s.do(t, http.MethodPut, "/api/pedidos/"+strconv.Itoa(o.ID), token, domain.OrderRequest{ProductID: 2, Quantity: 6, Total: 210})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body)
	}
	if got := s.stock(t, 2); got != 0 {
		t.Fatalf("expected the original reservation to stay, stock %d", got)
	}
}

func TestDeleteOrder_RestoresStock(t *testing.T) {
	s := newTestServer(t, false)
	token := s.register(t, "Ana", "ana@example.com").AccessToken
	o := decode[domain.Order](t, s.do(t, http.MethodPost, "/api/pedidos", token, domain.OrderRequest{ProductID: 2, Quantity: 5, Total: 175}))
	path := "/api/pedidos/" + strconv.Itoa(o.ID)

	if rec := s.do(t, http.MethodDelete, path, token, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := s.stock(t, 2); got != 34 {
		t.Fatalf("expected stock back to 34, got %d", got)
	}
	if rec := s.do(t, http.MethodGet, path, token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestServer(t, false)
	reg := s.register(t, "Ana", "ana@example.com")
	path := "/api/users/" + strconv.Itoa(reg.User.ID)

	rec := s.do(t, http.MethodPut, path, reg.AccessToken, domain.UpdateProfileRequest{Name: "Ana María", Phone: "5512345678", Address: "Calle 1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if got := decode[messageResponse](t, rec).User; got == nil || got.Name != "Ana María" || got.Phone != "5512345678" {
		t.Fatalf("unexpected user %+v", got)
	}

	rec = s.do(t, http.MethodPut, path, reg.AccessToken, domain.UpdateProfileRequest{
		Name: "Ana", CurrentPassword: "Mala2024!", NewPassword: "Nueva2024!", PasswordConfirmation: "Nueva2024!",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a wrong current password, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPut, path, reg.AccessToken, domain.UpdateProfileRequest{
		Name: "Ana", CurrentPassword: "Agua2024!", NewPassword: "Nueva2024!", PasswordConfirmation: "Nueva2024!",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a password change, got %d: %s", rec.Code, rec.Body)
	}
	login := s.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ana@example.com", "password": "Nueva2024!"})
	if login.Code != http.StatusOK {
		t.Fatalf("expected login with the new password, got %d", login.Code)
	}
}

func TestUpdateUser_OtherUserForbidden(t *testing.T) {
	s := newTestServer(t, false)
	ana := s.register(t, "Ana", "ana@example.com")
	luis := s.register(t, "Luis", "luis@example.com")

	rec := s.do(t, http.MethodPut, "/api/users/"+strconv.Itoa(ana.User.ID), luis.AccessToken, domain.UpdateProfileRequest{Name: "X"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
