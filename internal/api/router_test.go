package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
)

type fakeAuth struct {
	ports.AuthService
	sess *domain.Session
}

func (f *fakeAuth) Current(context.Context) (*domain.Session, error) {
	if f.sess == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return f.sess, nil
}

type fakeProducts struct {
	ports.ProductService
	deleted int
}

func (f *fakeProducts) Delete(context.Context, int) error {
	f.deleted++
	return nil
}

func serve(t *testing.T, svc Services, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := NewRouter(svc, zerolog.Nop())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	svc := Services{Auth: &fakeAuth{}}

	for _, target := range []string{"/health", "/health/ready", "/metrics", "/swagger/index.html"} {
		if rec := serve(t, svc, http.MethodGet, target); rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", target, rec.Code)
		}
	}
}

func TestRouter_SessionRequired(t *testing.T) {
	rec := serve(t, Services{Auth: &fakeAuth{}}, http.MethodGet, "/me")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"/auth/login"`) {
		t.Fatalf("expected login redirect, got %s", rec.Body.String())
	}
}

func TestRouter_DeleteProductNeedsAdmin(t *testing.T) {
	products := &fakeProducts{}
	user := Services{Auth: &fakeAuth{sess: &domain.Session{Token: "tok", Role: domain.DefaultRole}}, Products: products}
	if rec := serve(t, user, http.MethodDelete, "/productos/1"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a regular user, got %d", rec.Code)
	}

	admin := Services{Auth: &fakeAuth{sess: &domain.Session{Token: "tok", Role: domain.RoleAdmin}}, Products: products}
	if rec := serve(t, admin, http.MethodDelete, "/productos/1"); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for an admin, got %d", rec.Code)
	}
	if products.deleted != 1 {
		t.Fatalf("expected exactly one delete, got %d", products.deleted)
	}
}

var pathParam = regexp.MustCompile(`:(\w+)`)

func TestSwaggerDocCoversRoutes(t *testing.T) {
	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("swagger document is not valid JSON: %v", err)
	}

	e := NewRouter(Services{}, zerolog.Nop())
	for _, r := range e.Routes() {
		if r.Method == echo.RouteNotFound || r.Path == "/metrics" || strings.HasSuffix(r.Path, "*") {
			continue
		}
		path := pathParam.ReplaceAllString(r.Path, "{$1}")
		if _, ok := doc.Paths[path][strings.ToLower(r.Method)]; !ok {
			t.Errorf("%s %s is served but not documented", r.Method, path)
		}
	}
}
