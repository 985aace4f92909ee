package service

import (
	"context"
	"errors"
	"testing"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
	"github.com/purificadora/app-client/internal/core/validation"
)

func TestProfileService_Update(t *testing.T) {
	f := newFixture(t)
	f.loggedIn(t)
	f.backend.authResp = &domain.AuthResponse{User: &domain.User{
		ID: 7, Name: "Ana López", Email: "ana@example.com", Phone: "5512345678", Address: "Centro", Role: domain.RoleAdmin,
	}}
	svc := NewProfileService(f.clients, f.session, f.v, f.log)

	user, err := svc.Update(context.Background(), ports.ProfileInput{Name: "Ana López", Phone: "5512345678", Address: "Centro"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if f.backend.gotUserID != 7 {
		t.Fatalf("expected PUT users/7, got %d", f.backend.gotUserID)
	}
	if f.backend.gotProfile.NewPassword != "" || f.backend.gotProfile.CurrentPassword != "" {
		t.Fatalf("password fields must be empty when not changing password")
	}
	if user.Name != "Ana López" {
		t.Fatalf("unexpected user %+v", user)
	}

	snap := stored(t, f.prefs)
	if snap[domain.KeyName] != "Ana López" || snap[domain.KeyRole] != domain.RoleAdmin || snap[domain.KeyToken] != "tok" {
		t.Fatalf("unexpected stored profile %v", snap)
	}
}

func TestProfileService_UpdateWithoutReturnedUser(t *testing.T) {
	f := newFixture(t)
	f.loggedIn(t)
	f.backend.authResp = &domain.AuthResponse{}
	svc := NewProfileService(f.clients, f.session, f.v, f.log)

	user, err := svc.Update(context.Background(), ports.ProfileInput{Name: "Ana", Address: "Norte"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if user.ID != 7 || user.Address != "Norte" || user.Email != "ana@example.com" {
		t.Fatalf("expected the submitted form merged with the session, got %+v", user)
	}
}

func TestProfileService_PasswordRules(t *testing.T) {
	f := newFixture(t)
	f.loggedIn(t)
	svc := NewProfileService(f.clients, f.session, f.v, f.log)

	_, err := svc.Update(context.Background(), ports.ProfileInput{
		Name: "Ana", Phone: "55-1234", NewPassword: "Agua2024!", PasswordConfirmation: "Agua2025!",
	})
	var ve validation.Errors
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	fields := ve.Fields()
	if fields["telefono"] == "" || fields["current_password"] == "" || fields["new_password_confirmation"] == "" {
		t.Fatalf("unexpected field errors %v", fields)
	}
	if _, bad := fields["new_password"]; bad {
		t.Fatalf("a strong new password must not be flagged: %v", fields)
	}
}

func TestProfileService_NoUserID(t *testing.T) {
	f := newFixture(t)
	_ = f.session.SaveRegistration(context.Background(), "tok", "Ana", "ana@example.com", nil)
	svc := NewProfileService(f.clients, f.session, f.v, f.log)

	_, err := svc.Update(context.Background(), ports.ProfileInput{Name: "Ana"})
	if !errors.Is(err, domain.ErrNoUserID) {
		t.Fatalf("expected ErrNoUserID, got %v", err)
	}
}

func TestProfileService_BackendFailureFallback(t *testing.T) {
	f := newFixture(t)
	f.loggedIn(t)
	f.backend.authErr = &domain.APIError{StatusCode: 500}
	svc := NewProfileService(f.clients, f.session, f.v, f.log)

	_, err := svc.Update(context.Background(), ports.ProfileInput{Name: "Ana"})
	if got := domain.UserMessage(err, "Error"); got != "Error al actualizar" {
		t.Fatalf("unexpected message %q", got)
	}
}
