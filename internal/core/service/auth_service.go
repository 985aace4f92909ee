package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
	"github.com/purificadora/app-client/internal/core/validation"
)

const (
	msgLoginFailed    = "Credenciales incorrectas"
	msgRegisterFailed = "Error al registrar"
)

var errNoAccessToken = errors.New("backend response has no access token")

// AuthService implements login, registration and logout against the backend
// and keeps the resulting session in local storage.
type AuthService struct {
	clients  ports.ClientFactory
	session  *SessionStore
	validate *validation.Validator
	logger   zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(clients ports.ClientFactory, session *SessionStore, validate *validation.Validator, logger zerolog.Logger) *AuthService {
	return &AuthService{clients: clients, session: session, validate: validate, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*domain.Session, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	api, err := s.clients.Anonymous(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := api.Login(ctx, domain.LoginRequest{Email: input.Email, Password: input.Password})
	if err != nil {
		s.logger.Warn().Err(err).Str("email", input.Email).Msg("login failed")
		return nil, domain.WithFallback(err, msgLoginFailed)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login: %w", errNoAccessToken)
	}

	if err := s.session.SaveLogin(ctx, resp.AccessToken, resp.User); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info().Str("email", input.Email).Msg("login succeeded")
	return s.session.Load(ctx)
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Session, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	api, err := s.clients.Anonymous(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := api.Register(ctx, domain.RegisterRequest{Name: input.Name, Email: input.Email, Password: input.Password})
	if err != nil {
		s.logger.Warn().Err(err).Str("email", input.Email).Msg("registration failed")
		return nil, domain.WithFallback(err, msgRegisterFailed)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("register: %w", errNoAccessToken)
	}

	if err := s.session.SaveRegistration(ctx, resp.AccessToken, input.Name, input.Email, resp.User); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info().Str("email", input.Email).Msg("registration succeeded")
	return s.session.Load(ctx)
}

// Logout forgets every stored key, base URL included.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.ClearAll(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Msg("logged out")
	return nil
}

func (s *AuthService) Current(ctx context.Context) (*domain.Session, error) {
	sess, err := s.session.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return sess, nil
}

func (s *AuthService) Data(ctx context.Context) (*domain.DataResponse, error) {
	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	return api.Data(ctx)
}
