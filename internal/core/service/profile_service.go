package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
	"github.com/purificadora/app-client/internal/core/validation"
)

const msgUpdateFailed = "Error al actualizar"

type ProfileService struct {
	clients  ports.ClientFactory
	session  *SessionStore
	validate *validation.Validator
	logger   zerolog.Logger
}

var _ ports.ProfileService = (*ProfileService)(nil)

func NewProfileService(clients ports.ClientFactory, session *SessionStore, validate *validation.Validator, logger zerolog.Logger) *ProfileService {
	return &ProfileService{clients: clients, session: session, validate: validate, logger: logger}
}

// Update sends the edit-profile form and stores the user the backend returns.
func (s *ProfileService) Update(ctx context.Context, input ports.ProfileInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Address = strings.TrimSpace(input.Address)
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	sess, err := s.session.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.HasUserID() {
		return nil, domain.ErrNoUserID
	}

	api, err := s.clients.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	req := domain.UpdateProfileRequest{
		Name:    input.Name,
		Address: input.Address,
		Phone:   input.Phone,
	}
	if input.ChangingPassword() {
		req.CurrentPassword = input.CurrentPassword
		req.NewPassword = input.NewPassword
		req.PasswordConfirmation = input.PasswordConfirmation
	}

	resp, err := api.UpdateProfile(ctx, sess.UserID, req)
	if err != nil {
		s.logger.Warn().Err(err).Int("user_id", sess.UserID).Msg("profile update failed")
		return nil, domain.WithFallback(err, msgUpdateFailed)
	}

	user := domain.User{
		ID:              sess.UserID,
		Name:            input.Name,
		Email:           sess.Email,
		Role:            sess.Role,
		Address:         input.Address,
		Phone:           input.Phone,
		EmailVerifiedAt: sess.EmailVerifiedAt,
	}
	if resp != nil && resp.User != nil {
		user = *resp.User
		if user.ID <= 0 {
			user.ID = sess.UserID
		}
	}

	if err := s.session.SaveProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	s.logger.Info().Int("user_id", user.ID).Bool("password_changed", input.ChangingPassword()).Msg("profile updated")
	return &user, nil
}
