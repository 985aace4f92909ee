package service

import (
	"context"
	"fmt"
	"maps"
	"strconv"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
)

// SessionStore gives typed access to the session keys kept in a PrefsStore.
type SessionStore struct {
	prefs ports.PrefsStore
}

func NewSessionStore(prefs ports.PrefsStore) *SessionStore {
	return &SessionStore{prefs: prefs}
}

// Load reads the stored session. A missing token yields an unauthenticated
// session, not an error.
func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	sess := &domain.Session{}
	fields := []struct {
		key string
		dst *string
	}{
		{domain.KeyToken, &sess.Token},
		{domain.KeyName, &sess.Name},
		{domain.KeyEmail, &sess.Email},
		{domain.KeyPhone, &sess.Phone},
		{domain.KeyAddress, &sess.Address},
		{domain.KeyEmailVerifiedAt, &sess.EmailVerifiedAt},
		{domain.KeyRole, &sess.Role},
	}
	for _, f := range fields {
		v, _, err := s.prefs.Get(ctx, f.key)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", f.key, err)
		}
		*f.dst = v
	}

	raw, ok, err := s.prefs.Get(ctx, domain.KeyUserID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", domain.KeyUserID, err)
	}
	if ok {
		// -1 is what older installs wrote when no id was known.
		if id, err := strconv.Atoi(raw); err == nil && id > 0 {
			sess.UserID = id
		}
	}
	if sess.Role == "" && sess.Token != "" {
		sess.Role = domain.DefaultRole
	}
	return sess, nil
}

func (s *SessionStore) Token(ctx context.Context) (string, error) {
	v, _, err := s.prefs.Get(ctx, domain.KeyToken)
	return v, err
}

// SaveLogin stores the token and every user field in one batch.
func (s *SessionStore) SaveLogin(ctx context.Context, token string, u *domain.User) error {
	values := map[string]string{domain.KeyToken: token}
	if u != nil {
		maps.Copy(values, userValues(*u))
	}
	return s.prefs.Set(ctx, values)
}

// SaveRegistration stores the token, name and email the user registered
// with, plus the full user when the backend returned one.
func (s *SessionStore) SaveRegistration(ctx context.Context, token, name, email string, u *domain.User) error {
	if u != nil {
		return s.SaveLogin(ctx, token, u)
	}
	return s.prefs.Set(ctx, map[string]string{
		domain.KeyToken: token,
		domain.KeyName:  name,
		domain.KeyEmail: email,
	})
}

// SaveProfile overwrites the profile fields but keeps the token.
func (s *SessionStore) SaveProfile(ctx context.Context, u domain.User) error {
	values := userValues(u)
	if u.ID <= 0 {
		delete(values, domain.KeyUserID)
	}
	return s.prefs.Set(ctx, values)
}

// ClearCredentials drops the token and the resolved base URL. Profile fields
// stay so the login form can be prefilled.
func (s *SessionStore) ClearCredentials(ctx context.Context) error {
	return s.prefs.Delete(ctx, domain.KeyToken, domain.KeyBaseURL)
}

// ClearAll wipes every key, as on logout.
func (s *SessionStore) ClearAll(ctx context.Context) error {
	return s.prefs.Clear(ctx)
}

func (s *SessionStore) BaseURL(ctx context.Context) (string, error) {
	v, _, err := s.prefs.Get(ctx, domain.KeyBaseURL)
	return v, err
}

func (s *SessionStore) SaveBaseURL(ctx context.Context, baseURL string) error {
	return s.prefs.Set(ctx, map[string]string{domain.KeyBaseURL: baseURL})
}

func (s *SessionStore) ClearBaseURL(ctx context.Context) error {
	return s.prefs.Delete(ctx, domain.KeyBaseURL)
}

func userValues(u domain.User) map[string]string {
	role := u.Role
	if role == "" {
		role = domain.DefaultRole
	}
	id := u.ID
	if id <= 0 {
		id = -1
	}
	return map[string]string{
		domain.KeyUserID:          strconv.Itoa(id),
		domain.KeyName:            u.Name,
		domain.KeyEmail:           u.Email,
		domain.KeyPhone:           u.Phone,
		domain.KeyAddress:         u.Address,
		domain.KeyEmailVerifiedAt: u.EmailVerifiedAt,
		domain.KeyRole:            role,
	}
}
