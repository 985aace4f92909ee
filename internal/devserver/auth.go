package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/purificadora/app-client/internal/core/domain"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"

	// LoginPath is where unauthenticated requests are redirected in redirect mode.
	LoginPath = "/login"
)

var errInvalidToken = errors.New("invalid token")

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access tokens whose subject is the user id.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(a *Account) (string, error) {
	now := t.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(a.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})
	signed, err := tok.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the user id and role carried by a valid token.
func (t *Tokens) Verify(raw string) (int, string, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(raw, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !tok.Valid {
		return 0, "", errInvalidToken
	}
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return 0, "", errInvalidToken
	}
	return id, c.Role, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// requireToken rejects requests without a valid bearer token, either with a
// 401 or with a redirect to the login page.
func requireToken(tokens *Tokens, redirect bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, role, err := bearer(tokens, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				if redirect {
					return c.Redirect(http.StatusFound, LoginPath)
				}
				return newError(http.StatusUnauthorized, "Unauthenticated.")
			}
			c.Set(ctxUserID, id)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}

func bearer(tokens *Tokens, header string) (int, string, error) {
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
		return 0, "", errInvalidToken
	}
	return tokens.Verify(strings.TrimSpace(raw))
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get(ctxRole).(string); role != domain.RoleAdmin {
			return newError(http.StatusForbidden, "This action is unauthorized.")
		}
		return next(c)
	}
}

func currentUser(c echo.Context) (int, string) {
	id, _ := c.Get(ctxUserID).(int)
	role, _ := c.Get(ctxRole).(string)
	return id, role
}
