package backend

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
	"github.com/purificadora/app-client/internal/metrics"
)

// SessionStore is the slice of local state the factory reads and clears.
type SessionStore interface {
	BaseURLSaver
	BaseURL(ctx context.Context) (string, error)
	Token(ctx context.Context) (string, error)
	ClearBaseURL(ctx context.Context) error
	ClearCredentials(ctx context.Context) error
}

type FactoryOptions struct {
	Resolver *Resolver
	Session  SessionStore
	Timeout  time.Duration
	// Transport is shared by every client the factory builds.
	Transport http.RoundTripper
	// ResetBaseURLOnStart drops a base URL persisted by a previous run.
	// Otherwise the persisted URL is reused and discovery is skipped.
	ResetBaseURLOnStart bool
	// OnSessionExpired runs after local credentials have been cleared.
	OnSessionExpired func(ctx context.Context)
	Logger           zerolog.Logger
	Now              func() time.Time
}

// Factory builds backend clients against a base URL resolved once per
// factory, and clears the session whenever the backend rejects it.
type Factory struct {
	resolver  *Resolver
	session   SessionStore
	timeout   time.Duration
	transport http.RoundTripper
	onExpired func(ctx context.Context)
	log       zerolog.Logger
	now       func() time.Time

	mu      sync.Mutex
	baseURL string
	// persisted is set while a stored base URL may still be reused.
	persisted bool
}

var _ ports.ClientFactory = (*Factory)(nil)

func NewFactory(ctx context.Context, opts FactoryOptions) (*Factory, error) {
	if opts.Resolver == nil || opts.Session == nil {
		return nil, fmt.Errorf("backend: factory needs a resolver and a session store")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	f := &Factory{
		resolver:  opts.Resolver,
		session:   opts.Session,
		timeout:   opts.Timeout,
		transport: opts.Transport,
		onExpired: opts.OnSessionExpired,
		log:       opts.Logger,
		now:       now,
	}

	if opts.ResetBaseURLOnStart {
		if err := f.session.ClearBaseURL(ctx); err != nil {
			return nil, fmt.Errorf("backend: reset base URL: %w", err)
		}
	} else {
		f.persisted = true
	}
	return f, nil
}

// BaseURL returns the memoised base URL. On first use it takes the persisted
// one when reuse is allowed, and resolves it otherwise.
func (f *Factory) BaseURL(ctx context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.baseURL != "" {
		return f.baseURL
	}
	if f.persisted {
		f.persisted = false
		stored, err := f.session.BaseURL(ctx)
		if err != nil {
			f.log.Warn().Err(err).Msg("could not read persisted base URL")
		} else if stored != "" {
			f.log.Debug().Str("base_url", stored).Msg("reusing persisted base URL")
			f.baseURL = stored
			return f.baseURL
		}
	}
	f.baseURL = f.resolver.Resolve(ctx)
	return f.baseURL
}

// Reset forgets the base URL, persisted one included; the next client
// triggers discovery again.
func (f *Factory) Reset() {
	f.mu.Lock()
	f.baseURL = ""
	f.persisted = false
	f.mu.Unlock()
}

func (f *Factory) Anonymous(ctx context.Context) (ports.BackendAPI, error) {
	c, err := f.build(ctx, "")
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *Factory) Authenticated(ctx context.Context) (ports.BackendAPI, error) {
	token, err := f.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		f.log.Warn().Msg("no token stored, login required")
		f.expire(ctx, "missing_token")
		return nil, domain.ErrNotAuthenticated
	}
	if exp, ok := TokenExpiry(token); ok && !f.now().Before(exp) {
		f.log.Warn().Time("expired_at", exp).Msg("stored token has expired")
		f.expire(ctx, "token_expired")
		return nil, domain.ErrSessionExpired
	}
	c, err := f.build(ctx, token)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *Factory) build(ctx context.Context, token string) (*Client, error) {
	return New(Options{
		BaseURL:   f.BaseURL(ctx),
		Token:     token,
		Timeout:   f.timeout,
		Transport: f.transport,
		OnSessionExpired: func(ctx context.Context, reason string) {
			f.expire(ctx, reason)
		},
		Logger: f.log,
	})
}

// expire clears credentials and the base URL, like a forced return to the login screen.
func (f *Factory) expire(ctx context.Context, reason string) {
	metrics.SessionExpirationsTotal.WithLabelValues(reason).Inc()
	if err := f.session.ClearCredentials(ctx); err != nil {
		f.log.Error().Err(err).Msg("could not clear credentials")
	}
	f.Reset()
	if f.onExpired != nil {
		f.onExpired(ctx)
	}
}
