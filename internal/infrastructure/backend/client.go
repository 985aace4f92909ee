// Package backend talks to the purificadora REST API. It resolves the base
// URL, attaches credentials and maps HTTP outcomes onto the domain error
// taxonomy.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// ErrEmptyResponse is returned when a 2xx response that should carry a body has none.
var ErrEmptyResponse = errors.New("empty response body")

// Options configures a Client.
type Options struct {
	BaseURL string
	// Token is sent as a bearer credential when non-empty.
	Token   string
	Timeout time.Duration
	// Transport is the innermost round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	// OnSessionExpired runs when the backend rejects the token. The reason is
	// "unauthorized" or "login_redirect".
	OnSessionExpired func(ctx context.Context, reason string)
	Logger           zerolog.Logger
}

// Client is a thin JSON wrapper over the backend endpoints.
type Client struct {
	baseURL *url.URL
	// authenticated clients treat 401 and login redirects as session expiry.
	authenticated bool
	http          *http.Client
	onExpired     func(ctx context.Context, reason string)
	log           zerolog.Logger
}

// New builds a Client. Redirects are never followed so that a redirect to the
// login page can be detected. Without a token a 401 is an ordinary APIError.
func New(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	inner := opts.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}

	return &Client{
		baseURL:       base,
		authenticated: opts.Token != "",
		http: &http.Client{
			Timeout: timeout,
			Transport: &headerTransport{
				token: opts.Token,
				next:  &loggingTransport{next: inner, log: opts.Logger},
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		onExpired: opts.OnSessionExpired,
		log:       opts.Logger,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("backend: empty base URL")
	}
	u, err := url.Parse(normalizeBaseURL(raw))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend: unsupported base URL scheme %q", u.Scheme)
	}
	return u, nil
}

// normalizeBaseURL guarantees a trailing slash so relative paths resolve under it.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw
}

// BaseURL returns the root every endpoint is resolved against.
func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.do(ctx, "login", http.MethodPost, &out, req, "login"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.do(ctx, "register", http.MethodPost, &out, req, "register"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Data(ctx context.Context) (*domain.DataResponse, error) {
	var out domain.DataResponse
	if err := c.do(ctx, "data", http.MethodGet, &out, nil, "data"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, userID int, req domain.UpdateProfileRequest) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.do(ctx, "users.update", http.MethodPut, &out, req, "users", strconv.Itoa(userID)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, "productos.list", http.MethodGet, &out, nil, "productos"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, "productos.get", http.MethodGet, &out, nil, "productos", strconv.Itoa(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, "productos.delete", http.MethodDelete, nil, nil, "productos", strconv.Itoa(id))
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, "pedidos.list", http.MethodGet, &out, nil, "pedidos"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, "pedidos.get", http.MethodGet, &out, nil, "pedidos", strconv.Itoa(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, "pedidos.create", http.MethodPost, &out, req, "pedidos"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id int, req domain.OrderRequest) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, "pedidos.update", http.MethodPut, &out, req, "pedidos", strconv.Itoa(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id int) error {
	return c.do(ctx, "pedidos.delete", http.MethodDelete, nil, nil, "pedidos", strconv.Itoa(id))
}

// do sends one request and decodes a 2xx body into out. A nil out accepts
// any body, including an empty one.
func (c *Client) do(ctx context.Context, endpoint, method string, out, in any, path ...string) error {
	target := c.baseURL.JoinPath(path...)

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s: %w", endpoint, &domain.ConnectionError{Err: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	metrics.BackendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	if err != nil {
		return fmt.Errorf("%s: read response: %w", endpoint, &domain.ConnectionError{Err: err})
	}

	if reason, rejected := sessionRejected(resp); rejected && c.authenticated {
		c.log.Warn().Str("endpoint", endpoint).Int("status", resp.StatusCode).Str("reason", reason).Msg("backend rejected session")
		if c.onExpired != nil {
			c.onExpired(ctx, reason)
		}
		return fmt.Errorf("%s: %w", endpoint, domain.ErrSessionExpired)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.Error().Str("endpoint", endpoint).Int("status", resp.StatusCode).Str("body", truncate(string(raw), 512)).Msg("backend request failed")
		return &domain.APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%s: %w", endpoint, ErrEmptyResponse)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

// sessionRejected reports whether the response means the token is no good:
// a 401, or a 302 pointing at the login page.
func sessionRejected(resp *http.Response) (string, bool) {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return "unauthorized", true
	case http.StatusFound:
		if strings.Contains(resp.Header.Get("Location"), "login") {
			return "login_redirect", true
		}
	}
	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
