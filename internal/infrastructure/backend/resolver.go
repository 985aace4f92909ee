package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/metrics"
)

const defaultDiscoveryTimeout = 5 * time.Second

// BaseURLSaver persists a freshly discovered base URL.
type BaseURLSaver interface {
	SaveBaseURL(ctx context.Context, baseURL string) error
}

type ResolverOptions struct {
	// DefaultURL is used when discovery fails and is also where discovery is asked.
	DefaultURL string
	Timeout    time.Duration
	Transport  http.RoundTripper
	Store      BaseURLSaver
	Logger     zerolog.Logger
}

// Resolver finds the backend root. The backend publishes its current tunnel
// URL at GET <default>data; when that cannot be read the default is used.
type Resolver struct {
	defaultURL string
	client     *http.Client
	store      BaseURLSaver
	log        zerolog.Logger
}

func NewResolver(opts ResolverOptions) *Resolver {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultDiscoveryTimeout
	}
	inner := opts.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &Resolver{
		defaultURL: normalizeBaseURL(opts.DefaultURL),
		client: &http.Client{
			Timeout:   timeout,
			Transport: &headerTransport{next: inner},
		},
		store: opts.Store,
		log:   opts.Logger,
	}
}

// Resolve never fails: any discovery problem yields the default URL. There is
// exactly one attempt per call.
func (r *Resolver) Resolve(ctx context.Context) string {
	tunnel, err := r.discover(ctx)
	if err != nil {
		metrics.BaseURLResolutionsTotal.WithLabelValues("fallback").Inc()
		r.log.Warn().Err(err).Str("default_url", r.defaultURL).Msg("tunnel discovery failed, using default base URL")
		return r.defaultURL
	}

	if r.store != nil {
		if err := r.store.SaveBaseURL(ctx, tunnel); err != nil {
			r.log.Warn().Err(err).Msg("could not persist base URL")
		}
	}
	metrics.BaseURLResolutionsTotal.WithLabelValues("tunnel").Inc()
	r.log.Info().Str("base_url", tunnel).Msg("base URL updated")
	return tunnel
}

func (r *Resolver) discover(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.defaultURL+"data", nil)
	if err != nil {
		return "", fmt.Errorf("build discovery request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &domain.ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &domain.ConnectionError{Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &domain.APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var data domain.DataResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("decode discovery response: %w", err)
	}
	return TunnelBaseURL(data.NgrokURL)
}

// TunnelBaseURL turns a published tunnel root into the API base URL.
func TunnelBaseURL(tunnel string) (string, error) {
	tunnel = strings.TrimRight(strings.TrimSpace(tunnel), "/")
	if tunnel == "" {
		return "", errors.New("discovery response has no ngrok_url")
	}
	if _, err := parseBaseURL(tunnel); err != nil {
		return "", err
	}
	return tunnel + "/api/", nil
}
