package backend

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/purificadora/app-client/internal/core/ports"
)

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// headerTransport stamps every outgoing request with the JSON accept header,
// a request id and, when configured, the bearer token.
type headerTransport struct {
	token string
	next  http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Accept", "application/json")
	if r.Header.Get(HeaderRequestID) == "" {
		r.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if t.token != "" {
		r.Header.Set("Authorization", "Bearer "+t.token)
	}
	if key := ports.IdempotencyKey(r.Context()); key != "" && r.Method == http.MethodPost {
		r.Header.Set(HeaderIdempotencyKey, key)
	}
	return t.next.RoundTrip(r)
}

// loggingTransport logs each round trip at debug, and bodies at trace.
type loggingTransport struct {
	next http.RoundTripper
	log  zerolog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if req.GetBody != nil {
		if ev := t.log.Trace(); ev.Enabled() {
			if rc, err := req.GetBody(); err == nil {
				b, _ := io.ReadAll(rc)
				_ = rc.Close()
				ev.Str("request_id", req.Header.Get(HeaderRequestID)).
					RawJSON("body", redactBody(b)).
					Msg("backend request body")
			} else {
				ev.Discard()
			}
		}
	}

	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		t.log.Debug().Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("elapsed", elapsed).
			Msg("backend round trip failed")
		return nil, err
	}

	t.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("backend round trip")

	if ev := t.log.Trace(); ev.Enabled() {
		b, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(b))
		if readErr != nil {
			ev.Discard()
			return nil, readErr
		}
		ev.Str("request_id", req.Header.Get(HeaderRequestID)).
			RawJSON("body", redactBody(b)).
			Msg("backend response body")
	}

	return resp, nil
}

var sensitiveKeys = []string{"password", "token"}

// redactBody masks credential-looking fields of a JSON object. Anything that
// is not a JSON object is logged as a quoted string.
func redactBody(b []byte) []byte {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return []byte(`""`)
	}

	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		if json.Valid(trimmed) {
			return trimmed
		}
		quoted, _ := json.Marshal(string(trimmed))
		return quoted
	}

	redactMap(obj)
	out, err := json.Marshal(obj)
	if err != nil {
		return []byte(`"<unprintable>"`)
	}
	return out
}

func redactMap(obj map[string]any) {
	for k, v := range obj {
		if nested, ok := v.(map[string]any); ok {
			redactMap(nested)
			continue
		}
		lower := strings.ToLower(k)
		for _, s := range sensitiveKeys {
			if strings.Contains(lower, s) {
				obj[k] = "***"
				break
			}
		}
	}
}
