package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/umlgen/internal/logging"
	"github.com/google/uuid"
)

const (
	RequestIDHeaderName = "X-Request-ID"

	maxResponseBytes = 10 << 20
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu        sync.RWMutex
	tokens    TokenSource
	listeners []UnauthorizedListener
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets the per-request deadline of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// New builds a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetTokenSource installs ts. The session manager is usually created after
// the client, so it is wired in afterwards.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// OnUnauthorized registers l to run on every 401 response.
func (c *HTTPClient) OnUnauthorized(l UnauthorizedListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	ts := c.tokens
	c.mu.RUnlock()
	if ts == nil {
		return ""
	}
	return ts.Token()
}

func (c *HTTPClient) notifyUnauthorized(ctx context.Context, ev UnauthorizedEvent) {
	c.mu.RLock()
	listeners := make([]UnauthorizedListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, ev)
	}
}

func (c *HTTPClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends one request. body, when non-nil, is encoded as JSON; out, when
// non-nil, receives the decoded 2xx response.
func (c *HTTPClient) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeaderName, requestID)

	token := c.currentToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "api request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		// A 401 still tears the session down even if its body is cut short.
		if resp.StatusCode != http.StatusUnauthorized {
			return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
		}
		c.log.Warn(ctx, "read unauthorized response", "method", method, "path", path, "request_id", requestID, "error", err)
		respBody = nil
	}

	c.log.Debug(ctx, "api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"authenticated", token != "",
		"request_id", requestID,
	)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(respBody),
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.log.Warn(ctx, "unauthorized response", "method", method, "path", path, "request_id", requestID)
			c.notifyUnauthorized(ctx, UnauthorizedEvent{
				Method:    method,
				Path:      path,
				Token:     token,
				RequestID: requestID,
			})
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// IsUnauthorized is shorthand for errors.Is(err, ErrUnauthorized).
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
