package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"machipower_client/metrics"
)

// TokenSource supplies a bearer token for authenticated calls. A fresh token
// is acquired per call; there is no caching in this layer beyond what the
// source itself does.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// APIClient wraps the MachiPower REST gateway. Every service talks to the
// gateway through it: it attaches the bearer token and a request id, maps
// non-2xx responses and transport failures to RemoteError, and counts calls.
type APIClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Metrics    *metrics.Metrics
}

// NewAPIClient creates an APIClient for the given gateway base URL.
func NewAPIClient(baseURL string, tokens TokenSource, m *metrics.Metrics) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		Tokens:     tokens,
		Metrics:    m,
	}
}

// GetJSON issues a GET and decodes the response into out.
func (c *APIClient) GetJSON(ctx context.Context, op, path string, authed bool, out interface{}) error {
	return c.do(ctx, op, http.MethodGet, path, authed, nil, out)
}

// PostJSON issues a POST with a JSON payload and decodes the response into
// out. A nil out discards the response body.
func (c *APIClient) PostJSON(ctx context.Context, op, path string, authed bool, payload, out interface{}) error {
	return c.do(ctx, op, http.MethodPost, path, authed, payload, out)
}

func (c *APIClient) do(ctx context.Context, op, method, path string, authed bool, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", op, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	if authed {
		// ErrUnauthenticated passes through untouched so callers can
		// tell "sign in again" apart from a network failure.
		token, err := c.Tokens.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.Metrics.CountRequest(op)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Metrics.CountError(op)
		return &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.Metrics.CountError(op)
		io.Copy(io.Discard, resp.Body)
		return &RemoteError{Op: op, StatusCode: resp.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.Metrics.CountError(op)
		return &RemoteError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
