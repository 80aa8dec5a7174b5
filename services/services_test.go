package services

import (
	"context"
	"net/http/httptest"
	"testing"

	"machipower_client/apitest"
)

// staticTokens stands in for a signed-in session.
type staticTokens struct{}

func (staticTokens) Token(context.Context) (string, error) { return "test-token", nil }

// noTokens stands in for a signed-out session.
type noTokens struct{}

func (noTokens) Token(context.Context) (string, error) { return "", ErrUnauthenticated }

func newTestClient(t *testing.T, gateway *apitest.Gateway) *APIClient {
	t.Helper()
	server := httptest.NewServer(gateway.Handler())
	t.Cleanup(server.Close)
	return NewAPIClient(server.URL, staticTokens{}, nil)
}
