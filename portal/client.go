package portal

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-studio-portal/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Client sends requests with whatever token is currently stored, without
// checking or renewing it. It never fails on its own account: with no stored
// token the request goes out unauthenticated and the server's rejection comes
// back as an ordinary response.
type Client struct {
	store      credentials.Store
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Client reading the token from store.
func NewClient(store credentials.Store, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("[NewClient] store is required")
	}
	o := applyOptions(opts)
	return &Client{store: store, httpClient: o.httpClient, logger: o.logger}, nil
}

// Do sends a copy of req carrying the stored bearer token, if there is one.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	out := req.Clone(ctx)
	if token, ok := c.store.Get(ctx, credentials.KeyToken); ok && token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(out)
	} else {
		c.logger.Debug().Str("url", req.URL.String()).Msg("no stored token, sending unauthenticated")
	}
	return c.httpClient.Do(out)
}

// Get is a convenience for a GET through Do.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}
