package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-studio-portal/credentials"
	porterrors "github.com/jrsteele09/go-studio-portal/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// TokenProvider supplies a token source that yields a valid token per call.
// *auth.Provider implements it.
type TokenProvider interface {
	TokenSource(ctx context.Context) oauth2.TokenSource
}

// APIError is a non-2xx response from a service endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Envelope is the {data, message} wrapper every endpoint responds with.
type Envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// DecodeData unmarshals the envelope's data member into T.
func DecodeData[T any](env *Envelope) (T, error) {
	var out T
	if env == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, porterrors.Wrapf(porterrors.ErrMalformedResponse, "data: %v", err)
	}
	return out, nil
}

// Service calls the tenant-scoped backend endpoints. Every call first obtains
// a valid token from the TokenProvider, renewing it if needed.
type Service struct {
	store   credentials.Store
	baseURL string
	tokens  TokenProvider
	base    http.RoundTripper
	logger  zerolog.Logger
}

// NewService creates a Service for the API at baseURL.
func NewService(store credentials.Store, baseURL string, tokens TokenProvider, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("[NewService] store is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token provider is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("[NewService] baseURL is required")
	}
	o := applyOptions(opts)
	return &Service{
		store:   store,
		baseURL: baseURL,
		tokens:  tokens,
		base:    o.httpClient.Transport,
		logger:  o.logger,
	}, nil
}

func (s *Service) tenantID(ctx context.Context) string {
	return credentials.TenantID(ctx, s.store)
}

func (s *Service) stored(ctx context.Context, key credentials.Key) string {
	v, _ := s.store.Get(ctx, key)
	return v
}

// Get calls an arbitrary GET endpoint under the base URL.
func (s *Service) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return s.call(ctx, http.MethodGet, path, query, nil, "Request failed.")
}

// call sends one request and decodes the envelope. fallback is the error
// message used when a failed response carries none.
func (s *Service) call(ctx context.Context, method, path string, query url.Values, body any, fallback string) (*Envelope, error) {
	endpoint := s.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "[Service.call] encode %s", path)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "[Service.call] build %s", path)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Transport: &oauth2.Transport{Source: s.tokens.TokenSource(ctx), Base: s.base}}
	resp, err := client.Do(req)
	if err != nil {
		s.logger.Err(err).Str("path", path).Msg("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Service.call] read %s", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}
		var failure struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &failure) == nil && failure.Message != "" {
			apiErr.Message = failure.Message
		}
		s.logger.Warn().Str("path", path).Int("status", resp.StatusCode).Msg(apiErr.Message)
		return nil, apiErr
	}

	var env Envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, porterrors.Wrapf(porterrors.ErrMalformedResponse, "%s: %v", path, err)
		}
	}
	env.Raw = raw
	return &env, nil
}
