package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-studio-portal/credentials"
	porterrors "github.com/jrsteele09/go-studio-portal/internal/errors"
	"github.com/jrsteele09/go-studio-portal/internal/redact"
	"github.com/pkg/errors"
)

const tokenPath = "/api/Auth/Token"

// TokenRequest is the body sent to the Token endpoint.
type TokenRequest struct {
	TenantID string `json:"tenantId"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenData is the data member of a Token endpoint response. Either field may be missing.
type TokenData struct {
	Token      *string `json:"token,omitempty"`
	ExpiryTime *string `json:"expiryTime,omitempty"`
}

// TokenResponse is the parsed Token endpoint envelope.
type TokenResponse struct {
	Data    *TokenData `json:"data"`
	Message string     `json:"message,omitempty"`
	// Raw is the body exactly as received.
	Raw json.RawMessage `json:"-"`
}

// AccessToken returns the issued token, or "" when the response carried none.
func (r *TokenResponse) AccessToken() string {
	if r == nil || r.Data == nil || r.Data.Token == nil {
		return ""
	}
	return *r.Data.Token
}

// Acquirer exchanges subject credentials for a new access token.
type Acquirer interface {
	AcquireToken(ctx context.Context, email, password string) (*TokenResponse, error)
}

var _ Acquirer = (*TokenClient)(nil)

// TokenClient performs Credential Acquisition against the backend Token endpoint
// and records the result in the credential store.
type TokenClient struct {
	store   credentials.Store
	baseURL string
	opts    options
}

// NewTokenClient creates a TokenClient for the API at baseURL.
func NewTokenClient(store credentials.Store, baseURL string, opts ...Option) (*TokenClient, error) {
	if store == nil {
		return nil, errors.New("[NewTokenClient] store is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("[NewTokenClient] baseURL is required")
	}
	return &TokenClient{
		store:   store,
		baseURL: baseURL,
		opts:    applyOptions(opts),
	}, nil
}

// AcquireToken requests a new token for the stored tenant. On success the
// token and expiry are written to the store, each only when the response
// carries it; a field missing from the response keeps its previous value.
// On any failure the store is left untouched.
func (c *TokenClient) AcquireToken(ctx context.Context, email, password string) (*TokenResponse, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	tenantID := credentials.TenantID(ctx, c.store)
	logger := c.opts.logger.With().
		Str("tenantId", tenantID).
		Str("email", redact.Email(email)).
		Logger()

	if c.opts.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.acquireTimeout)
		defer cancel()
	}

	body, err := json.Marshal(TokenRequest{TenantID: tenantID, Email: email, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, "[TokenClient.AcquireToken] encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "[TokenClient.AcquireToken] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		logger.Err(err).Msg("token request failed")
		return nil, errors.Wrap(err, "[TokenClient.AcquireToken] send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[TokenClient.AcquireToken] read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		authErr := &AuthenticationError{
			StatusCode:    resp.StatusCode,
			Message:       tokenFailedMessage,
			ServerMessage: serverMessage(raw),
		}
		logger.Warn().Int("status", resp.StatusCode).Msg(authErr.Detail())
		return nil, authErr
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(raw, &tokenResp); err != nil {
		logger.Err(err).Msg("token response is not valid JSON")
		return nil, errors.Wrap(porterrors.ErrMalformedResponse, "[TokenClient.AcquireToken] "+err.Error())
	}
	tokenResp.Raw = raw

	if set := tokenResp.storedFields(); len(set) > 0 {
		c.store.Update(ctx, set)
	}
	if tokenResp.Data == nil || tokenResp.Data.ExpiryTime == nil || *tokenResp.Data.ExpiryTime == "" {
		logger.Warn().Bool("hasToken", tokenResp.AccessToken() != "").
			Msg("token response has no expiry; the stored expiry was left unchanged")
	}
	logger.Debug().Str("token", redact.Token()).Msg("token acquired")

	return &tokenResp, nil
}

func (r *TokenResponse) storedFields() map[credentials.Key]string {
	set := map[credentials.Key]string{}
	if r.Data == nil {
		return set
	}
	if r.Data.Token != nil && *r.Data.Token != "" {
		set[credentials.KeyToken] = *r.Data.Token
	}
	if r.Data.ExpiryTime != nil && *r.Data.ExpiryTime != "" {
		set[credentials.KeyTokenExpiry] = *r.Data.ExpiryTime
	}
	return set
}

// serverMessage extracts the message field of an error body, if any.
func serverMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}
