package auth

import (
	"context"

	"github.com/jrsteele09/go-studio-portal/credentials"
	"github.com/pkg/errors"
)

// Service bundles the session credential operations a front end needs:
// token acquisition and renewal, admin login, sign-out and tenant switching.
type Service struct {
	store    credentials.Store
	baseURL  string
	tokens   *TokenClient
	provider *Provider
	opts     options
}

// NewService wires a TokenClient and a Provider over store for the API at baseURL.
func NewService(store credentials.Store, baseURL string, opts ...Option) (*Service, error) {
	tokens, err := NewTokenClient(store, baseURL, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "[NewService]")
	}
	provider, err := NewProvider(store, tokens, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "[NewService]")
	}
	return &Service{
		store:    store,
		baseURL:  tokens.baseURL,
		tokens:   tokens,
		provider: provider,
		opts:     applyOptions(opts),
	}, nil
}

func (s *Service) Store() credentials.Store { return s.store }
func (s *Service) Provider() *Provider     { return s.provider }
func (s *Service) BaseURL() string         { return s.baseURL }

// AcquireToken exchanges email and password for a new token. See TokenClient.AcquireToken.
func (s *Service) AcquireToken(ctx context.Context, email, password string) (*TokenResponse, error) {
	return s.tokens.AcquireToken(ctx, email, password)
}

// Token returns a valid token, renewing it if needed. See Provider.Token.
func (s *Service) Token(ctx context.Context) (string, error) {
	return s.provider.Token(ctx)
}

// SignOut clears the token, the cached subject credentials and the signed-in
// user's profile in one update. The tenant is kept.
func (s *Service) SignOut(ctx context.Context) {
	remove := []credentials.Key{
		credentials.KeyToken,
		credentials.KeyTokenExpiry,
		credentials.KeyEmail,
		credentials.KeyPassword,
	}
	remove = append(remove, credentials.IdentityKeys...)
	s.store.Update(ctx, nil, remove...)
	s.opts.logger.Info().Msg("signed out")
}

// SwitchTenant makes tenantID the active tenant and drops the token issued
// for the previous one. Cached credentials are kept so the next Token call
// renews silently against the new tenant.
func (s *Service) SwitchTenant(ctx context.Context, tenantID string) error {
	tenantID, err := ValidateTenantID(tenantID)
	if err != nil {
		return err
	}
	s.store.Update(ctx,
		map[credentials.Key]string{credentials.KeyTenantID: tenantID},
		credentials.KeyToken, credentials.KeyTokenExpiry,
	)
	s.opts.logger.Info().Str("tenantId", tenantID).Msg("tenant switched")
	return nil
}
