package auth

import (
	"context"

	"github.com/jrsteele09/go-studio-portal/credentials"
	porterrors "github.com/jrsteele09/go-studio-portal/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const renewKey = "token"

// Provider hands out a currently valid access token, renewing it with the
// cached subject credentials when the stored one is missing or expired.
//
// Without WithSingleFlight, concurrent callers that all see an expired token
// each renew it and the store keeps whichever response is written last.
type Provider struct {
	store    credentials.Store
	acquirer Acquirer
	opts     options
	group    *singleflight.Group
}

// NewProvider creates a Provider that renews tokens through acquirer.
func NewProvider(store credentials.Store, acquirer Acquirer, opts ...Option) (*Provider, error) {
	if store == nil {
		return nil, errors.New("[NewProvider] store is required")
	}
	if acquirer == nil {
		return nil, errors.New("[NewProvider] acquirer is required")
	}
	p := &Provider{
		store:    store,
		acquirer: acquirer,
		opts:     applyOptions(opts),
	}
	if p.opts.singleFlight {
		p.group = &singleflight.Group{}
	}
	return p, nil
}

// IsExpired reports whether the stored token's expiry has passed.
func (p *Provider) IsExpired(ctx context.Context) bool {
	return IsTokenExpired(ctx, p.store, p.opts.clock.Now())
}

// Token returns the stored token when it is still valid and otherwise
// acquires a new one. A renewed token is taken from the acquisition response,
// not read back from the store. Acquisition failures are returned unchanged.
func (p *Provider) Token(ctx context.Context) (string, error) {
	if token, ok := p.store.Get(ctx, credentials.KeyToken); ok && token != "" && !p.IsExpired(ctx) {
		return token, nil
	}

	if p.group == nil {
		return p.renew(ctx)
	}
	// The shared renewal must not inherit one caller's cancellation; each
	// caller stops waiting on its own context instead.
	ch := p.group.DoChan(renewKey, func() (any, error) {
		return p.renew(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			p.opts.logger.Debug().Msg("token renewal shared with a concurrent caller")
		}
		return res.Val.(string), nil
	}
}

func (p *Provider) renew(ctx context.Context) (string, error) {
	email, _ := p.store.Get(ctx, credentials.KeyEmail)
	password, _ := p.store.Get(ctx, credentials.KeyPassword)

	p.opts.logger.Debug().Msg("renewing access token")
	resp, err := p.acquirer.AcquireToken(ctx, email, password)
	if err != nil {
		return "", err
	}
	token := resp.AccessToken()
	if token == "" {
		return "", porterrors.ErrTokenNotIssued
	}
	return token, nil
}

// TokenSource adapts the Provider to oauth2.TokenSource. Every Token call goes
// through the Provider, so an oauth2.Transport built on it renews on demand.
func (p *Provider) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &providerTokenSource{ctx: ctx, provider: p}
}

type providerTokenSource struct {
	ctx      context.Context
	provider *Provider
}

func (s *providerTokenSource) Token() (*oauth2.Token, error) {
	access, err := s.provider.Token(s.ctx)
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{AccessToken: access, TokenType: "Bearer"}
	if expiry, ok := s.provider.store.Get(s.ctx, credentials.KeyTokenExpiry); ok {
		if at, ok := credentials.ParseExpiry(expiry); ok {
			tok.Expiry = at
		}
	}
	return tok, nil
}
