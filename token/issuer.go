package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	porterrors "github.com/jrsteele09/go-studio-portal/internal/errors"
	"github.com/jrsteele09/go-studio-portal/users"
	"github.com/juju/clock"
	"github.com/pkg/errors"
)

const DefaultIssuer = "studio-portal-mock"

// Claims are carried by every access token the backend issues.
type Claims struct {
	TenantID string `json:"tenant"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer creates and validates access tokens.
type Issuer struct {
	signer   Signer
	name     string
	lifetime time.Duration
	clock    clock.Clock
}

type IssuerOption func(*Issuer)

// WithClock sets the clock used for issue and expiry times (primarily for testing)
func WithClock(c clock.Clock) IssuerOption {
	return func(i *Issuer) {
		i.clock = c
	}
}

func WithIssuerName(name string) IssuerOption {
	return func(i *Issuer) {
		i.name = name
	}
}

func NewIssuer(signer Signer, lifetime time.Duration, opts ...IssuerOption) (*Issuer, error) {
	if signer == nil {
		return nil, errors.New("[NewIssuer] signer is required")
	}
	if lifetime <= 0 {
		return nil, errors.New("[NewIssuer] lifetime must be positive")
	}
	i := &Issuer{
		signer:   signer,
		name:     DefaultIssuer,
		lifetime: lifetime,
		clock:    clock.WallClock,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue signs a token for user and returns it with its expiry time.
func (i *Issuer) Issue(user *users.User) (string, time.Time, error) {
	now := i.clock.Now().UTC().Truncate(time.Second)
	expiresAt := now.Add(i.lifetime)
	claims := Claims{
		TenantID: user.TenantID,
		Email:    user.Email,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.name,
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}
	signed, err := i.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "[Issuer.Issue]")
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature, issuer and expiry of tokenString. Failures
// match ErrTokenExpired for a token past its expiry and ErrInvalidToken
// otherwise.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, i.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(i.name),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, errors.Wrap(porterrors.ErrTokenExpired, "[Issuer.Parse] "+err.Error())
	}
	if err != nil {
		return nil, errors.Wrap(porterrors.ErrInvalidToken, "[Issuer.Parse] "+err.Error())
	}
	return claims, nil
}
