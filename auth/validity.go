package auth

import (
	"context"
	"time"

	"github.com/jrsteele09/go-studio-portal/credentials"
)

// Expired decides whether a stored expiry value has passed at now.
// A missing or unparsable expiry is always expired.
func Expired(expiry string, present bool, now time.Time) bool {
	if !present {
		return true
	}
	at, ok := credentials.ParseExpiry(expiry)
	if !ok {
		return true
	}
	return now.UnixMilli() > at.UnixMilli()
}

// IsTokenExpired reads the stored expiry and checks it against now.
func IsTokenExpired(ctx context.Context, store credentials.Store, now time.Time) bool {
	expiry, ok := store.Get(ctx, credentials.KeyTokenExpiry)
	return Expired(expiry, ok, now)
}
