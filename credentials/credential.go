package credentials

import (
	"context"
	"strings"
	"time"
)

// Key names a field of the persisted credential record. The values match the
// keys the portal front end keeps in browser storage so both can share a backend.
type Key string

const (
	KeyTenantID    Key = "tenantId"
	KeyToken       Key = "token"
	KeyTokenExpiry Key = "tokenExpiry"
	KeyEmail       Key = "email"
	KeyPassword    Key = "password"

	// Written by the admin login and tenant resolution flows.
	KeyTenantName Key = "TenantName"
	KeyFaviconURL Key = "faviconUrl"
	KeyLogoURL    Key = "logoUrl"
	KeyUserID     Key = "userId"
	KeyFirstName  Key = "firstName"
	KeyLastName   Key = "lastName"
	KeyRole       Key = "role"
)

// DefaultTenantID is used when no tenant has been resolved yet.
const DefaultTenantID = "0"

// RecordKeys are the fields that make up a Credential Record.
var RecordKeys = []Key{KeyTenantID, KeyToken, KeyTokenExpiry, KeyEmail, KeyPassword}

// IdentityKeys are cleared together with the record on sign-out.
var IdentityKeys = []Key{KeyUserID, KeyFirstName, KeyLastName, KeyRole}

// Record is a snapshot of the stored credential fields. Empty strings mean absent.
type Record struct {
	TenantID        string
	AccessToken     string
	ExpiresAt       string
	SubjectEmail    string
	SubjectPassword string
}

// HasToken reports whether an access token has been acquired.
func (r Record) HasToken() bool {
	return r.AccessToken != ""
}

// Load reads the credential record fields from the store.
func Load(ctx context.Context, store Store) Record {
	get := func(k Key) string {
		v, _ := store.Get(ctx, k)
		return v
	}
	return Record{
		TenantID:        get(KeyTenantID),
		AccessToken:     get(KeyToken),
		ExpiresAt:       get(KeyTokenExpiry),
		SubjectEmail:    get(KeyEmail),
		SubjectPassword: get(KeyPassword),
	}
}

// TenantID returns the stored tenant id, or DefaultTenantID when none is set.
func TenantID(ctx context.Context, store Store) string {
	if v, ok := store.Get(ctx, KeyTenantID); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return DefaultTenantID
}

// expiryLayouts are tried in order. Layouts without a zone are read as UTC.
// Fractional seconds are accepted after any seconds field.
var expiryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

// ParseExpiry parses a stored expiry value and normalises it to UTC.
// The second result is false when the value cannot be parsed.
func ParseExpiry(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatExpiry renders an expiry the way the backend does (RFC 3339, UTC).
func FormatExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
