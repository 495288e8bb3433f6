package auth

import (
	"strings"

	porterrors "github.com/jrsteele09/go-studio-portal/internal/errors"
)

// ValidateCredentials checks that both subject credentials are present.
// Values are otherwise sent as entered; the backend decides whether they match.
func ValidateCredentials(email, password string) error {
	if email == "" || password == "" {
		return porterrors.ErrMissingCredentials
	}
	return nil
}

// ValidateTenantID returns the trimmed tenant id, or ErrInvalidTenant when it is blank.
func ValidateTenantID(tenantID string) (string, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return "", porterrors.ErrInvalidTenant
	}
	return tenantID, nil
}
