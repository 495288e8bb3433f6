package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portal client
var (
	// Credential errors
	ErrMissingCredentials = errors.New("email and password are required")
	ErrTokenNotIssued     = errors.New("token endpoint returned no token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")

	// Tenant errors
	ErrInvalidTenant      = errors.New("invalid tenant")
	ErrUnauthorizedTenant = errors.New("unauthorized for tenant")

	// Response errors
	ErrMalformedResponse = errors.New("malformed response body")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
