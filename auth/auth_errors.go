package auth

import (
	"errors"
	"fmt"
)

const (
	tokenFailedMessage = "Failed to get auth token"
	loginFailedMessage = "Login failed. Please try again."
)

// ErrAuthentication matches every *AuthenticationError via errors.Is.
var ErrAuthentication = errors.New("authentication failed")

// AuthenticationError is returned when the backend rejects a token or login request.
type AuthenticationError struct {
	StatusCode int
	// Message is what the caller shows to the user.
	Message string
	// ServerMessage is the backend's message field, when it sent one.
	ServerMessage string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// Detail includes the status code and server message, for logs.
func (e *AuthenticationError) Detail() string {
	if e.ServerMessage != "" && e.ServerMessage != e.Message {
		return fmt.Sprintf("%s (status %d: %s)", e.Message, e.StatusCode, e.ServerMessage)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}
