package helpers

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout represents a timeout error
	ErrTimeout = errors.New("operation timed out")
	// ErrNetwork represents a network error
	ErrNetwork = errors.New("network error")
	// ErrAuth represents an authentication error
	ErrAuth = errors.New("authentication error")
)

// NetworkError represents a network-related error
type NetworkError struct {
	Operation string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("network error during %s", e.Operation)
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// AuthError represents an authentication error
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// NewNetworkError creates a new network error
func NewNetworkError(operation string, cause error) error {
	return &NetworkError{Operation: operation, Cause: cause}
}

// NewAuthError creates a new authentication error
func NewAuthError(reason string) error {
	return &AuthError{Reason: reason}
}
