package errors

import (
	"errors"
	"fmt"
)

// Common error kinds for the authentication service
var (
	// Credential errors
	ErrDuplicateCredential = errors.New("duplicate credential")
	ErrUsernameTaken       = fmt.Errorf("%w: username already taken", ErrDuplicateCredential)
	ErrEmailTaken          = fmt.Errorf("%w: email already registered", ErrDuplicateCredential)
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrWeakPassword        = errors.New("password does not meet strength requirements")

	// Token errors
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenKindMismatch = errors.New("token kind mismatch")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// General errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
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

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
