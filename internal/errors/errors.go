package errors

import (
	"errors"
	"fmt"
)

// Common error types for the RepoScribe client
var (
	// Session errors
	ErrAuthCheckFailed     = errors.New("failed to check authentication status")
	ErrLoginExchangeFailed = errors.New("failed to complete authentication")
	ErrMissingCode         = errors.New("missing authorization code")
	ErrCodeAlreadyUsed     = errors.New("authorization code already used")
	ErrInvalidState        = errors.New("invalid state parameter")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrSessionChanged      = errors.New("session changed while the request was in flight")

	// Token store errors
	ErrTokenNotFound = errors.New("token not found")
	ErrEmptyToken    = errors.New("token is empty")

	// Repository errors
	ErrListFetchFailed    = errors.New("failed to fetch repositories")
	ErrRepositoryNotFound = errors.New("repository not found")

	// Documentation workflow errors
	ErrGenerationFailed = errors.New("failed to generate documentation")
	ErrInFlight         = errors.New("documentation request already in flight")
	ErrNotCompleted     = errors.New("documentation not generated yet")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrUnsupported = errors.New("unsupported operation")
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
