package errors

import (
	"errors"
	"fmt"
)

// Common error types for the casedesk client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")

	// Token errors
	ErrNoAccessToken     = errors.New("no access token")
	ErrNoRefreshToken    = errors.New("no refresh token")
	ErrRefreshFailed     = errors.New("credential refresh failed")
	ErrMalformedToken    = errors.New("malformed token")
	ErrBodyNotReplayable = errors.New("request body cannot be replayed")

	// Storage errors
	ErrStorageCorrupt = errors.New("storage record corrupt")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
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
