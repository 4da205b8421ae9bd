package errors

import (
	"errors"
	"fmt"
)

// Common error types for the QuestPath client
var (
	// Token errors
	ErrNoToken       = errors.New("no token stored")
	ErrRefreshFailed = errors.New("token refresh failed")
	ErrSealedValue   = errors.New("stored value cannot be unsealed")

	// Session errors
	ErrNotLoggedIn = errors.New("not logged in")

	// OAuth sign-in errors
	ErrInvalidState = errors.New("invalid state parameter")
	ErrNoIDToken    = errors.New("no id token in response")
	ErrInvalidNonce = errors.New("invalid nonce")

	// Configuration errors
	ErrMissingBaseURL = errors.New("missing base url")
	ErrNotConfigured  = errors.New("not configured")
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
