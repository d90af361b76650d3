// Package domain holds the user model, request/response shapes and the
// sentinel errors shared across the service. Callers should use errors.Is
// to match the sentinels.
package domain

import (
	"errors"
	"fmt"
)

var (
	// Validation errors (malformed name/ID/phone/password). Recoverable;
	// the message carries the exact failing rule for the caller to surface.
	ErrValidation = errors.New("validation failed")

	// Unknown user or email.
	ErrNotFound = errors.New("not found")

	// Name or email already taken at the storage layer.
	ErrAlreadyExists = errors.New("already exists")

	// OTP or reset token past its expiry. The caller restarts recovery.
	ErrExpired = errors.New("expired")

	// Wrong OTP or wrong login password.
	ErrInvalidSecret = errors.New("invalid secret")

	// Login throttle exceeded. Cleared only by a successful login or a
	// completed password reset.
	ErrLocked = errors.New("account locked")

	// Directory or notifier failure. Surfaced as-is, never retried.
	ErrExternalService = errors.New("external service failure")
)

// WrongPasswordError is an ErrInvalidSecret carrying the remaining login
// attempts before lockout.
type WrongPasswordError struct {
	AttemptsLeft int
}

func (e *WrongPasswordError) Error() string {
	return fmt.Sprintf("wrong password, attempts left: %d", e.AttemptsLeft)
}

func (e *WrongPasswordError) Unwrap() error {
	return ErrInvalidSecret
}
