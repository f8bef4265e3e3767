// Package common defines shared constants and sentinel errors used across
// the account core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Service-level errors surfaced to the transport boundary. Each is a
	// distinct, stable kind; the message is the user-facing text.
	ErrDuplicateEmail     = errors.New("this email is already used")
	ErrUsernameSaturated  = errors.New("too many people are using this username")
	ErrDiscriminatorTaken = errors.New("discriminator is already taken")

	// ErrInvalidCredential covers both unknown email and wrong password so
	// login cannot be used as an email-existence oracle.
	ErrInvalidCredential = errors.New("invalid email or password")

	ErrMFARequired = errors.New("mfa code is a required field for users with mfa")
	ErrMFAInvalid  = errors.New("mfa code is invalid")

	// ErrUnauthorized covers missing, malformed and badly signed tokens,
	// and tokens whose user no longer exists.
	ErrUnauthorized = errors.New("authorization is invalid")

	ErrInternal = errors.New("internal error")
)
