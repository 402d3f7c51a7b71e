// Package common defines shared sentinel errors used across the service
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrorDuplicateEmail    = errors.New("email already registered")
	ErrorDuplicateUsername = errors.New("username already in use")
	ErrorDuplicateField    = errors.New("duplicate value")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Auth errors.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorAccountDisabled    = errors.New("account disabled")
	ErrorInvalidToken       = errors.New("invalid token")
	ErrorInvalidUser        = errors.New("invalid user")

	// Token lifecycle errors.
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenKindMismatch = errors.New("token kind mismatch")
	ErrTokenMalformed    = errors.New("token malformed")
)
