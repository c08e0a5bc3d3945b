// Package common defines shared constants and sentinel errors used across
// the securenote server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrStorage       = errors.New("storage failure")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Auth flow errors.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRateLimited        = errors.New("too many login attempts")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Validation / payload errors.
	ErrValidation = errors.New("validation failed")
	ErrTooLarge   = errors.New("payload too large")

	// Crypto errors.
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrKeyManagement    = errors.New("key management failure")
)
