// Package common defines shared constants and sentinel errors used across
// client and server layers of zkpauth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Numeric-domain errors (out-of-range or malformed integers).
	ErrInvalidInput  = errors.New("invalid input")
	ErrSerialization = errors.New("serialization error")

	// Registry-level errors.
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotFound          = errors.New("not found")

	// Protocol-level errors.
	ErrRateLimited        = errors.New("rate limited")
	ErrNoPendingChallenge = errors.New("no pending challenge")
	ErrVerificationFailed = errors.New("verification failed")

	// Generic/internal flow control.
	ErrInternal = errors.New("internal error")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
)
