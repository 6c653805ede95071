// Package common defines shared constants and sentinel errors used across
// the minhwa client layers. Callers should match these with errors.Is.
package common

import "errors"

var (
	// Repository / lookup errors.
	ErrNotFound = errors.New("not found")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")

	// Generic internal flow control.
	ErrInternal = errors.New("internal error")
)
