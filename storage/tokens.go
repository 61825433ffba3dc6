// Package storage provides the durable key-value abstraction for the
// client's credential pair.
package storage

import "errors"

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Fixed keys under which the credential pair persists. No other keys are
// written by the client.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
)

// TokenStore defines the interface for persisted client-side tokens.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes the given keys atomically. Missing keys are not an
	// error; logout must succeed when already logged out.
	Delete(keys ...string) error
}
