// Package kv defines the key-value persistence contract used by the task store.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrUnauthenticated is returned by backends that need credentials
	// which are missing, expired or revoked.
	ErrUnauthenticated = errors.New("not logged in")

	// ErrTooLarge is returned when a value exceeds the backend's size limit.
	ErrTooLarge = errors.New("value too large")
)

// Store is a synchronous key-value store holding text values.
type Store interface {
	// Read returns the value for key. ok is false if the key is absent.
	Read(ctx context.Context, key string) (value string, ok bool, err error)

	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key, value string) error

	// Close releases backend resources.
	Close() error
}
