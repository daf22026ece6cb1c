// Package service defines the task collection interface used by commands
// and the domain types it operates on.
package service

import (
	"context"
	"errors"
)

var (
	// ErrIndexOutOfRange is returned when a position does not exist in the
	// current sequence.
	ErrIndexOutOfRange = errors.New("task number out of range")

	// ErrValidationFailed is returned when a task is rejected before storage.
	ErrValidationFailed = errors.New("validation failed")

	// ErrPersistenceUnavailable is returned when the snapshot could not be
	// written. The in-memory sequence is left unchanged.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// Service defines the interface for task collection operations.
// Positions are 0-based. Every mutation is persisted before it returns.
// Commands never import a storage backend directly.
type Service interface {
	// Load replaces the in-memory sequence with the persisted snapshot.
	// Missing or malformed data yields an empty sequence, never an error.
	Load(ctx context.Context) error

	// Tasks returns a copy of the current sequence in stored order.
	Tasks(ctx context.Context) ([]Task, error)

	// IndexOf returns the position of the task with the given ID.
	IndexOf(id string) (int, bool)

	// Create appends a task and returns it with its assigned ID.
	Create(ctx context.Context, task Task) (Task, error)

	// Update replaces the task at index. The stored ID is kept.
	Update(ctx context.Context, index int, task Task) error

	// Delete removes the task at index, shifting later tasks left.
	Delete(ctx context.Context, index int) error

	// Replace swaps the whole sequence.
	Replace(ctx context.Context, tasks []Task) error
}
