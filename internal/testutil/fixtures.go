package testutil

import (
	"context"
	"testing"

	"tasker/internal/logging"
	"tasker/internal/service"
	"tasker/internal/store"
)

// NewStore returns a loaded TaskStore over backend seeded with tasks.
func NewStore(t *testing.T, backend *FakeKV, tasks ...service.Task) *store.TaskStore {
	t.Helper()

	if len(tasks) > 0 {
		text, err := store.Encode(tasks)
		if err != nil {
			t.Fatalf("failed to encode seed tasks: %v", err)
		}
		backend.Set(store.SnapshotKey, text)
	}

	s := store.New(backend, logging.Discard())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	return s
}

// Task builds a task with the given title and state.
func Task(id, title string, state service.State, deadline string) service.Task {
	return service.Task{ID: id, Title: title, State: state, Deadline: deadline}
}
