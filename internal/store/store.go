// Package store implements service.Service as an in-memory task sequence
// written through to a kv.Store on every mutation.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tasker/internal/kv"
	"tasker/internal/service"
)

// SnapshotKey is the single key holding the serialized task sequence.
const SnapshotKey = "tasks"

// TaskStore holds the canonical task sequence. It is not safe for
// concurrent use; the CLI has exactly one writer.
type TaskStore struct {
	kv    kv.Store
	log   *slog.Logger
	tasks []service.Task
	newID func() string
}

// New creates an empty store backed by backend. Call Load to populate it.
func New(backend kv.Store, log *slog.Logger) *TaskStore {
	return &TaskStore{
		kv:    backend,
		log:   log,
		tasks: []service.Task{},
		newID: uuid.NewString,
	}
}

// Load implements service.Service.
func (s *TaskStore) Load(ctx context.Context) error {
	s.tasks = []service.Task{}

	text, ok, err := s.kv.Read(ctx, SnapshotKey)
	if err != nil {
		s.log.Warn("failed to read snapshot, starting empty", "err", err)
		return nil
	}
	if !ok {
		s.log.Debug("no snapshot found")
		return nil
	}

	tasks, err := Decode(text)
	if err != nil {
		s.log.Warn("malformed snapshot, starting empty", "err", err)
		return nil
	}

	// Legacy snapshots carry no IDs; they are persisted with the next write.
	for i := range tasks {
		tasks[i] = tasks[i].Normalize()
	}
	if n := s.assignIDs(tasks); n > 0 {
		s.log.Debug("assigned missing or duplicate ids", "tasks", n)
	}
	s.tasks = tasks
	s.log.Debug("snapshot loaded", "tasks", len(tasks))
	return nil
}

// Tasks implements service.Service.
func (s *TaskStore) Tasks(ctx context.Context) ([]service.Task, error) {
	return clone(s.tasks), nil
}

// IndexOf implements service.Service.
func (s *TaskStore) IndexOf(id string) (int, bool) {
	for i, t := range s.tasks {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Create implements service.Service.
func (s *TaskStore) Create(ctx context.Context, task service.Task) (service.Task, error) {
	task = task.Normalize()
	if err := task.Validate(); err != nil {
		return service.Task{}, err
	}
	task.ID = s.newID()

	next := append(clone(s.tasks), task)
	if err := s.commit(ctx, next); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// Update implements service.Service.
func (s *TaskStore) Update(ctx context.Context, index int, task service.Task) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	task = task.Normalize()
	if err := task.ValidateUpdate(s.tasks[index]); err != nil {
		return err
	}
	task.ID = s.tasks[index].ID

	next := clone(s.tasks)
	next[index] = task
	return s.commit(ctx, next)
}

// Delete implements service.Service.
func (s *TaskStore) Delete(ctx context.Context, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	next := make([]service.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:index]...)
	next = append(next, s.tasks[index+1:]...)
	return s.commit(ctx, next)
}

// Replace implements service.Service.
func (s *TaskStore) Replace(ctx context.Context, tasks []service.Task) error {
	next := make([]service.Task, 0, len(tasks))
	for i, t := range tasks {
		t = t.Normalize()
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
		next = append(next, t)
	}
	s.assignIDs(next)
	return s.commit(ctx, next)
}

// Close closes the backend.
func (s *TaskStore) Close() error {
	return s.kv.Close()
}

// commit writes next through to the backend and only then makes it the
// current sequence.
func (s *TaskStore) commit(ctx context.Context, next []service.Task) error {
	text, err := Encode(next)
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrPersistenceUnavailable, err)
	}
	if err := s.kv.Write(ctx, SnapshotKey, text); err != nil {
		s.log.Debug("snapshot write failed", "err", err)
		return fmt.Errorf("%w: %w", service.ErrPersistenceUnavailable, err)
	}
	s.tasks = next
	s.log.Debug("snapshot written", "tasks", len(next))
	return nil
}

// assignIDs gives every task without an ID, or repeating an earlier task's
// ID, a new one. It returns the number of tasks changed.
func (s *TaskStore) assignIDs(tasks []service.Task) int {
	seen := make(map[string]bool, len(tasks))
	n := 0
	for i := range tasks {
		if tasks[i].ID == "" || seen[tasks[i].ID] {
			tasks[i].ID = s.newID()
			n++
		}
		seen[tasks[i].ID] = true
	}
	return n
}

func (s *TaskStore) checkIndex(index int) error {
	if index < 0 || index >= len(s.tasks) {
		return fmt.Errorf("%w: %d", service.ErrIndexOutOfRange, index+1)
	}
	return nil
}

func clone(tasks []service.Task) []service.Task {
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out
}
