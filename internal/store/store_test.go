package store_test

import (
	"context"
	"errors"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"tasker/internal/logging"
	"tasker/internal/service"
	"tasker/internal/store"
	"tasker/internal/testutil"
)

func titles(tasks []service.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

// assertWriteThrough checks the persisted snapshot equals the in-memory sequence.
func assertWriteThrough(t *testing.T, s *store.TaskStore, backend *testutil.FakeKV) {
	t.Helper()
	mem, err := s.Tasks(context.Background())
	assert.NilError(t, err)
	persisted, err := backend.Snapshot()
	assert.NilError(t, err)
	assert.DeepEqual(t, persisted, mem)
}

func TestLoad_NoSnapshot(t *testing.T) {
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend)

	tasks, err := s.Tasks(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.Len(tasks, 0))
	assert.Equal(t, backend.Writes(), 0)
}

func TestLoad_MalformedSnapshotDegradesToEmpty(t *testing.T) {
	backend := testutil.NewFakeKV()
	backend.Set(store.SnapshotKey, "{not json")

	s := store.New(backend, logging.Discard())
	assert.NilError(t, s.Load(context.Background()))

	tasks, _ := s.Tasks(context.Background())
	assert.Check(t, is.Len(tasks, 0))
}

func TestLoad_NullSnapshot(t *testing.T) {
	backend := testutil.NewFakeKV()
	backend.Set(store.SnapshotKey, "null")

	s := store.New(backend, logging.Discard())
	assert.NilError(t, s.Load(context.Background()))

	tasks, _ := s.Tasks(context.Background())
	assert.Check(t, is.Len(tasks, 0))
}

func TestLoad_ReadErrorDegradesToEmpty(t *testing.T) {
	backend := testutil.NewFakeKV()
	backend.Set(store.SnapshotKey, `[{"title":"a","state":"Done"}]`)
	backend.ReadErr = errors.New("disk on fire")

	s := store.New(backend, logging.Discard())
	assert.NilError(t, s.Load(context.Background()))

	tasks, _ := s.Tasks(context.Background())
	assert.Check(t, is.Len(tasks, 0))
}

func TestLoad_LegacySnapshotGetsIDsAndDefaults(t *testing.T) {
	backend := testutil.NewFakeKV()
	backend.Set(store.SnapshotKey, `[{"title":"a","summary":"","state":"","deadline":""},{"title":"b","summary":"s","state":"Done","deadline":"2024-01-10"}]`)

	s := store.New(backend, logging.Discard())
	assert.NilError(t, s.Load(context.Background()))

	tasks, _ := s.Tasks(context.Background())
	assert.Assert(t, is.Len(tasks, 2))
	assert.Check(t, tasks[0].ID != "")
	assert.Check(t, tasks[1].ID != "")
	assert.Check(t, tasks[0].ID != tasks[1].ID)
	assert.Equal(t, tasks[0].State, service.StateNotDone)
	assert.Equal(t, tasks[1].Deadline, "2024-01-10")
}

func TestLoad_DuplicateIDsReassigned(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend,
		testutil.Task("aaaa1111", "first", service.StateNotDone, ""),
		testutil.Task("aaaa1111", "second", service.StateNotDone, ""),
		testutil.Task("bbbb2222", "third", service.StateNotDone, ""),
	)

	tasks, _ := s.Tasks(ctx)
	assert.DeepEqual(t, titles(tasks), []string{"first", "second", "third"})
	assert.Equal(t, tasks[0].ID, "aaaa1111")
	assert.Check(t, tasks[1].ID != "aaaa1111" && tasks[1].ID != "")
	assert.Equal(t, tasks[2].ID, "bbbb2222")

	idx, ok := s.IndexOf(tasks[1].ID)
	assert.Check(t, ok)
	assert.Equal(t, idx, 1)

	// The reassigned ID is persisted with the next write.
	assert.NilError(t, s.Delete(ctx, 2))
	assertWriteThrough(t, s, backend)
}

func TestCreate_AppendsAndWritesThrough(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend)

	for i, title := range []string{"first", "second", "third"} {
		created, err := s.Create(ctx, service.Task{Title: title})
		assert.NilError(t, err)
		assert.Check(t, created.ID != "")
		assert.Equal(t, created.State, service.StateNotDone)

		tasks, _ := s.Tasks(ctx)
		assert.Assert(t, is.Len(tasks, i+1))
		assert.Equal(t, tasks[i].Title, title)
		assertWriteThrough(t, s, backend)
	}
	assert.Equal(t, backend.Writes(), 3)
}

func TestCreate_ValidationFailed(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		task service.Task
	}{
		{"empty title", service.Task{Title: "  "}},
		{"bad state", service.Task{Title: "x", State: "Someday"}},
		{"bad deadline", service.Task{Title: "x", Deadline: "tomorrow"}},
		{"impossible date", service.Task{Title: "x", Deadline: "2024-02-30"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := testutil.NewFakeKV()
			s := testutil.NewStore(t, backend)

			_, err := s.Create(ctx, tc.task)
			assert.ErrorIs(t, err, service.ErrValidationFailed)
			assert.Equal(t, backend.Writes(), 0)

			tasks, _ := s.Tasks(ctx)
			assert.Check(t, is.Len(tasks, 0))
		})
	}
}

func TestCreate_WriteFailureLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend, testutil.Task("id-1", "existing", service.StateDone, ""))

	backend.WriteErr = errors.New("read-only filesystem")
	_, err := s.Create(ctx, service.Task{Title: "new"})
	assert.ErrorIs(t, err, service.ErrPersistenceUnavailable)

	tasks, _ := s.Tasks(ctx)
	assert.DeepEqual(t, titles(tasks), []string{"existing"})
}

func TestUpdate_ReplacesAndKeepsID(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend,
		testutil.Task("id-1", "a", service.StateNotDone, ""),
		testutil.Task("id-2", "b", service.StateNotDone, ""),
	)

	err := s.Update(ctx, 1, service.Task{ID: "ignored", Title: "b2", State: service.StateDoing, Deadline: "2024-03-15"})
	assert.NilError(t, err)

	tasks, _ := s.Tasks(ctx)
	assert.DeepEqual(t, tasks[1], service.Task{ID: "id-2", Title: "b2", State: service.StateDoing, Deadline: "2024-03-15"})
	assertWriteThrough(t, s, backend)
}

func TestUpdate_KeepsUnparseableLoadedDeadline(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend, testutil.Task("id-1", "a", service.StateNotDone, "tomorrow"))

	err := s.Update(ctx, 0, service.Task{Title: "a", State: service.StateDone, Deadline: "tomorrow"})
	assert.NilError(t, err)

	tasks, _ := s.Tasks(ctx)
	assert.Equal(t, tasks[0].State, service.StateDone)
	assert.Equal(t, tasks[0].Deadline, "tomorrow")
	assertWriteThrough(t, s, backend)

	// A changed deadline is still checked.
	err = s.Update(ctx, 0, service.Task{Title: "a", State: service.StateDone, Deadline: "next week"})
	assert.Check(t, errors.Is(err, service.ErrValidationFailed))
}

func TestUpdate_AnyStateToAnyState(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend, testutil.Task("id-1", "a", service.StateDone, ""))

	for _, st := range []service.State{service.StateNotDone, service.StateDoing, service.StateDone, service.StateDoing} {
		assert.NilError(t, s.Update(ctx, 0, service.Task{Title: "a", State: st}))
		tasks, _ := s.Tasks(ctx)
		assert.Equal(t, tasks[0].State, st)
	}
}

func TestUpdate_IndexOutOfRange(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend, testutil.Task("id-1", "a", service.StateDone, ""))

	for _, idx := range []int{-1, 1, 5} {
		err := s.Update(ctx, idx, service.Task{Title: "x"})
		assert.ErrorIs(t, err, service.ErrIndexOutOfRange)
	}
	assert.Equal(t, backend.Writes(), 0)
}

func TestDelete_RemovesAndShifts(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend,
		testutil.Task("id-1", "a", service.StateNotDone, ""),
		testutil.Task("id-2", "b", service.StateNotDone, ""),
		testutil.Task("id-3", "c", service.StateNotDone, ""),
	)

	assert.NilError(t, s.Delete(ctx, 1))

	tasks, _ := s.Tasks(ctx)
	assert.DeepEqual(t, titles(tasks), []string{"a", "c"})
	idx, ok := s.IndexOf("id-3")
	assert.Check(t, ok)
	assert.Equal(t, idx, 1)
	_, ok = s.IndexOf("id-2")
	assert.Check(t, !ok)
	assertWriteThrough(t, s, backend)
}

func TestDelete_IndexOutOfRange(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend)

	err := s.Delete(ctx, 0)
	assert.ErrorIs(t, err, service.ErrIndexOutOfRange)
	assert.ErrorContains(t, err, "task number out of range: 1")
}

func TestDelete_WriteFailureLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend,
		testutil.Task("id-1", "a", service.StateNotDone, ""),
		testutil.Task("id-2", "b", service.StateNotDone, ""),
	)

	backend.WriteErr = errors.New("quota exceeded")
	assert.ErrorIs(t, s.Delete(ctx, 0), service.ErrPersistenceUnavailable)

	tasks, _ := s.Tasks(ctx)
	assert.DeepEqual(t, titles(tasks), []string{"a", "b"})
}

func TestReplace_BulkReplace(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend, testutil.Task("id-1", "old", service.StateNotDone, ""))

	err := s.Replace(ctx, []service.Task{
		{ID: "keep", Title: "x"},
		{ID: "keep", Title: "duplicate id"},
		{Title: "no id", State: service.StateDone},
	})
	assert.NilError(t, err)

	tasks, _ := s.Tasks(ctx)
	assert.DeepEqual(t, titles(tasks), []string{"x", "duplicate id", "no id"})
	assert.Equal(t, tasks[0].ID, "keep")
	assert.Check(t, tasks[1].ID != "keep" && tasks[1].ID != "")
	assert.Check(t, tasks[2].ID != "")
	assertWriteThrough(t, s, backend)
}

func TestReplace_RejectsInvalidTask(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend, testutil.Task("id-1", "old", service.StateNotDone, ""))

	err := s.Replace(ctx, []service.Task{{Title: "ok"}, {Title: ""}})
	assert.ErrorIs(t, err, service.ErrValidationFailed)
	assert.ErrorContains(t, err, "task 2")

	tasks, _ := s.Tasks(ctx)
	assert.DeepEqual(t, titles(tasks), []string{"old"})
}

func TestTasks_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend, testutil.Task("id-1", "a", service.StateNotDone, ""))

	tasks, _ := s.Tasks(ctx)
	tasks[0].Title = "mutated"

	again, _ := s.Tasks(ctx)
	assert.Equal(t, again[0].Title, "a")
}

func TestWriteThrough_MixedSequence(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeKV()
	s := testutil.NewStore(t, backend)

	steps := []func() error{
		func() error { _, err := s.Create(ctx, service.Task{Title: "a"}); return err },
		func() error { _, err := s.Create(ctx, service.Task{Title: "b", Deadline: "2024-05-01"}); return err },
		func() error { return s.Update(ctx, 0, service.Task{Title: "a2", State: service.StateDone}) },
		func() error { _, err := s.Create(ctx, service.Task{Title: "c", Summary: "note"}); return err },
		func() error { return s.Delete(ctx, 1) },
		func() error { return s.Delete(ctx, 0) },
	}
	for _, step := range steps {
		assert.NilError(t, step())
		assertWriteThrough(t, s, backend)
	}

	// A fresh store over the same backend sees the same sequence.
	reloaded := testutil.NewStore(t, backend)
	want, _ := s.Tasks(ctx)
	got, _ := reloaded.Tasks(ctx)
	assert.DeepEqual(t, got, want)
}
