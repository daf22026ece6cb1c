// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"tasker/internal/kv"
	"tasker/internal/service"
	"tasker/internal/store"
)

// FakeKV is an in-memory implementation of kv.Store for testing.
type FakeKV struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
	closed bool

	// Error injection for testing
	ReadErr  error
	WriteErr error
}

// NewFakeKV creates an empty FakeKV.
func NewFakeKV() *FakeKV {
	return &FakeKV{values: make(map[string]string)}
}

// Set stores a raw value without counting it as a write.
func (f *FakeKV) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

// Get returns the raw stored value.
func (f *FakeKV) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

// Writes returns the number of successful writes.
func (f *FakeKV) Writes() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.writes
}

// Closed reports whether Close was called.
func (f *FakeKV) Closed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}

// Snapshot decodes the persisted task sequence.
func (f *FakeKV) Snapshot() ([]service.Task, error) {
	v, ok := f.Get(store.SnapshotKey)
	if !ok {
		return nil, nil
	}
	return store.Decode(v)
}

// Read implements kv.Store.
func (f *FakeKV) Read(ctx context.Context, key string) (string, bool, error) {
	if f.ReadErr != nil {
		return "", false, f.ReadErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok, nil
}

// Write implements kv.Store.
func (f *FakeKV) Write(ctx context.Context, key, value string) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	f.writes++
	return nil
}

// Close implements kv.Store.
func (f *FakeKV) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

var _ kv.Store = (*FakeKV)(nil)
