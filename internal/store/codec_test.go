package store_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"tasker/internal/service"
	"tasker/internal/store"
)

func TestCodec_RoundTrip(t *testing.T) {
	tasks := []service.Task{
		{ID: "a1", Title: "Write report", Summary: "Q2 numbers", State: service.StateDoing, Deadline: "2024-05-01"},
		{ID: "b2", Title: "Call bank", Summary: "ask about fees", State: service.StateNotDone, Deadline: "2024-01-10"},
		{ID: "c3", Title: "Renew passport", Summary: "photos first", State: service.StateDone, Deadline: "2024-03-15"},
	}

	text, err := store.Encode(tasks)
	assert.NilError(t, err)

	got, err := store.Decode(text)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, tasks)
}

func TestCodec_EncodeNil(t *testing.T) {
	text, err := store.Encode(nil)
	assert.NilError(t, err)
	assert.Equal(t, text, "[]")
}

func TestCodec_DecodeLegacyShape(t *testing.T) {
	got, err := store.Decode(`[{"title":"t","summary":"s","state":"Done","deadline":"2024-01-10"}]`)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []service.Task{{Title: "t", Summary: "s", State: service.StateDone, Deadline: "2024-01-10"}})
}

func TestCodec_DecodeMalformed(t *testing.T) {
	_, err := store.Decode(`{"title":"not an array"}`)
	assert.Assert(t, err != nil)
}
