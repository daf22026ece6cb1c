package output

import (
	"bytes"
	"testing"

	"tasker/internal/service"
)

func TestFormatTask_AllFields(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, 3, service.Task{
		ID:       "0f8fad5b-d9cb-469f-a165-70867728950e",
		Title:    "Write report",
		Summary:  "Q2\nnumbers",
		State:    service.StateDoing,
		Deadline: "2024-05-01",
	})

	expected := "   3  Write report  [0f8fad5b]\n" +
		"      Q2 numbers\n" +
		"      State: Doing right now\n" +
		"      Deadline: 2024-05-01\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatTask_Placeholders(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, 12, service.Task{Title: "  ", State: service.StateNotDone})

	expected := "  12  (untitled)\n" +
		"      No summary provided.\n" +
		"      State: Not done\n" +
		"      Deadline: No deadline set.\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}
