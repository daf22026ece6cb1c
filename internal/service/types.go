package service

import (
	"fmt"
	"strings"
	"time"
)

// State is the progress of a task.
type State string

const (
	StateDone    State = "Done"
	StateNotDone State = "Not done"
	StateDoing   State = "Doing right now"
)

// States lists every valid state in display order.
var States = []State{StateDone, StateNotDone, StateDoing}

// DeadlineLayout is the accepted deadline format (YYYY-MM-DD).
const DeadlineLayout = "2006-01-02"

// Task represents a single task item.
type Task struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string `json:"title" yaml:"title"`
	Summary  string `json:"summary" yaml:"summary"`
	State    State  `json:"state" yaml:"state"`
	Deadline string `json:"deadline" yaml:"deadline"`
}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	for _, v := range States {
		if s == v {
			return true
		}
	}
	return false
}

// ParseState converts user input into a State.
// Canonical names match case-insensitively; "done", "todo", "not-done" and
// "doing" are accepted as short forms.
func ParseState(s string) (State, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, v := range States {
		if key == strings.ToLower(string(v)) {
			return v, nil
		}
	}
	switch key {
	case "todo", "not-done", "notdone":
		return StateNotDone, nil
	case "doing", "doing-right-now", "in-progress":
		return StateDoing, nil
	}
	return "", fmt.Errorf("%w: invalid state: %s", ErrValidationFailed, s)
}

// DeadlineTime parses the deadline. ok is false when the deadline is empty
// or not a valid date.
func (t Task) DeadlineTime() (time.Time, bool) {
	if t.Deadline == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DeadlineLayout, strings.TrimSpace(t.Deadline))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Normalize fills defaults: an empty state becomes StateNotDone.
func (t Task) Normalize() Task {
	if t.State == "" {
		t.State = StateNotDone
	}
	return t
}

// Validate checks the fields a stored task must satisfy.
// The task is expected to be normalized.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title required", ErrValidationFailed)
	}
	if !t.State.Valid() {
		return fmt.Errorf("%w: invalid state: %s", ErrValidationFailed, t.State)
	}
	if t.Deadline != "" {
		if _, ok := t.DeadlineTime(); !ok {
			return fmt.Errorf("%w: invalid deadline: %s (want YYYY-MM-DD)", ErrValidationFailed, t.Deadline)
		}
	}
	return nil
}

// ValidateUpdate is Validate for an edit of prev. A deadline carried over
// unchanged from prev is accepted even if it does not parse, so tasks
// loaded with free-text deadlines can still be edited.
func (t Task) ValidateUpdate(prev Task) error {
	if t.Deadline == prev.Deadline {
		t.Deadline = ""
	}
	return t.Validate()
}

// ShortID returns the first 8 characters of the task ID.
func (t Task) ShortID() string {
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}
