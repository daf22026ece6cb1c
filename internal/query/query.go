// Package query derives filtered and sorted views of a task sequence.
package query

import (
	"fmt"
	"sort"
	"strings"

	"tasker/internal/service"
)

// SortDeadline is the sort key ordering tasks by ascending deadline.
const SortDeadline = "deadline"

// Options selects the view. Zero values mean "no filter" and "no sort".
type Options struct {
	// FilterState keeps only tasks in this state.
	FilterState service.State

	// SortKey is SortDeadline or a state name. A state name moves tasks in
	// that state to the front, keeping relative order on both sides.
	SortKey string
}

// View returns a new slice holding the view of tasks. The input is never
// modified. Filtering is applied before sorting.
func View(tasks []service.Task, opts Options) []service.Task {
	positions := Positions(tasks, opts)
	out := make([]service.Task, len(positions))
	for i, p := range positions {
		out[i] = tasks[p]
	}
	return out
}

// Positions returns the 0-based stored indices of the tasks in the view,
// in view order.
func Positions(tasks []service.Task, opts Options) []int {
	out := make([]int, 0, len(tasks))
	for i, t := range tasks {
		if opts.FilterState != "" && t.State != opts.FilterState {
			continue
		}
		out = append(out, i)
	}

	switch {
	case opts.SortKey == "":
	case opts.SortKey == SortDeadline:
		sort.SliceStable(out, func(i, j int) bool {
			return deadlineBefore(tasks[out[i]], tasks[out[j]])
		})
	default:
		first := service.State(opts.SortKey)
		sort.SliceStable(out, func(i, j int) bool {
			return tasks[out[i]].State == first && tasks[out[j]].State != first
		})
	}
	return out
}

// deadlineBefore orders by ascending deadline. Tasks without a valid
// deadline go last.
func deadlineBefore(a, b service.Task) bool {
	da, aok := a.DeadlineTime()
	db, bok := b.DeadlineTime()
	switch {
	case aok && bok:
		return da.Before(db)
	case aok:
		return true
	default:
		return false
	}
}

// ParseSortKey converts user input into a sort key: "deadline" or a state.
func ParseSortKey(s string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(s), SortDeadline) {
		return SortDeadline, nil
	}
	state, err := service.ParseState(s)
	if err != nil {
		return "", fmt.Errorf("invalid sort key: %s (want deadline or a state)", s)
	}
	return string(state), nil
}
