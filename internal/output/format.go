// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasker/internal/service"
)

const (
	// NoSummary is printed for tasks without a summary.
	NoSummary = "No summary provided."

	// NoDeadline is printed for tasks without a deadline.
	NoDeadline = "No deadline set."

	// NoTasks is printed when a view is empty.
	NoTasks = "You have no tasks"
)

// FormatTask formats a task card.
// num is the task's 1-based stored position, which stays the same under
// any filter or sort so it can be passed to edit, done and rm.
//
//	{N:>4}  {TITLE}  [{ID8}]
//	      {SUMMARY}
//	      State: {STATE}
//	      Deadline: {DEADLINE}
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s", num, normalizeTitle(task.Title))
	if id := task.ShortID(); id != "" {
		fmt.Fprintf(w, "  [%s]", id)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "      %s\n", orDefault(normalizeText(task.Summary), NoSummary))
	fmt.Fprintf(w, "      State: %s\n", task.State)
	fmt.Fprintf(w, "      Deadline: %s\n", orDefault(task.Deadline, NoDeadline))
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeText(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// normalizeText replaces newlines with spaces and trims surrounding space.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
