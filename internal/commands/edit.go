package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// Only the fields given as flags change; the rest are kept.
type EditCmd struct {
	title    optionalString
	summary  optionalString
	state    optionalString
	deadline optionalString
}

// SetTitle, SetSummary, SetState and SetDeadline set fields (for testing).
func (c *EditCmd) SetTitle(v string)    { c.title.Set(v) }
func (c *EditCmd) SetSummary(v string)  { c.summary.Set(v) }
func (c *EditCmd) SetState(v string)    { c.state.Set(v) }
func (c *EditCmd) SetDeadline(v string) { c.deadline.Set(v) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "tasker edit [--title <text>] [--summary <text>] [--state <state>] [--deadline <YYYY-MM-DD>] <ref>"
}
func (c *EditCmd) NeedsStore() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title.reset()
	c.summary.reset()
	c.state.reset()
	c.deadline.reset()
	fs.Var(&c.title, "title", "")
	fs.Var(&c.summary, "summary", "")
	fs.Var(&c.state, "state", "")
	fs.Var(&c.deadline, "deadline", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !c.title.set && !c.summary.set && !c.state.set && !c.deadline.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --summary, --state or --deadline)")
		return exitcode.UserError
	}

	idx, code := resolveArgs(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	tasks, err := svc.Tasks(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	if idx < 0 || idx >= len(tasks) {
		return reportError(errOut, fmt.Errorf("%w: %d", service.ErrIndexOutOfRange, idx+1))
	}

	task := tasks[idx]
	if c.title.set {
		task.Title = strings.TrimSpace(c.title.value)
	}
	if c.summary.set {
		task.Summary = c.summary.value
	}
	if c.state.set {
		state, err := service.ParseState(c.state.value)
		if err != nil {
			return reportError(errOut, err)
		}
		task.State = state
	}
	if c.deadline.set {
		task.Deadline = strings.TrimSpace(c.deadline.value)
	}

	if err := svc.Update(ctx, idx, task); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
