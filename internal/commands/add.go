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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	summary  string
	state    string
	deadline string
}

// SetFields sets the optional fields (for testing).
func (c *AddCmd) SetFields(summary, state, deadline string) {
	c.summary = summary
	c.state = state
	c.deadline = deadline
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tasker add [--summary <text>] [--state <state>] [--deadline <YYYY-MM-DD>] <title...>"
}
func (c *AddCmd) NeedsStore() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.summary, "summary", "", "")
	fs.StringVar(&c.state, "state", "", "")
	fs.StringVar(&c.deadline, "deadline", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Join args to form title
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	task := service.Task{
		Title:    title,
		Summary:  c.summary,
		Deadline: strings.TrimSpace(c.deadline),
	}
	if c.state != "" {
		state, err := service.ParseState(c.state)
		if err != nil {
			return reportError(errOut, err)
		}
		task.State = state
	}

	created, err := svc.Create(ctx, task)
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", created.ShortID())
	}
	return exitcode.Success
}
